package register

import (
	"regexp"

	"aduan/internal/identity"
	dErrors "aduan/pkg/domain-errors"
)

// emailShape accepts local@domain.tld: no whitespace, exactly one @, at least
// one dot after the @.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Validate runs the ordered rule pipeline over a raw form. Evaluation is
// fail-fast: the first violated rule wins and later rules are not consulted.
// On success it returns the normalized payload ready for sign-up: trimmed
// fields plus the raw password.
func Validate(form Form) (identity.Registration, error) {
	f := form.trimmed()

	if !emailShape.MatchString(f.Email) {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "invalid email format")
	}
	if f.Password != f.ConfirmPassword {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "password mismatch")
	}
	if len(f.Password) < 6 {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "password too short")
	}
	if len(f.NIK) != 16 {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "NIK must be 16 digits")
	}
	if !digitsOnly.MatchString(f.NIK) {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "NIK must contain only digits")
	}
	if f.FullName == "" {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "full name is required")
	}
	if f.Address == "" {
		return identity.Registration{}, dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}

	return identity.Registration{
		Email:    f.Email,
		Password: f.Password,
		FullName: f.FullName,
		NIK:      f.NIK,
		Address:  f.Address,
		Phone:    f.Phone,
	}, nil
}
