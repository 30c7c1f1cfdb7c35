package register

import "strings"

// Form is the raw registration submission exactly as the user typed it. It is
// owned by the registration view and consumed once on submit.
type Form struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	NIK             string
	Address         string
	Phone           string
}

// trimmed returns a copy with the whitespace-insensitive fields trimmed.
// Passwords are deliberately left untouched: leading whitespace in a password
// is part of the password.
func (f Form) trimmed() Form {
	f.Email = strings.TrimSpace(f.Email)
	f.FullName = strings.TrimSpace(f.FullName)
	f.NIK = strings.TrimSpace(f.NIK)
	f.Address = strings.TrimSpace(f.Address)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}
