package register

import (
	"strings"

	dErrors "aduan/pkg/domain-errors"
)

// User-facing messages for identity-provider failures, in the portal's
// language. The raw provider message is classified by substring because the
// provider does not expose a stable machine-readable category.
const (
	msgInvalidEmail = "Format email tidak valid. Periksa kembali email Anda."
	msgDuplicate    = "Email atau NIK sudah terdaftar. Silakan gunakan email/NIK lain atau login."
	msgWeakPassword = "Password terlalu lemah. Gunakan kombinasi huruf, angka, dan simbol."
	msgGenericRetry = "Terjadi kesalahan. Silakan coba lagi."
)

// Classify maps an identity-provider error to one of four user-facing
// categories: invalid-email, duplicate-identity, weak-password, or a generic
// retry message.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	msg := dErrors.MessageOf(err)
	switch {
	case strings.Contains(msg, "invalid email"):
		return msgInvalidEmail
	case strings.Contains(msg, "already registered"), strings.Contains(msg, "already exists"):
		return msgDuplicate
	case strings.Contains(msg, "password"):
		return msgWeakPassword
	default:
		return msgGenericRetry
	}
}
