package domain

import dErrors "aduan/pkg/domain-errors"

// Role determines which views a signed-in user can reach.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role string at trust boundaries.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCitizen, RoleAdmin:
		return Role(raw), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", raw)
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }
