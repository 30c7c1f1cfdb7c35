package identity

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider

import (
	"context"

	id "aduan/pkg/domain"
)

// Registration is the normalized sign-up payload handed to the provider.
// Fields arrive already trimmed; Password is raw.
type Registration struct {
	Email    string
	Password string
	FullName string
	NIK      string
	Address  string
	Phone    string
}

// Identity is what the provider returns once a user is established. It is the
// raw material the session gate turns into a Session plus Profile.
type Identity struct {
	UserID    id.UserID
	SessionID id.SessionID
	Token     string
	Email     string
	FullName  string
	Role      id.Role
}

// Provider is the identity-provider boundary. The portal core only consumes
// this interface; the local implementation stands in for a hosted provider.
//
// Error classification (via pkg/domain-errors codes):
//   - CodeConflict: email or NIK already registered
//   - CodeBadRequest: malformed input the provider rejects
//   - CodeInvariantViolation: credential does not meet strength rules
//   - CodeUnauthorized: sign-in credential mismatch
//   - CodeUnavailable: transport failure reaching the provider's backends
type Provider interface {
	SignUp(ctx context.Context, reg Registration) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context, sessionID id.SessionID) error
}
