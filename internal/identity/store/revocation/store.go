package revocation

import (
	"context"
	"time"

	id "aduan/pkg/domain"
)

// List tracks revoked portal sessions. Sign-out writes here; token
// validation consults it so a revoked session cannot be replayed.
type List interface {
	Revoke(ctx context.Context, sessionID id.SessionID, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID id.SessionID) (bool, error)
}
