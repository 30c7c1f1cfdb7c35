package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "aduan/pkg/domain"
)

var isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "aduan_session_revocation_check_duration_ms",
	Help:    "Latency of session revocation checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// Redis key prefix for revoked sessions.
const revokedSessionKeyPrefix = "srl:sid:"

// RedisList is a Redis-backed revocation list for deployments where multiple
// instances need to share sign-out state.
type RedisList struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

// Revoke marks a session revoked with TTL. Uses SET with expiry so entries
// clean themselves up once the underlying token would have expired anyway.
func (l *RedisList) Revoke(ctx context.Context, sessionID id.SessionID, ttl time.Duration) error {
	if sessionID.IsNil() {
		return nil
	}
	key := revokedSessionKeyPrefix + sessionID.String()
	// Store "1" as a simple marker; the key existence is what matters
	return l.client.Set(ctx, key, "1", ttl).Err()
}

// IsRevoked checks if a session is in the revocation list.
// Returns false if the key doesn't exist (not revoked or expired).
func (l *RedisList) IsRevoked(ctx context.Context, sessionID id.SessionID) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if sessionID.IsNil() {
		return false, nil
	}
	key := revokedSessionKeyPrefix + sessionID.String()
	err := l.client.Get(ctx, key).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
