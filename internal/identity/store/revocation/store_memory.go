package revocation

import (
	"context"
	"sync"
	"time"

	id "aduan/pkg/domain"
)

// InMemoryList is a process-local revocation list. Entries expire lazily on
// read; there is no background sweeper.
type InMemoryList struct {
	mu      sync.RWMutex
	revoked map[id.SessionID]time.Time
	clock   func() time.Time
}

type InMemoryOption func(*InMemoryList)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(l *InMemoryList) {
		if clock != nil {
			l.clock = clock
		}
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemoryList {
	l := &InMemoryList{
		revoked: make(map[id.SessionID]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *InMemoryList) Revoke(ctx context.Context, sessionID id.SessionID, ttl time.Duration) error {
	if sessionID.IsNil() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[sessionID] = l.clock().Add(ttl)
	return nil
}

func (l *InMemoryList) IsRevoked(ctx context.Context, sessionID id.SessionID) (bool, error) {
	if sessionID.IsNil() {
		return false, nil
	}
	l.mu.RLock()
	expiresAt, ok := l.revoked[sessionID]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if l.clock().After(expiresAt) {
		l.mu.Lock()
		delete(l.revoked, sessionID)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}
