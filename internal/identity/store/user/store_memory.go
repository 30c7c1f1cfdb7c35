package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	id "aduan/pkg/domain"
	"aduan/pkg/platform/sentinel"
)

// InMemoryStore implements Store with process-local state. Suitable for tests
// and single-instance development; use the Postgres store otherwise.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]*Record
	byEmail map[string]id.UserID
	byNIK   map[string]id.UserID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.UserID]*Record),
		byEmail: make(map[string]id.UserID),
		byNIK:   make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(rec.Email)
	if _, exists := s.byEmail[key]; exists {
		return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
	}
	if _, exists := s.byNIK[rec.NIK]; exists {
		return fmt.Errorf("NIK already exists: %w", sentinel.ErrConflict)
	}

	copied := *rec
	s.byID[rec.ID] = &copied
	s.byEmail[key] = rec.ID
	s.byNIK[rec.NIK] = rec.ID
	return nil
}

func (s *InMemoryStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[userID]
	return &copied, nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, userID id.UserID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

// emailKey makes lookups case-insensitive; stored records keep the original
// casing for display.
func emailKey(email string) string {
	return strings.ToLower(email)
}
