package user

import (
	"context"
	"time"

	id "aduan/pkg/domain"
)

// Record is the stored citizen account. PasswordHash is a bcrypt hash; the
// raw password never reaches a store.
type Record struct {
	ID           id.UserID
	Email        string
	PasswordHash string
	FullName     string
	NIK          string
	Address      string
	Phone        string
	Role         id.Role
	CreatedAt    time.Time
}

// Store persists citizen accounts. Create returns sentinel.ErrConflict
// (wrapped) when the email or NIK is already taken; lookups return
// sentinel.ErrNotFound when no account matches.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	FindByEmail(ctx context.Context, email string) (*Record, error)
	FindByID(ctx context.Context, userID id.UserID) (*Record, error)
}
