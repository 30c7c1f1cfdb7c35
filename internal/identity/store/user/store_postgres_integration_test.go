//go:build integration

package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"aduan/internal/identity/store/user"
	id "aduan/pkg/domain"
	"aduan/pkg/platform/sentinel"
	"aduan/pkg/testutil/containers"
)

const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	full_name TEXT NOT NULL,
	nik TEXT NOT NULL UNIQUE,
	address TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower_key ON accounts (lower(email));
`

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), accountsSchema)
	s.store = user.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "accounts"))
}

func record(email, nik string) *user.Record {
	return &user.Record{
		ID:           id.UserID(uuid.New()),
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		FullName:     "Siti Rahma",
		NIK:          nik,
		Address:      "Jl. Merdeka No. 1, Bandung",
		Phone:        "081234567890",
		Role:         id.RoleCitizen,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := record("siti@example.com", "3273011501900001")
	s.Require().NoError(s.store.Create(ctx, rec))

	s.Run("find by email is case-insensitive", func() {
		found, err := s.store.FindByEmail(ctx, "SITI@EXAMPLE.COM")
		s.Require().NoError(err)
		s.Equal(rec.ID, found.ID)
		s.Equal(rec.NIK, found.NIK)
		s.Equal(id.RoleCitizen, found.Role)
	})

	s.Run("find by id", func() {
		found, err := s.store.FindByID(ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(rec.Email, found.Email)
	})

	s.Run("unknown email reports not found", func() {
		_, err := s.store.FindByEmail(ctx, "nobody@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestDuplicateEmail() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, record("siti@example.com", "3273011501900001")))

	err := s.store.Create(ctx, record("Siti@Example.com", "3273011501900002"))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
	s.Contains(err.Error(), "email already registered")
}

func (s *PostgresStoreSuite) TestDuplicateNIK() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, record("siti@example.com", "3273011501900001")))

	err := s.store.Create(ctx, record("budi@example.com", "3273011501900001"))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
	s.Contains(err.Error(), "NIK already exists")
}
