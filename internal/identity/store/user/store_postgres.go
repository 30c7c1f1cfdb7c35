package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "aduan/pkg/domain"
	"aduan/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// PostgresStore persists citizen accounts in PostgreSQL. Expects the accounts
// table with unique indexes on lower(email) and nik.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, full_name, nik, address, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(rec.ID), rec.Email, rec.PasswordHash, rec.FullName,
		rec.NIK, rec.Address, rec.Phone, string(rec.Role), rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "accounts_nik_key" {
				return fmt.Errorf("NIK already exists: %w", sentinel.ErrConflict)
			}
			return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	query := `
		SELECT id, email, password_hash, full_name, nik, address, phone, role, created_at
		FROM accounts
		WHERE lower(email) = lower($1)
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*Record, error) {
	query := `
		SELECT id, email, password_hash, full_name, nik, address, phone, role, created_at
		FROM accounts
		WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *PostgresStore) scanOne(row *sql.Row) (*Record, error) {
	var rec Record
	var rawID uuid.UUID
	var role string
	err := row.Scan(&rawID, &rec.Email, &rec.PasswordHash, &rec.FullName,
		&rec.NIK, &rec.Address, &rec.Phone, &role, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	rec.ID = id.UserID(rawID)
	rec.Role = id.Role(role)
	return &rec, nil
}
