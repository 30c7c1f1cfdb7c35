package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"aduan/internal/identity/store/revocation"
	"aduan/internal/identity/store/user"
	"aduan/internal/identity/token"
	"aduan/internal/platform/logger"
	id "aduan/pkg/domain"
	dErrors "aduan/pkg/domain-errors"
	"aduan/pkg/platform/sentinel"
)

// TokenService mints and validates signed session tokens.
type TokenService interface {
	Generate(userID id.UserID, sessionID id.SessionID, role id.Role, fullName string, expiresIn time.Duration) (string, error)
	Validate(tokenString string) (*token.Claims, error)
}

const sessionTTL = 24 * time.Hour

// LocalProvider is an in-process identity provider: bcrypt-hashed accounts in
// a user store, HS256 session tokens, and a revocation list for sign-out.
// It stands in for the hosted provider the original portal delegated to.
type LocalProvider struct {
	users   user.Store
	tokens  TokenService
	revoked revocation.List
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*LocalProvider)

func WithLogger(l *slog.Logger) Option {
	return func(p *LocalProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewLocalProvider(users user.Store, tokens TokenService, revoked revocation.List, opts ...Option) (*LocalProvider, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if revoked == nil {
		return nil, errors.New("revocation list is required")
	}

	p := &LocalProvider{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
		logger:  logger.Discard(),
		tracer:  otel.Tracer("aduan/identity"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, reg Registration) (*Identity, error) {
	ctx, span := p.tracer.Start(ctx, "identity.SignUp")
	defer span.End()

	if !strings.Contains(reg.Email, "@") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid email address")
	}
	if len(reg.Password) < 6 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password does not meet strength requirements")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	rec := &user.Record{
		ID:           id.UserID(uuid.New()),
		Email:        reg.Email,
		PasswordHash: string(hash),
		FullName:     reg.FullName,
		NIK:          reg.NIK,
		Address:      reg.Address,
		Phone:        reg.Phone,
		Role:         id.RoleCitizen,
		CreatedAt:    time.Now(),
	}
	if err := p.users.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Keep the store's phrasing: the registration flow classifies
			// these messages ("already registered" / "already exists").
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, conflictMessage(err))
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity store unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create account")
	}

	p.logger.Info("account created", "user_id", rec.ID.String(), "role", string(rec.Role))
	return p.establish(rec)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	ctx, span := p.tracer.Start(ctx, "identity.SignIn")
	defer span.End()

	rec, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity store unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	return p.establish(rec)
}

func (p *LocalProvider) SignOut(ctx context.Context, sessionID id.SessionID) error {
	ctx, span := p.tracer.Start(ctx, "identity.SignOut")
	defer span.End()

	return p.revoked.Revoke(ctx, sessionID, sessionTTL)
}

// Resume re-establishes an identity from a persisted session token: the token
// must validate, the session must not be revoked, and the account must still
// exist. Used to resolve the gate to authenticated on startup.
func (p *LocalProvider) Resume(ctx context.Context, rawToken string) (*Identity, error) {
	ctx, span := p.tracer.Start(ctx, "identity.Resume")
	defer span.End()

	claims, err := p.tokens.Validate(rawToken)
	if err != nil {
		return nil, err
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	revoked, err := p.revoked.IsRevoked(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "revocation list unavailable")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session has been revoked")
	}

	rec, err := p.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up account")
	}

	return &Identity{
		UserID:    rec.ID,
		SessionID: sessionID,
		Token:     rawToken,
		Email:     rec.Email,
		FullName:  rec.FullName,
		Role:      rec.Role,
	}, nil
}

// conflictMessage keeps the store's human phrasing ("email already
// registered", "NIK already exists") and drops the sentinel suffix.
func conflictMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i > 0 {
		return msg[:i]
	}
	return msg
}

func (p *LocalProvider) establish(rec *user.Record) (*Identity, error) {
	sessionID := id.SessionID(uuid.New())
	signed, err := p.tokens.Generate(rec.ID, sessionID, rec.Role, rec.FullName, sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "mint session token")
	}

	return &Identity{
		UserID:    rec.ID,
		SessionID: sessionID,
		Token:     signed,
		Email:     rec.Email,
		FullName:  rec.FullName,
		Role:      rec.Role,
	}, nil
}
