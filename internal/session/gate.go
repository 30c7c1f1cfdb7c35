package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"aduan/internal/identity"
	"aduan/internal/platform/logger"
	"aduan/internal/session/device"
	dErrors "aduan/pkg/domain-errors"
	audit "aduan/pkg/platform/audit"
	"aduan/pkg/requestcontext"
)

// Metrics is the subset of session metrics the gate records.
type Metrics interface {
	IncrementSessionsCreated()
	IncrementSessionsRevoked()
	IncrementSignUpFailures()
	IncrementSignInFailures()
}

// AuditPublisher receives best-effort audit events for session transitions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Gate owns the single process-wide Session. All writes go through its
// methods; readers subscribe or take synchronous snapshots. This replaces
// ambient mutable auth state with one owner and an explicit notification
// mechanism.
type Gate struct {
	provider identity.Provider
	logger   *slog.Logger
	metrics  Metrics
	audit    AuditPublisher
	tracer   trace.Tracer

	mu       sync.RWMutex
	session  Session
	profile  *Profile
	current  *identity.Identity
	resolved bool
	subs     map[int]chan Snapshot
	nextSub  int
}

type Option func(*Gate)

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(g *Gate) {
		g.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(g *Gate) {
		g.audit = publisher
	}
}

// New constructs a Gate in the loading state. Callers must resolve it once
// (ResolveAnonymous or ResolveAuthenticated) before sign-in traffic arrives.
func New(provider identity.Provider, opts ...Option) (*Gate, error) {
	if provider == nil {
		return nil, errors.New("identity provider is required")
	}

	g := &Gate{
		provider: provider,
		logger:   logger.Discard(),
		tracer:   otel.Tracer("aduan/session"),
		session:  Session{Loading: true},
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// CurrentSession returns a synchronous snapshot of the session state.
func (g *Gate) CurrentSession() Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// CurrentProfile returns the signed-in profile, or nil while anonymous or
// loading. The returned value is a copy; mutating it does not touch the gate.
func (g *Gate) CurrentProfile() *Profile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.profile == nil {
		return nil
	}
	copied := *g.profile
	return &copied
}

// Token returns the current session token, empty while anonymous.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return ""
	}
	return g.current.Token
}

// Subscribe registers an observer. The channel holds the latest snapshot
// (stale intermediate states are dropped, never blocked on). The returned
// cancel function must be called to release the subscription.
func (g *Gate) Subscribe() (<-chan Snapshot, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := make(chan Snapshot, 1)
	key := g.nextSub
	g.nextSub++
	g.subs[key] = ch
	ch <- g.snapshotLocked()

	cancel := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, key)
	}
	return ch, cancel
}

// ResolveAnonymous completes the initial load with no established identity.
// Resolution happens exactly once; later calls are no-ops.
func (g *Gate) ResolveAnonymous() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resolved {
		return
	}
	g.resolved = true
	g.session = Session{}
	g.notifyLocked()
}

// ResolveAuthenticated completes the initial load with an identity restored
// out of band (for example from a persisted token).
func (g *Gate) ResolveAuthenticated(ident *identity.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resolved || ident == nil {
		if !g.resolved {
			g.resolved = true
			g.session = Session{}
			g.notifyLocked()
		}
		return
	}
	g.resolved = true
	g.establishLocked(ident)
}

// SignUp registers a new account through the identity provider. On success
// the session becomes authenticated with the provider-assigned (citizen)
// role; on failure the session is left untouched and the classified error is
// returned for the registration flow to translate.
func (g *Gate) SignUp(ctx context.Context, reg identity.Registration) error {
	ctx, span := g.tracer.Start(ctx, "session.SignUp")
	defer span.End()

	if err := g.checkWritable(); err != nil {
		return err
	}

	ident, err := g.provider.SignUp(ctx, reg)
	if err != nil {
		if g.metrics != nil {
			g.metrics.IncrementSignUpFailures()
		}
		return err
	}

	g.mu.Lock()
	g.establishLocked(ident)
	g.mu.Unlock()

	g.logger.Info("session established",
		"user_id", ident.UserID.String(), "role", string(ident.Role), "via", "sign_up")
	g.emit(ctx, audit.CategoryCompliance, audit.EventUserRegistered, ident, "")
	g.emit(ctx, audit.CategorySecurity, audit.EventSessionCreated, ident, "")
	return nil
}

// SignIn authenticates an existing account.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	ctx, span := g.tracer.Start(ctx, "session.SignIn")
	defer span.End()

	if err := g.checkWritable(); err != nil {
		return err
	}

	ident, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		if g.metrics != nil {
			g.metrics.IncrementSignInFailures()
		}
		return err
	}

	g.mu.Lock()
	g.establishLocked(ident)
	g.mu.Unlock()

	g.logger.Info("session established",
		"user_id", ident.UserID.String(), "role", string(ident.Role), "via", "sign_in")
	g.emit(ctx, audit.CategorySecurity, audit.EventSessionCreated, ident, "")
	return nil
}

// SignOut ends the current session. The provider revoke is best-effort: the
// session always resets to anonymous, because a stuck authenticated-but-
// revoked state is worse than an optimistic reset. Calling SignOut while
// already anonymous is a no-op.
func (g *Gate) SignOut(ctx context.Context) {
	ctx, span := g.tracer.Start(ctx, "session.SignOut")
	defer span.End()

	g.mu.Lock()
	ident := g.current
	g.mu.Unlock()
	if ident == nil {
		return
	}

	if err := g.provider.SignOut(ctx, ident.SessionID); err != nil {
		g.logger.Debug("sign-out revoke failed, resetting session anyway", "error", err)
	}

	g.mu.Lock()
	// A sign-in that raced the revoke wins; only clear our own session.
	if g.current != nil && g.current.SessionID == ident.SessionID {
		g.current = nil
		g.profile = nil
		g.session = Session{}
		g.notifyLocked()
	}
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.IncrementSessionsRevoked()
	}
	g.emit(ctx, audit.CategorySecurity, audit.EventSessionRevoked, ident, "")
}

func (g *Gate) checkWritable() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session.Loading {
		return dErrors.New(dErrors.CodeInvariantViolation, "session is still resolving")
	}
	if g.session.Authenticated {
		return dErrors.New(dErrors.CodeInvariantViolation, "a session is already established; sign out first")
	}
	return nil
}

func (g *Gate) establishLocked(ident *identity.Identity) {
	g.current = ident
	g.profile = &Profile{FullName: ident.FullName, Role: ident.Role}
	g.session = Session{Authenticated: true}
	g.notifyLocked()
	if g.metrics != nil {
		g.metrics.IncrementSessionsCreated()
	}
}

func (g *Gate) snapshotLocked() Snapshot {
	snap := Snapshot{Session: g.session}
	if g.profile != nil {
		copied := *g.profile
		snap.Profile = &copied
	}
	return snap
}

// notifyLocked pushes the latest snapshot to every subscriber, replacing an
// unread stale one rather than blocking.
func (g *Gate) notifyLocked() {
	snap := g.snapshotLocked()
	for _, ch := range g.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (g *Gate) emit(ctx context.Context, category audit.EventCategory, action audit.AuditEvent, ident *identity.Identity, reason string) {
	if g.audit == nil {
		return
	}
	event := audit.Event{
		Category:  category,
		Timestamp: time.Now(),
		UserID:    ident.UserID,
		SessionID: ident.SessionID.String(),
		Action:    string(action),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	}
	if ua := requestcontext.UserAgent(ctx); ua != "" {
		event.Device = device.ParseUserAgent(ua)
	}
	if err := g.audit.Emit(ctx, event); err != nil {
		g.logger.Debug("audit emit failed", "action", event.Action, "error", err)
	}
}
