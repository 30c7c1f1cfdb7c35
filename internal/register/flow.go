package register

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"aduan/internal/identity"
	"aduan/internal/view"
	dErrors "aduan/pkg/domain-errors"
)

// Gate is the slice of the session gate the registration flow drives.
type Gate interface {
	SignUp(ctx context.Context, reg identity.Registration) error
}

// Navigator issues fire-and-forget navigation requests.
type Navigator interface {
	Navigate(v view.View, payload any)
}

// Metrics records registration outcomes.
type Metrics interface {
	IncrementValidationFailures()
	IncrementProviderFailures()
	IncrementRegistrations()
}

// Flow owns a single registration submission lifecycle: validate locally,
// hand the normalized payload to the session gate, and on success show the
// success state before redirecting to the dashboard. A submitting flag keeps
// a second submit from racing the one in flight.
type Flow struct {
	gate          Gate
	nav           Navigator
	logger        *slog.Logger
	metrics       Metrics
	redirectDelay time.Duration
	schedule      func(d time.Duration, fn func())

	mu         sync.Mutex
	submitting bool
	succeeded  bool
}

type FlowOption func(*Flow)

func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = logger
	}
}

func WithMetrics(m Metrics) FlowOption {
	return func(f *Flow) {
		f.metrics = m
	}
}

func WithRedirectDelay(d time.Duration) FlowOption {
	return func(f *Flow) {
		f.redirectDelay = d
	}
}

// WithScheduler overrides how the redirect is deferred. Tests use it to make
// the delay synchronous.
func WithScheduler(schedule func(d time.Duration, fn func())) FlowOption {
	return func(f *Flow) {
		f.schedule = schedule
	}
}

const defaultRedirectDelay = 2 * time.Second

func NewFlow(gate Gate, nav Navigator, opts ...FlowOption) *Flow {
	f := &Flow{
		gate:          gate,
		nav:           nav,
		logger:        slog.New(slog.DiscardHandler),
		redirectDelay: defaultRedirectDelay,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit runs the validator and, if the form is clean, signs the user up.
// Validation errors carry the rule's message verbatim; provider errors are
// re-mapped to a user-facing category. The form stays editable after any
// failure: no state is mutated and the caller may re-submit.
func (f *Flow) Submit(ctx context.Context, form Form) error {
	if err := f.begin(); err != nil {
		return err
	}

	payload, err := Validate(form)
	if err != nil {
		f.finish(false)
		if f.metrics != nil {
			f.metrics.IncrementValidationFailures()
		}
		return err
	}

	if err := f.gate.SignUp(ctx, payload); err != nil {
		f.finish(false)
		if f.metrics != nil {
			f.metrics.IncrementProviderFailures()
		}
		f.logger.Debug("registration rejected by identity provider", "error", err)
		return dErrors.New(dErrors.CodeOf(err), Classify(err))
	}

	f.finish(true)
	if f.metrics != nil {
		f.metrics.IncrementRegistrations()
	}
	f.logger.Info("registration succeeded", "email", payload.Email)

	f.schedule(f.redirectDelay, func() {
		f.nav.Navigate(view.Dashboard, nil)
	})
	return nil
}

// Submitting reports whether a submission is in flight.
func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Succeeded reports whether the flow has reached its terminal success state.
func (f *Flow) Succeeded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.succeeded
}

func (f *Flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return dErrors.New(dErrors.CodeInvariantViolation, "a submission is already in progress")
	}
	if f.succeeded {
		return dErrors.New(dErrors.CodeInvariantViolation, "registration already completed")
	}
	f.submitting = true
	return nil
}

// Reset returns the flow to its editable initial state, used when the
// registration view is re-entered after a sign-out.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.succeeded = false
}

func (f *Flow) finish(succeeded bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.succeeded = succeeded
}
