package audit

import (
	"context"
	"time"

	id "aduan/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance,
	// e.g. account creation against a national identity number.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// sign-ins, sign-outs, credential failures.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility, e.g. navigation fallbacks. Short retention, samplable.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	SessionID string
	Action    string
	Reason    string
	Device    string
	RequestID string
}

type AuditEvent string

const (
	EventUserRegistered     AuditEvent = "user_registered"
	EventSessionCreated     AuditEvent = "session_created"
	EventSessionRevoked     AuditEvent = "session_revoked"
	EventNavigationFallback AuditEvent = "navigation_fallback"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Sink forwards audit events to an external system (Kafka in production).
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
