package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "aduan/pkg/domain"
	audit "aduan/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL using an outbox table. Events
// are written here first; the sink relays them onward.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// payload is the JSON structure persisted per event. Field names match
// audit.Event so consumers can decode without a separate schema.
type payload struct {
	ID        string `json:"ID"`
	Category  string `json:"Category"`
	Timestamp string `json:"Timestamp"`
	UserID    string `json:"UserID,omitempty"`
	SessionID string `json:"SessionID,omitempty"`
	Action    string `json:"Action"`
	Reason    string `json:"Reason,omitempty"`
	Device    string `json:"Device,omitempty"`
	RequestID string `json:"RequestID,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	body, err := marshal(event)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO audit_outbox (id, user_id, action, category, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.New(), nullableUser(event.UserID), event.Action, string(event.Category), body, event.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// AppendBatch inserts many events in one round trip via unnest.
func (s *Store) AppendBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(events))
	users := make([]sql.NullString, len(events))
	actions := make([]string, len(events))
	categories := make([]string, len(events))
	payloads := make([][]byte, len(events))
	createdAt := make([]time.Time, len(events))
	for i, event := range events {
		body, err := marshal(event)
		if err != nil {
			return err
		}
		ids[i] = uuid.New()
		users[i] = nullableUser(event.UserID)
		actions[i] = event.Action
		categories[i] = string(event.Category)
		payloads[i] = body
		createdAt[i] = event.Timestamp
	}
	query := `
		INSERT INTO audit_outbox (id, user_id, action, category, payload, created_at)
		SELECT * FROM unnest($1::uuid[], $2::text[], $3::text[], $4::text[], $5::jsonb[], $6::timestamptz[])
	`
	_, err := s.db.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(users), pq.Array(actions),
		pq.Array(categories), pq.Array(payloads), pq.Array(createdAt))
	if err != nil {
		return fmt.Errorf("append audit batch: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	query := `
		SELECT payload FROM audit_outbox
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event, err := unmarshal(body)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func marshal(event audit.Event) ([]byte, error) {
	p := payload{
		ID:        uuid.NewString(),
		Category:  string(event.Category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:    event.Action,
		Reason:    event.Reason,
		Device:    event.Device,
		RequestID: event.RequestID,
		SessionID: event.SessionID,
	}
	if !event.UserID.IsNil() {
		p.UserID = event.UserID.String()
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return body, nil
}

func unmarshal(body []byte) (audit.Event, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return audit.Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	event := audit.Event{
		Category:  audit.EventCategory(p.Category),
		Action:    p.Action,
		Reason:    p.Reason,
		Device:    p.Device,
		RequestID: p.RequestID,
		SessionID: p.SessionID,
	}
	if p.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
			event.Timestamp = ts
		}
	}
	if p.UserID != "" {
		if userID, err := id.ParseUserID(p.UserID); err == nil {
			event.UserID = userID
		}
	}
	return event, nil
}

func nullableUser(userID id.UserID) sql.NullString {
	if userID.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: userID.String(), Valid: true}
}
