package domain

import (
	"github.com/google/uuid"

	dErrors "aduan/pkg/domain-errors"
)

// Typed IDs prevent cross-entity mixups at compile time. Parse functions sit
// at trust boundaries and reject empty, malformed, and nil UUIDs.

type UserID uuid.UUID

type SessionID uuid.UUID

type ComplaintID uuid.UUID

func (u UserID) String() string      { return uuid.UUID(u).String() }
func (s SessionID) String() string   { return uuid.UUID(s).String() }
func (c ComplaintID) String() string { return uuid.UUID(c).String() }

func (u UserID) IsNil() bool      { return uuid.UUID(u) == uuid.Nil }
func (s SessionID) IsNil() bool   { return uuid.UUID(s) == uuid.Nil }
func (c ComplaintID) IsNil() bool { return uuid.UUID(c) == uuid.Nil }

// Text marshaling keeps the IDs readable in JSON payloads and log output.

func (u UserID) MarshalText() ([]byte, error)      { return uuid.UUID(u).MarshalText() }
func (s SessionID) MarshalText() ([]byte, error)   { return uuid.UUID(s).MarshalText() }
func (c ComplaintID) MarshalText() ([]byte, error) { return uuid.UUID(c).MarshalText() }

func (u *UserID) UnmarshalText(data []byte) error      { return (*uuid.UUID)(u).UnmarshalText(data) }
func (s *SessionID) UnmarshalText(data []byte) error   { return (*uuid.UUID)(s).UnmarshalText(data) }
func (c *ComplaintID) UnmarshalText(data []byte) error { return (*uuid.UUID)(c).UnmarshalText(data) }

func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user id")
	return UserID(parsed), err
}

func ParseSessionID(raw string) (SessionID, error) {
	parsed, err := parseUUID(raw, "session id")
	return SessionID(parsed), err
}

func ParseComplaintID(raw string) (ComplaintID, error) {
	parsed, err := parseUUID(raw, "complaint id")
	return ComplaintID(parsed), err
}

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return parsed, nil
}
