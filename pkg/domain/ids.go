// Package domain holds the typed identifiers shared by every finhabit module.
//
// IDs are distinct named types over uuid.UUID so an assignment ID can never be
// passed where an owner ID is expected. Parse functions are the trust boundary:
// they reject empty, malformed and nil UUIDs with CodeInvalidInput.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "finhabit/pkg/domain-errors"
)

// UserID identifies an account owner. The mission engine only holds it as a
// weak reference; the account subsystem owns the record.
type UserID uuid.UUID

// AssignmentID identifies one daily mission assignment.
type AssignmentID uuid.UUID

// TemplateID identifies a catalog task template.
type TemplateID uuid.UUID

func (u UserID) String() string       { return uuid.UUID(u).String() }
func (a AssignmentID) String() string { return uuid.UUID(a).String() }
func (t TemplateID) String() string   { return uuid.UUID(t).String() }

func (u UserID) IsNil() bool       { return uuid.UUID(u) == uuid.Nil }
func (a AssignmentID) IsNil() bool { return uuid.UUID(a) == uuid.Nil }
func (t TemplateID) IsNil() bool   { return uuid.UUID(t) == uuid.Nil }

// MarshalText encodes IDs in canonical UUID form for JSON and event payloads.
func (u UserID) MarshalText() ([]byte, error)       { return uuid.UUID(u).MarshalText() }
func (a AssignmentID) MarshalText() ([]byte, error) { return uuid.UUID(a).MarshalText() }
func (t TemplateID) MarshalText() ([]byte, error)   { return uuid.UUID(t).MarshalText() }

// UnmarshalText accepts any form uuid.Parse accepts.
func (u *UserID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(u).UnmarshalText(b) }
func (a *AssignmentID) UnmarshalText(b []byte) error { return (*uuid.UUID)(a).UnmarshalText(b) }
func (t *TemplateID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(t).UnmarshalText(b) }

// NewAssignmentID returns a random assignment identifier.
func NewAssignmentID() AssignmentID { return AssignmentID(uuid.New()) }

// NewTemplateID returns a random template identifier.
func NewTemplateID() TemplateID { return TemplateID(uuid.New()) }

// ParseUserID parses and validates an owner identifier.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID(s, "user_id")
	return UserID(parsed), err
}

// ParseAssignmentID parses and validates an assignment identifier.
func ParseAssignmentID(s string) (AssignmentID, error) {
	parsed, err := parseUUID(s, "assignment_id")
	return AssignmentID(parsed), err
}

// ParseTemplateID parses and validates a template identifier.
func ParseTemplateID(s string) (TemplateID, error) {
	parsed, err := parseUUID(s, "template_id")
	return TemplateID(parsed), err
}

const maxIDLength = 64

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is too long")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+field)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return parsed, nil
}
