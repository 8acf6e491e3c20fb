package models

import (
	"strings"
	"time"

	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
)

// MinLevel is the level every new account starts at.
const MinLevel = 1

// User is the account record the mission engine reads its level from.
// Account CRUD lives outside this module; only creation for seeding and tests
// is provided here.
type User struct {
	ID        id.UserID
	Nickname  string
	Level     int
	CreatedAt time.Time
}

// NewUser validates a new account.
func NewUser(userID id.UserID, nickname string, level int, now time.Time) (*User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id is required")
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "nickname is required")
	}
	if level < MinLevel {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "level must be at least 1")
	}
	return &User{
		ID:        userID,
		Nickname:  nickname,
		Level:     level,
		CreatedAt: now,
	}, nil
}
