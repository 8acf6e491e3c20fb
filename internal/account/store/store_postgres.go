package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"finhabit/internal/account/models"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
)

// PostgresStore reads accounts from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts a user or updates its nickname and level.
func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, nickname, level, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			nickname = EXCLUDED.nickname,
			level = EXCLUDED.level
	`
	_, err := s.db.ExecContext(ctx, query, uuid.UUID(user.ID), user.Nickname, user.Level, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	var (
		user models.User
		raw  uuid.UUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nickname, level, created_at FROM users WHERE id = $1`,
		uuid.UUID(userID),
	).Scan(&raw, &user.Nickname, &user.Level, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	user.ID = id.UserID(raw)
	return &user, nil
}
