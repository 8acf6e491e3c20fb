package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore reads task templates from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add inserts a template. It fails with ErrAlreadyUsed on a duplicate id.
func (s *PostgresStore) Add(ctx context.Context, t *models.TaskTemplate) error {
	query := `
		INSERT INTO task_templates (id, content, min_level, target_count)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, uuid.UUID(t.ID), t.Content, t.MinLevel, t.TargetCount)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("template %s: %w", t.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("add template: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListEligible(ctx context.Context, level int) ([]*models.TaskTemplate, error) {
	query := `
		SELECT id, content, min_level, target_count
		FROM task_templates
		WHERE min_level <= $1
		ORDER BY min_level, content, id::text
	`
	return s.query(ctx, "list eligible templates", query, level)
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []id.TemplateID) (map[id.TemplateID]*models.TaskTemplate, error) {
	out := make(map[id.TemplateID]*models.TaskTemplate, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, templateID := range ids {
		raw[i] = templateID.String()
	}
	query := `
		SELECT id, content, min_level, target_count
		FROM task_templates
		WHERE id = ANY($1::uuid[])
	`
	list, err := s.query(ctx, "find templates by id", query, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		out[t.ID] = t
	}
	return out, nil
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]*models.TaskTemplate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*models.TaskTemplate
	for rows.Next() {
		var (
			t          models.TaskTemplate
			templateID uuid.UUID
		)
		if err := rows.Scan(&templateID, &t.Content, &t.MinLevel, &t.TargetCount); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		t.ID = id.TemplateID(templateID)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
