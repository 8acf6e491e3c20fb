package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
)

// uniqueViolation is the SQLSTATE Postgres reports for unique index conflicts.
const uniqueViolation = "23505"

// PostgresStore persists assignments in PostgreSQL.
// The (owner_id, assigned_date) unique index and the version column carry the
// concurrency guarantees; this store never locks rows itself.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed assignment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const assignmentColumns = `id, owner_id, template_id, week_start, assigned_date,
	done_count, progress, completed, completed_at, version`

func (s *PostgresStore) FindByOwnerAndDate(ctx context.Context, ownerID id.UserID, date time.Time) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE owner_id = $1 AND assigned_date = $2::date`
	a, err := scanAssignment(s.db.QueryRowContext(ctx, query, uuid.UUID(ownerID), dateParam(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment for owner on %s: %w", dateParam(date), sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find assignment by owner and date: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	a, err := scanAssignment(s.db.QueryRowContext(ctx, query, uuid.UUID(assignmentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) CountByTemplateAndWeek(ctx context.Context, weekStart time.Time, templateIDs []id.TemplateID) (map[id.TemplateID]int, error) {
	counts := make(map[id.TemplateID]int, len(templateIDs))
	if len(templateIDs) == 0 {
		return counts, nil
	}
	ids := make([]string, len(templateIDs))
	for i, templateID := range templateIDs {
		ids[i] = templateID.String()
	}
	query := `
		SELECT template_id, COUNT(*)
		FROM assignments
		WHERE week_start = $1::date AND template_id = ANY($2::uuid[])
		GROUP BY template_id
	`
	rows, err := s.db.QueryContext(ctx, query, dateParam(weekStart), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("count assignments by template: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var templateID uuid.UUID
		var count int
		if err := rows.Scan(&templateID, &count); err != nil {
			return nil, fmt.Errorf("scan template count: %w", err)
		}
		counts[id.TemplateID(templateID)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate template counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9::date, 1)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		uuid.UUID(a.OwnerID),
		uuid.UUID(a.TemplateID),
		dateParam(a.WeekStart),
		dateParam(a.AssignedDate),
		a.DoneCount,
		a.ProgressPercent,
		a.Completed,
		nullableDate(a.CompletedAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("assignment for owner on %s: %w", dateParam(a.AssignedDate), sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	a.Version = 1
	return nil
}

func (s *PostgresStore) UpdateIfVersion(ctx context.Context, a *models.Assignment, expected int64) error {
	query := `
		UPDATE assignments
		SET done_count = $3,
			progress = $4,
			completed = $5,
			completed_at = $6::date,
			version = version + 1
		WHERE id = $1 AND version = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		expected,
		a.DoneCount,
		a.ProgressPercent,
		a.Completed,
		nullableDate(a.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a vanished row from a lost race.
		if _, err := s.FindByID(ctx, a.ID); err != nil {
			return err
		}
		return fmt.Errorf("assignment version changed from %d: %w", expected, sentinel.ErrConflict)
	}
	a.Version = expected + 1
	return nil
}

func (s *PostgresStore) ListCompleted(ctx context.Context, ownerID id.UserID) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE owner_id = $1 AND completed AND week_start IS NOT NULL
		ORDER BY assigned_date`
	return s.list(ctx, "list completed assignments", query, uuid.UUID(ownerID))
}

func (s *PostgresStore) ListOpenByWeek(ctx context.Context, ownerID id.UserID, weekStart time.Time) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE owner_id = $1 AND week_start = $2::date AND NOT completed
		ORDER BY assigned_date`
	return s.list(ctx, "list open assignments", query, uuid.UUID(ownerID), dateParam(weekStart))
}

func (s *PostgresStore) list(ctx context.Context, op, query string, args ...any) ([]*models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

type assignmentRow interface {
	Scan(dest ...any) error
}

func scanAssignment(row assignmentRow) (*models.Assignment, error) {
	var (
		a                               models.Assignment
		assignmentID, owner, templateID uuid.UUID
		weekStart                       sql.NullTime
		completedAt                     sql.NullTime
	)
	if err := row.Scan(
		&assignmentID,
		&owner,
		&templateID,
		&weekStart,
		&a.AssignedDate,
		&a.DoneCount,
		&a.ProgressPercent,
		&a.Completed,
		&completedAt,
		&a.Version,
	); err != nil {
		return nil, err
	}
	a.ID = id.AssignmentID(assignmentID)
	a.OwnerID = id.UserID(owner)
	a.TemplateID = id.TemplateID(templateID)
	a.AssignedDate = toDate(a.AssignedDate)
	if weekStart.Valid {
		a.WeekStart = toDate(weekStart.Time)
	}
	if completedAt.Valid {
		t := toDate(completedAt.Time)
		a.CompletedAt = &t
	}
	return &a, nil
}

// dateParam renders a calendar date for a ::date cast, keeping the session
// time zone out of the conversion.
func dateParam(t time.Time) string {
	return t.Format(time.DateOnly)
}

func nullableDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: dateParam(*t), Valid: true}
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
