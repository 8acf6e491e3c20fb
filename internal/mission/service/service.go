// Package service implements daily mission allocation, progress tracking and
// the completed-mission archive.
//
// The service holds no locks over business state. Exactly-one-winner
// guarantees come from the store: a unique (owner, date) key for allocation
// and a version compare-and-swap for progress updates.
package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"finhabit/internal/mission/metrics"
	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
)

// AssignmentStore persists assignments. Implementations must return
// sentinel.ErrNotFound, sentinel.ErrAlreadyUsed for a duplicate (owner, date)
// and sentinel.ErrConflict for a version mismatch.
type AssignmentStore interface {
	FindByOwnerAndDate(ctx context.Context, ownerID id.UserID, date time.Time) (*models.Assignment, error)
	FindByID(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error)
	CountByTemplateAndWeek(ctx context.Context, weekStart time.Time, templateIDs []id.TemplateID) (map[id.TemplateID]int, error)
	Create(ctx context.Context, a *models.Assignment) error
	UpdateIfVersion(ctx context.Context, a *models.Assignment, expected int64) error
	ListCompleted(ctx context.Context, ownerID id.UserID) ([]*models.Assignment, error)
	ListOpenByWeek(ctx context.Context, ownerID id.UserID, weekStart time.Time) ([]*models.Assignment, error)
}

// Catalog reads task templates.
type Catalog interface {
	ListEligible(ctx context.Context, level int) ([]*models.TaskTemplate, error)
	FindByIDs(ctx context.Context, ids []id.TemplateID) (map[id.TemplateID]*models.TaskTemplate, error)
}

// OwnerDirectory resolves an owner's level. Returns sentinel.ErrNotFound for
// unknown owners.
type OwnerDirectory interface {
	Lookup(ctx context.Context, ownerID id.UserID) (*models.Owner, error)
}

// EventPublisher receives lifecycle events after a write commits.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// RandomSource picks the template index. *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// Service orchestrates the mission engine.
type Service struct {
	assignments AssignmentStore
	catalog     Catalog
	owners      OwnerDirectory
	logger      *slog.Logger
	metrics     *metrics.Metrics
	publisher   EventPublisher
	random      RandomSource
	location    *time.Location
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics records allocation and progress outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPublisher sends lifecycle events to publisher. Publishing is best
// effort: failures are logged and counted, never returned.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithRandom replaces the template picker, typically with a seeded source.
// The source is shared by concurrent requests, so it must be safe for
// concurrent use; a bare *rand.Rand is only suitable for sequential tests.
func WithRandom(random RandomSource) Option {
	return func(s *Service) {
		s.random = random
	}
}

// WithLocation sets the time zone that decides which calendar day "now" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

// New constructs a Service.
func New(assignments AssignmentStore, catalog Catalog, owners OwnerDirectory, opts ...Option) *Service {
	s := &Service{
		assignments: assignments,
		catalog:     catalog,
		owners:      owners,
		logger:      slog.Default(),
		random:      globalRandom{},
		location:    time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today converts an instant to the service's calendar date.
func (s *Service) today(now time.Time) time.Time {
	return models.DateOf(now, s.location)
}

func (s *Service) publish(ctx context.Context, eventType models.EventType, a *models.Assignment, now time.Time) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, models.NewEvent(eventType, a, now)); err != nil {
		s.metrics.IncrementEventPublishFailures()
		s.logger.WarnContext(ctx, "failed to publish mission event",
			"type", eventType,
			"assignment_id", a.ID,
			"user_id", a.OwnerID,
			"error", err,
		)
	}
}
