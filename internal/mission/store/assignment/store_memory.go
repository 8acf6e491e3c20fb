package assignment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when the requested assignment does not exist
// - ErrAlreadyUsed when (owner, assigned date) is already taken
// - ErrConflict when a conditional update finds a different version
//
// The mutex only emulates the atomic conditional writes a database gives for
// free. Records are copied in and out so callers never share state with the map.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[id.AssignmentID]*models.Assignment
	byOwnerDay  map[ownerDay]id.AssignmentID
}

type ownerDay struct {
	owner id.UserID
	date  time.Time
}

// NewInMemory constructs an empty in-memory assignment store.
func NewInMemory() *InMemory {
	return &InMemory{
		assignments: make(map[id.AssignmentID]*models.Assignment),
		byOwnerDay:  make(map[ownerDay]id.AssignmentID),
	}
}

func (s *InMemory) FindByOwnerAndDate(_ context.Context, ownerID id.UserID, date time.Time) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignmentID, ok := s.byOwnerDay[ownerDay{ownerID, date}]
	if !ok {
		return nil, fmt.Errorf("assignment for owner on %s: %w", date.Format(time.DateOnly), sentinel.ErrNotFound)
	}
	return clone(s.assignments[assignmentID]), nil
}

func (s *InMemory) FindByID(_ context.Context, assignmentID id.AssignmentID) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignmentID]
	if !ok {
		return nil, fmt.Errorf("assignment not found: %w", sentinel.ErrNotFound)
	}
	return clone(a), nil
}

func (s *InMemory) CountByTemplateAndWeek(_ context.Context, weekStart time.Time, templateIDs []id.TemplateID) (map[id.TemplateID]int, error) {
	wanted := make(map[id.TemplateID]struct{}, len(templateIDs))
	for _, templateID := range templateIDs {
		wanted[templateID] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.TemplateID]int, len(templateIDs))
	for _, a := range s.assignments {
		if !a.WeekStart.Equal(weekStart) {
			continue
		}
		if _, ok := wanted[a.TemplateID]; ok {
			counts[a.TemplateID]++
		}
	}
	return counts, nil
}

func (s *InMemory) Create(_ context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ownerDay{a.OwnerID, a.AssignedDate}
	if _, taken := s.byOwnerDay[key]; taken {
		return fmt.Errorf("assignment for owner on %s: %w", a.AssignedDate.Format(time.DateOnly), sentinel.ErrAlreadyUsed)
	}
	if _, taken := s.assignments[a.ID]; taken {
		return fmt.Errorf("assignment id: %w", sentinel.ErrAlreadyUsed)
	}
	a.Version = 1
	s.assignments[a.ID] = clone(a)
	s.byOwnerDay[key] = a.ID
	return nil
}

func (s *InMemory) UpdateIfVersion(_ context.Context, a *models.Assignment, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.assignments[a.ID]
	if !ok {
		return fmt.Errorf("assignment not found: %w", sentinel.ErrNotFound)
	}
	if current.Version != expected {
		return fmt.Errorf("assignment version %d, expected %d: %w", current.Version, expected, sentinel.ErrConflict)
	}
	// Identity and calendar columns are immutable after creation.
	current.DoneCount = a.DoneCount
	current.ProgressPercent = a.ProgressPercent
	current.Completed = a.Completed
	current.CompletedAt = copyTime(a.CompletedAt)
	current.Version = expected + 1
	a.Version = current.Version
	return nil
}

func (s *InMemory) ListCompleted(_ context.Context, ownerID id.UserID) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Assignment
	for _, a := range s.assignments {
		if a.OwnerID == ownerID && a.Completed && !a.WeekStart.IsZero() {
			out = append(out, clone(a))
		}
	}
	sortByDate(out)
	return out, nil
}

func (s *InMemory) ListOpenByWeek(_ context.Context, ownerID id.UserID, weekStart time.Time) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Assignment
	for _, a := range s.assignments {
		if a.OwnerID == ownerID && !a.Completed && a.WeekStart.Equal(weekStart) {
			out = append(out, clone(a))
		}
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(list []*models.Assignment) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].AssignedDate.Before(list[j].AssignedDate)
	})
}

func clone(a *models.Assignment) *models.Assignment {
	c := *a
	c.CompletedAt = copyTime(a.CompletedAt)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
