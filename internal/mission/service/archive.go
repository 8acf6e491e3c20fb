package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
	"finhabit/pkg/platform/sentinel"
)

// GetCompletedByWeek groups the owner's completed assignments by week start,
// newest week first. Assignments inside a week are ordered by date.
func (s *Service) GetCompletedByWeek(ctx context.Context, ownerID id.UserID) ([]*models.ArchiveWeek, error) {
	var completed []*models.Assignment

	// The owner check and the listing are independent reads.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.owners.Lookup(gctx, ownerID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "user not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		return nil
	})
	g.Go(func() error {
		list, err := s.assignments.ListCompleted(gctx, ownerID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load completed missions")
		}
		completed = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details, err := s.details(ctx, completed)
	if err != nil {
		return nil, err
	}
	return groupByWeek(details), nil
}

func groupByWeek(details []*models.AssignmentDetail) []*models.ArchiveWeek {
	byWeek := make(map[time.Time]*models.ArchiveWeek)
	for _, d := range details {
		weekStart := d.Assignment.WeekStart
		if weekStart.IsZero() {
			continue
		}
		week, ok := byWeek[weekStart]
		if !ok {
			week = &models.ArchiveWeek{
				WeekStart: weekStart,
				WeekEnd:   models.WeekEnd(weekStart),
			}
			byWeek[weekStart] = week
		}
		week.Assignments = append(week.Assignments, d)
	}

	weeks := make([]*models.ArchiveWeek, 0, len(byWeek))
	for _, week := range byWeek {
		sort.SliceStable(week.Assignments, func(i, j int) bool {
			return week.Assignments[i].Assignment.AssignedDate.Before(week.Assignments[j].Assignment.AssignedDate)
		})
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.After(weeks[j].WeekStart)
	})
	return weeks
}
