package service

import (
	"context"
	"errors"
	"time"

	"finhabit/internal/mission/metrics"
	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
	"finhabit/pkg/platform/sentinel"
	"finhabit/pkg/requestcontext"
)

const (
	directionCheck   = "check"
	directionUncheck = "uncheck"
)

// Check records one check-in. Checking a completed assignment returns it
// unchanged without writing.
func (s *Service) Check(ctx context.Context, ownerID id.UserID, assignmentID id.AssignmentID, now time.Time) (*models.AssignmentDetail, error) {
	today := s.today(now)
	return s.updateProgress(ctx, directionCheck, ownerID, assignmentID, now, func(a *models.Assignment, target int) bool {
		return a.ApplyCheck(target, today)
	})
}

// Uncheck removes one check-in. Unchecking at zero returns the assignment
// unchanged without writing.
func (s *Service) Uncheck(ctx context.Context, ownerID id.UserID, assignmentID id.AssignmentID, now time.Time) (*models.AssignmentDetail, error) {
	return s.updateProgress(ctx, directionUncheck, ownerID, assignmentID, now, func(a *models.Assignment, target int) bool {
		return a.ApplyUncheck(target)
	})
}

// updateProgress reads, mutates and conditionally writes one assignment.
// A version mismatch surfaces as CodeConflict and is never retried here.
func (s *Service) updateProgress(
	ctx context.Context,
	direction string,
	ownerID id.UserID,
	assignmentID id.AssignmentID,
	now time.Time,
	apply func(a *models.Assignment, target int) bool,
) (*models.AssignmentDetail, error) {
	a, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "mission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mission")
	}
	if !a.IsOwnedBy(ownerID) {
		s.logger.WarnContext(ctx, "mission progress attempted by non-owner",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", ownerID,
			"assignment_id", assignmentID,
		)
		return nil, dErrors.New(dErrors.CodeForbidden, "mission belongs to another user")
	}

	detail, err := s.detail(ctx, a)
	if err != nil {
		return nil, err
	}

	wasCompleted := a.Completed
	expected := a.Version
	if !apply(a, detail.Template.TargetCount) {
		s.metrics.RecordProgress(direction, metrics.OutcomeNoop)
		return detail, nil
	}

	if err := s.assignments.UpdateIfVersion(ctx, a, expected); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.RecordProgress(direction, metrics.OutcomeConflict)
			s.logger.InfoContext(ctx, "mission progress conflict",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", ownerID,
				"assignment_id", assignmentID,
				"direction", direction,
			)
			return nil, dErrors.New(dErrors.CodeConflict, "mission was updated by another request, please retry")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "mission not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update mission")
		}
	}
	s.metrics.RecordProgress(direction, metrics.OutcomeApplied)

	switch {
	case !wasCompleted && a.Completed:
		s.publish(ctx, models.EventAssignmentCompleted, a, now)
	case wasCompleted && !a.Completed:
		s.publish(ctx, models.EventAssignmentReopened, a, now)
	}
	return detail, nil
}
