package service

import (
	"context"
	"errors"
	"time"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
	"finhabit/pkg/platform/sentinel"
	pstrings "finhabit/pkg/platform/strings"
	"finhabit/pkg/requestcontext"
)

// GetOrAssignToday returns the owner's assignment for the calendar day of now,
// allocating one from the eligible catalog on first call. It returns a nil
// detail and nil error when every eligible template has used its weekly quota.
//
// The weekly quota is a soft bound: two owners allocating concurrently may
// both observe the last free slot.
func (s *Service) GetOrAssignToday(ctx context.Context, ownerID id.UserID, now time.Time) (*models.AssignmentDetail, error) {
	today := s.today(now)

	existing, err := s.assignments.FindByOwnerAndDate(ctx, ownerID, today)
	if err == nil {
		return s.detail(ctx, existing)
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load today's mission")
	}

	start := time.Now()
	defer s.metrics.ObserveAllocation(start)

	owner, err := s.owners.Lookup(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	candidates, err := s.candidates(ctx, owner.Level, models.WeekStart(today))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.metrics.IncrementAllocationExhausted()
		s.logger.InfoContext(ctx, "no mission available today",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", ownerID,
			"level", owner.Level,
		)
		return nil, nil
	}

	chosen := candidates[s.random.IntN(len(candidates))]
	a := models.NewAssignment(id.NewAssignmentID(), ownerID, chosen.ID, today)
	if err := s.assignments.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return s.recoverLostRace(ctx, ownerID, today)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign mission")
	}

	s.metrics.IncrementAssignmentsCreated()
	s.logger.InfoContext(ctx, "mission assigned",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", ownerID,
		"assignment_id", a.ID,
		"template_id", chosen.ID,
	)
	s.publish(ctx, models.EventAssignmentCreated, a, now)
	return &models.AssignmentDetail{Assignment: a, Template: chosen}, nil
}

// candidates lists templates the owner may receive that still have weekly
// quota left.
func (s *Service) candidates(ctx context.Context, level int, weekStart time.Time) ([]*models.TaskTemplate, error) {
	eligible, err := s.catalog.ListEligible(ctx, level)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mission catalog")
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	ids := make([]id.TemplateID, len(eligible))
	for i, t := range eligible {
		ids[i] = t.ID
	}
	counts, err := s.assignments.CountByTemplateAndWeek(ctx, weekStart, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count weekly assignments")
	}

	out := make([]*models.TaskTemplate, 0, len(eligible))
	for _, t := range eligible {
		if t.WeeklyQuotaLeft(counts[t.ID]) {
			out = append(out, t)
		}
	}
	return out, nil
}

// recoverLostRace returns the row a concurrent request inserted first.
func (s *Service) recoverLostRace(ctx context.Context, ownerID id.UserID, today time.Time) (*models.AssignmentDetail, error) {
	s.metrics.IncrementAllocationRaceLost()
	winner, err := s.assignments.FindByOwnerAndDate(ctx, ownerID, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load today's mission")
	}
	s.logger.InfoContext(ctx, "mission assigned concurrently, returning existing",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", ownerID,
		"assignment_id", winner.ID,
	)
	return s.detail(ctx, winner)
}

// Today returns today's assignment together with the owner's other open
// assignments of the current week.
func (s *Service) Today(ctx context.Context, ownerID id.UserID, now time.Time) (*models.Today, error) {
	todayDetail, err := s.GetOrAssignToday(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}

	today := s.today(now)
	open, err := s.assignments.ListOpenByWeek(ctx, ownerID, models.WeekStart(today))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ongoing missions")
	}
	ongoing := open[:0]
	for _, a := range open {
		if !a.AssignedDate.Equal(today) {
			ongoing = append(ongoing, a)
		}
	}
	details, err := s.details(ctx, ongoing)
	if err != nil {
		return nil, err
	}
	return &models.Today{Today: todayDetail, Ongoing: details}, nil
}

func (s *Service) detail(ctx context.Context, a *models.Assignment) (*models.AssignmentDetail, error) {
	details, err := s.details(ctx, []*models.Assignment{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// details joins assignments with their templates in one catalog round trip.
func (s *Service) details(ctx context.Context, list []*models.Assignment) ([]*models.AssignmentDetail, error) {
	out := make([]*models.AssignmentDetail, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}
	ids := make([]id.TemplateID, len(list))
	for i, a := range list {
		ids[i] = a.TemplateID
	}
	templates, err := s.catalog.FindByIDs(ctx, pstrings.Dedupe(ids))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mission templates")
	}
	for _, a := range list {
		t, ok := templates[a.TemplateID]
		if !ok {
			return nil, dErrors.New(dErrors.CodeInternal, "mission template missing for assignment "+a.ID.String())
		}
		out = append(out, &models.AssignmentDetail{Assignment: a, Template: t})
	}
	return out, nil
}
