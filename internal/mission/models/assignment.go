package models

import (
	"time"

	id "finhabit/pkg/domain"
)

// Assignment is one owner's mission for one day.
//
// Invariants:
//   - at most one Assignment per (OwnerID, AssignedDate), enforced by the store
//   - 0 <= DoneCount <= target count of the referenced template
//   - Completed == (DoneCount >= target); CompletedAt != nil iff Completed
//   - WeekStart is the Monday of AssignedDate and never changes
//
// Version backs optimistic concurrency: every successful write increments it,
// and writes are conditioned on the version that was read. It is never exposed
// to clients.
type Assignment struct {
	ID              id.AssignmentID
	OwnerID         id.UserID
	TemplateID      id.TemplateID
	WeekStart       time.Time
	AssignedDate    time.Time
	DoneCount       int
	ProgressPercent int
	Completed       bool
	CompletedAt     *time.Time
	Version         int64
}

// NewAssignment builds a fresh assignment of template for owner on date.
func NewAssignment(assignmentID id.AssignmentID, ownerID id.UserID, templateID id.TemplateID, date time.Time) *Assignment {
	return &Assignment{
		ID:           assignmentID,
		OwnerID:      ownerID,
		TemplateID:   templateID,
		WeekStart:    WeekStart(date),
		AssignedDate: date,
	}
}

// ProgressPercent rounds done/target to a whole percentage, half up.
// A non-positive target yields 0.
func ProgressPercent(done, target int) int {
	if target <= 0 {
		return 0
	}
	return (done*200 + target) / (2 * target)
}

// IsOwnedBy reports whether ownerID owns the assignment.
func (a *Assignment) IsOwnedBy(ownerID id.UserID) bool {
	return a.OwnerID == ownerID
}

// ApplyCheck records one check-in against target on today. It returns false,
// leaving the assignment untouched, when the assignment is already completed.
func (a *Assignment) ApplyCheck(target int, today time.Time) bool {
	if a.Completed {
		return false
	}
	done := a.DoneCount + 1
	if done > target {
		done = target
	}
	a.setDone(done, target, today)
	return true
}

// ApplyUncheck removes one check-in. It returns false, leaving the assignment
// untouched, when nothing has been checked yet.
func (a *Assignment) ApplyUncheck(target int) bool {
	if a.DoneCount <= 0 {
		return false
	}
	a.setDone(a.DoneCount-1, target, time.Time{})
	return true
}

func (a *Assignment) setDone(done, target int, today time.Time) {
	a.DoneCount = done
	a.ProgressPercent = ProgressPercent(done, target)
	switch {
	case done >= target && !a.Completed:
		completedAt := today
		a.Completed = true
		a.CompletedAt = &completedAt
	case done < target && a.Completed:
		a.Completed = false
		a.CompletedAt = nil
	}
}
