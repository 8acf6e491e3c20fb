package models

import (
	"time"

	id "finhabit/pkg/domain"
)

// Owner is the slice of a user account the mission engine reads.
type Owner struct {
	ID    id.UserID
	Level int
}

// AssignmentDetail joins an assignment with the template it references.
type AssignmentDetail struct {
	Assignment *Assignment
	Template   *TaskTemplate
}

// Today is the result of a today lookup. Today is nil when no template was
// available for allocation.
type Today struct {
	Today   *AssignmentDetail
	Ongoing []*AssignmentDetail
}

// ArchiveWeek groups completed assignments sharing a week start.
type ArchiveWeek struct {
	WeekStart   time.Time
	WeekEnd     time.Time
	Assignments []*AssignmentDetail
}
