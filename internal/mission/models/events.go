package models

import (
	"time"

	id "finhabit/pkg/domain"
)

// EventType names an assignment lifecycle transition.
type EventType string

const (
	EventAssignmentCreated   EventType = "assignment_created"
	EventAssignmentCompleted EventType = "assignment_completed"
	EventAssignmentReopened  EventType = "assignment_reopened"
)

// Event is published after an assignment transition is persisted.
type Event struct {
	Type         EventType       `json:"type"`
	AssignmentID id.AssignmentID `json:"assignment_id"`
	OwnerID      id.UserID       `json:"owner_id"`
	TemplateID   id.TemplateID   `json:"template_id"`
	DoneCount    int             `json:"done_count"`
	Progress     int             `json:"progress"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// NewEvent snapshots a for publishing.
func NewEvent(eventType EventType, a *Assignment, at time.Time) Event {
	return Event{
		Type:         eventType,
		AssignmentID: a.ID,
		OwnerID:      a.OwnerID,
		TemplateID:   a.TemplateID,
		DoneCount:    a.DoneCount,
		Progress:     a.ProgressPercent,
		OccurredAt:   at,
	}
}
