package models

import (
	"strings"
	"unicode/utf8"

	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
)

// MaxTemplateContentLength bounds TaskTemplate.Content, in characters.
const MaxTemplateContentLength = 50

// TaskTemplate is an immutable catalog entry.
//
// TargetCount serves two purposes: the number of check-ins that complete one
// assignment, and the number of assignments of this template allowed across
// all owners within one calendar week.
type TaskTemplate struct {
	ID          id.TemplateID `json:"id"`
	Content     string        `json:"content"`
	MinLevel    int           `json:"min_level"`
	TargetCount int           `json:"target_count"`
}

// NewTaskTemplate validates catalog invariants.
func NewTaskTemplate(templateID id.TemplateID, content string, minLevel, targetCount int) (*TaskTemplate, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "template content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxTemplateContentLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "template content must be 50 characters or less")
	}
	if minLevel < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "template min level must be at least 1")
	}
	if targetCount < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "template target count must be at least 1")
	}
	return &TaskTemplate{
		ID:          templateID,
		Content:     content,
		MinLevel:    minLevel,
		TargetCount: targetCount,
	}, nil
}

// EligibleFor reports whether an owner at level may receive this template.
func (t *TaskTemplate) EligibleFor(level int) bool {
	return t.MinLevel <= level
}

// WeeklyQuotaLeft reports whether another assignment fits in the weekly quota
// given how many already reference the template this week.
func (t *TaskTemplate) WeeklyQuotaLeft(assignedThisWeek int) bool {
	return assignedThisWeek < t.TargetCount
}
