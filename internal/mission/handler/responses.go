package handler

import (
	"time"

	"finhabit/internal/mission/models"
)

// AssignmentResponse is the client view of one assignment. The version
// counter is deliberately absent.
type AssignmentResponse struct {
	AssignmentID string  `json:"assignment_id"`
	TemplateID   string  `json:"template_id"`
	Content      string  `json:"content"`
	MinLevel     int     `json:"min_level"`
	TargetCount  int     `json:"target_count"`
	DoneCount    int     `json:"done_count"`
	Progress     int     `json:"progress"`
	Completed    bool    `json:"completed"`
	CompletedAt  *string `json:"completed_at"`
	WeekStart    string  `json:"week_start"`
	AssignedDate string  `json:"assigned_date"`
}

// TodayResponse is the body of GET /api/mission/today.
type TodayResponse struct {
	Today   *AssignmentResponse   `json:"today"`
	Ongoing []*AssignmentResponse `json:"ongoing"`
}

// ArchiveWeekResponse is one week of GET /api/mission/archive.
type ArchiveWeekResponse struct {
	WeekStart   string                `json:"week_start"`
	WeekEnd     string                `json:"week_end"`
	Assignments []*AssignmentResponse `json:"assignments"`
}

// FromDetail maps an assignment detail to its response.
func FromDetail(d *models.AssignmentDetail) *AssignmentResponse {
	if d == nil {
		return nil
	}
	a, t := d.Assignment, d.Template
	resp := &AssignmentResponse{
		AssignmentID: a.ID.String(),
		TemplateID:   t.ID.String(),
		Content:      t.Content,
		MinLevel:     t.MinLevel,
		TargetCount:  t.TargetCount,
		DoneCount:    a.DoneCount,
		Progress:     a.ProgressPercent,
		Completed:    a.Completed,
		WeekStart:    formatDate(a.WeekStart),
		AssignedDate: formatDate(a.AssignedDate),
	}
	if a.CompletedAt != nil {
		completedAt := formatDate(*a.CompletedAt)
		resp.CompletedAt = &completedAt
	}
	return resp
}

// FromToday maps a today lookup to its response. Ongoing is never null.
func FromToday(t *models.Today) *TodayResponse {
	return &TodayResponse{
		Today:   FromDetail(t.Today),
		Ongoing: fromDetails(t.Ongoing),
	}
}

// FromArchive maps archive weeks to their response. The result is never null.
func FromArchive(weeks []*models.ArchiveWeek) []*ArchiveWeekResponse {
	out := make([]*ArchiveWeekResponse, len(weeks))
	for i, w := range weeks {
		out[i] = &ArchiveWeekResponse{
			WeekStart:   formatDate(w.WeekStart),
			WeekEnd:     formatDate(w.WeekEnd),
			Assignments: fromDetails(w.Assignments),
		}
	}
	return out
}

func fromDetails(details []*models.AssignmentDetail) []*AssignmentResponse {
	out := make([]*AssignmentResponse, len(details))
	for i, d := range details {
		out[i] = FromDetail(d)
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
