package events

import (
	"context"
	"log/slog"

	"finhabit/internal/mission/models"
)

// LogPublisher writes events to the structured log. It is the default when
// no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event models.Event) error {
	p.logger.InfoContext(ctx, "mission event",
		"type", event.Type,
		"assignment_id", event.AssignmentID,
		"user_id", event.OwnerID,
		"done_count", event.DoneCount,
		"progress", event.Progress,
	)
	return nil
}
