package events

import (
	"context"
	"errors"
	"log/slog"

	"finhabit/internal/mission/models"
	"finhabit/pkg/platform/circuit"
)

// ErrPublisherUnavailable is returned while the breaker is open and events are dropped.
var ErrPublisherUnavailable = errors.New("event publisher unavailable")

// Publisher is the port GuardedPublisher wraps.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// GuardedPublisher stops calling a failing broker for a cooldown so a broker
// outage does not add a produce timeout to every progress request.
type GuardedPublisher struct {
	inner   Publisher
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuardedPublisher wraps inner with breaker.
func NewGuardedPublisher(inner Publisher, breaker *circuit.Breaker, logger *slog.Logger) *GuardedPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedPublisher{inner: inner, breaker: breaker, logger: logger}
}

func (p *GuardedPublisher) Publish(ctx context.Context, event models.Event) error {
	if !p.breaker.Allow() {
		return ErrPublisherUnavailable
	}
	if err := p.inner.Publish(ctx, event); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.WarnContext(ctx, "event publisher circuit opened",
				"breaker", p.breaker.Name(),
				"error", err,
			)
		}
		return err
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "event publisher circuit closed", "breaker", p.breaker.Name())
	}
	return nil
}
