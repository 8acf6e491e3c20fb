package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finhabit/internal/mission/models"
	"finhabit/pkg/platform/circuit"
)

type countingPublisher struct {
	calls int
	err   error
}

func (c *countingPublisher) Publish(context.Context, models.Event) error {
	c.calls++
	return c.err
}

func TestGuardedPublisherOpensAndRecovers(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	inner := &countingPublisher{err: errors.New("broker down")}
	var logs bytes.Buffer
	p := NewGuardedPublisher(inner,
		circuit.New("kafka",
			circuit.WithFailureThreshold(2),
			circuit.WithSuccessThreshold(1),
			circuit.WithCooldown(time.Minute),
			circuit.WithClock(func() time.Time { return now }),
		),
		slog.New(slog.NewTextHandler(&logs, nil)),
	)
	ctx := context.Background()
	event := sampleEvent(models.EventAssignmentCreated)

	assert.Error(t, p.Publish(ctx, event))
	assert.Error(t, p.Publish(ctx, event))
	assert.Contains(t, logs.String(), "circuit opened")

	err := p.Publish(ctx, event)
	assert.ErrorIs(t, err, ErrPublisherUnavailable)
	assert.Equal(t, 2, inner.calls, "open breaker skips the broker")

	now = now.Add(time.Minute)
	inner.err = nil
	require.NoError(t, p.Publish(ctx, event))
	assert.Equal(t, 3, inner.calls)
	assert.Contains(t, logs.String(), "circuit closed")

	require.NoError(t, p.Publish(ctx, event))
	assert.Equal(t, 4, inner.calls)
}
