package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finhabit/internal/mission/metrics"
	id "finhabit/pkg/domain"
)

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedDegradesToSourceWhenRedisIsDown(t *testing.T) {
	source := NewInMemory(SeedTemplates()...)
	var logs bytes.Buffer
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	cached := NewCached(source, unreachableRedis(t), time.Minute,
		WithCacheLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithCacheMetrics(m),
	)
	ctx := context.Background()

	want, err := source.ListEligible(ctx, 2)
	require.NoError(t, err)
	got, err := cached.ListEligible(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ids := []id.TemplateID{want[0].ID, want[1].ID}
	found, err := cached.FindByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	assert.Contains(t, logs.String(), "catalog cache read failed")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogCacheLookups.WithLabelValues("miss")))
}

func TestCachedFindByIDsEmpty(t *testing.T) {
	cached := NewCached(NewInMemory(), unreachableRedis(t), time.Minute)
	found, err := cached.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}
