package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementAssignmentsCreated()
		m.IncrementAllocationExhausted()
		m.IncrementAllocationRaceLost()
		m.RecordProgress("check", OutcomeApplied)
		m.ObserveAllocation(time.Now())
		m.RecordCatalogCacheHit()
		m.RecordCatalogCacheMiss()
		m.IncrementEventPublishFailures()
	})
}

func TestProgressCountersByLabel(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordProgress("check", OutcomeApplied)
	m.RecordProgress("check", OutcomeApplied)
	m.RecordProgress("uncheck", OutcomeConflict)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProgressUpdates.WithLabelValues("check", OutcomeApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProgressUpdates.WithLabelValues("uncheck", OutcomeConflict)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProgressUpdates.WithLabelValues("check", OutcomeNoop)))
}

func TestCatalogCacheCounters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.RecordCatalogCacheHit()
	m.RecordCatalogCacheMiss()
	m.RecordCatalogCacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogCacheLookups.WithLabelValues("miss")))
}
