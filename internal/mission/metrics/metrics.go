package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the mission module.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	AssignmentsCreated   prometheus.Counter
	AllocationExhausted  prometheus.Counter
	AllocationRaceLost   prometheus.Counter
	ProgressUpdates      *prometheus.CounterVec
	AllocationDuration   prometheus.Histogram
	CatalogCacheLookups  *prometheus.CounterVec
	EventPublishFailures prometheus.Counter
}

// New registers mission metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers mission metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AssignmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "finhabit_mission_assignments_created_total",
			Help: "Total number of daily mission assignments created",
		}),
		AllocationExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "finhabit_mission_allocation_exhausted_total",
			Help: "Today lookups that found no eligible template with weekly quota left",
		}),
		AllocationRaceLost: factory.NewCounter(prometheus.CounterOpts{
			Name: "finhabit_mission_allocation_race_lost_total",
			Help: "Allocations that lost the (owner, date) insert race and re-read the winner",
		}),
		ProgressUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finhabit_mission_progress_updates_total",
			Help: "Check and uncheck requests by outcome",
		}, []string{"direction", "outcome"}),
		AllocationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "finhabit_mission_allocation_duration_seconds",
			Help:    "Duration of today lookups that had to allocate",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CatalogCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finhabit_mission_catalog_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		}, []string{"result"}),
		EventPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "finhabit_mission_event_publish_failures_total",
			Help: "Assignment lifecycle events that could not be published",
		}),
	}
}

// Progress outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeConflict = "conflict"
)

// IncrementAssignmentsCreated records a persisted allocation.
func (m *Metrics) IncrementAssignmentsCreated() {
	if m == nil {
		return
	}
	m.AssignmentsCreated.Inc()
}

// IncrementAllocationExhausted records a NoneAvailable result.
func (m *Metrics) IncrementAllocationExhausted() {
	if m == nil {
		return
	}
	m.AllocationExhausted.Inc()
}

// IncrementAllocationRaceLost records a recovered duplicate insert.
func (m *Metrics) IncrementAllocationRaceLost() {
	if m == nil {
		return
	}
	m.AllocationRaceLost.Inc()
}

// RecordProgress counts one check or uncheck by outcome.
func (m *Metrics) RecordProgress(direction, outcome string) {
	if m == nil {
		return
	}
	m.ProgressUpdates.WithLabelValues(direction, outcome).Inc()
}

// ObserveAllocation records allocation latency.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveAllocation(start time.Time) {
	if m == nil {
		return
	}
	m.AllocationDuration.Observe(time.Since(start).Seconds())
}

// RecordCatalogCacheHit counts a catalog cache hit.
func (m *Metrics) RecordCatalogCacheHit() {
	if m == nil {
		return
	}
	m.CatalogCacheLookups.WithLabelValues("hit").Inc()
}

// RecordCatalogCacheMiss counts a catalog cache miss.
func (m *Metrics) RecordCatalogCacheMiss() {
	if m == nil {
		return
	}
	m.CatalogCacheLookups.WithLabelValues("miss").Inc()
}

// IncrementEventPublishFailures records a dropped lifecycle event.
func (m *Metrics) IncrementEventPublishFailures() {
	if m == nil {
		return
	}
	m.EventPublishFailures.Inc()
}
