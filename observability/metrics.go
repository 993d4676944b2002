package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrecompileMetrics tracks selector dispatch activity on the token ledger
// precompile surface.
type PrecompileMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// StateMetrics tracks commits of the staged ledger state.
type StateMetrics struct {
	commits  prometheus.Counter
	modified *prometheus.CounterVec
}

var (
	precompileOnce     sync.Once
	precompileRegistry *PrecompileMetrics

	stateOnce     sync.Once
	stateRegistry *StateMetrics
)

// Precompile returns the lazily-initialised dispatch metrics registry.
func Precompile() *PrecompileMetrics {
	precompileOnce.Do(func() {
		precompileRegistry = &PrecompileMetrics{
			calls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "tokennet",
				Subsystem: "precompile",
				Name:      "calls_total",
				Help:      "Total precompile dispatches segmented by selector and outcome status.",
			}, []string{"selector", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "tokennet",
				Subsystem: "precompile",
				Name:      "call_duration_seconds",
				Help:      "Latency distribution for precompile dispatches.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"selector"}),
		}
		prometheus.MustRegister(
			precompileRegistry.calls,
			precompileRegistry.latency,
		)
	})
	return precompileRegistry
}

// Observe records one dispatch outcome.
func (m *PrecompileMetrics) Observe(selector, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(selector, outcome).Inc()
	m.latency.WithLabelValues(selector).Observe(elapsed.Seconds())
}

// State returns the lazily-initialised staged-state metrics registry.
func State() *StateMetrics {
	stateOnce.Do(func() {
		stateRegistry = &StateMetrics{
			commits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "tokennet",
				Subsystem: "state",
				Name:      "commits_total",
				Help:      "Count of staged-state commits flushed to the backing store.",
			}),
			modified: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "tokennet",
				Subsystem: "state",
				Name:      "modified_entities_total",
				Help:      "Entities written per commit segmented by entity family.",
			}, []string{"family"}),
		}
		prometheus.MustRegister(
			stateRegistry.commits,
			stateRegistry.modified,
		)
	})
	return stateRegistry
}

// RecordCommit notes one commit and the per-family write counts it carried.
func (m *StateMetrics) RecordCommit(modified map[string]int) {
	if m == nil {
		return
	}
	m.commits.Inc()
	for family, count := range modified {
		m.modified.WithLabelValues(family).Add(float64(count))
	}
}
