package observability

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// unknownLabel replaces unrecognized action types to keep label cardinality bounded.
const unknownLabel = "unknown"

// Metrics exports store activity to Prometheus.
type Metrics struct {
	Dispatches *prometheus.CounterVec
	Unchanged  prometheus.Counter
	Count      prometheus.Gauge

	mu      sync.Mutex
	lastSeq uint64
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_dispatch_total",
				Help: "Total number of dispatched actions",
			},
			[]string{"action"},
		),
		Unchanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_identity_transitions_total",
			Help: "Dispatches that left the state unchanged",
		}),
		Count: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tally_count",
			Help: "Current value of the counter",
		}),
	}

	for _, c := range []prometheus.Collector{m.Dispatches, m.Unchanged, m.Count} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Seed sets the gauge to the state the store starts with.
func (m *Metrics) Seed(state domain.State) {
	m.Count.Set(float64(state.Count))
}

// setCount moves the gauge only forward in commit order.
func (m *Metrics) setCount(e *domain.DispatchEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Seq != 0 && e.Seq < m.lastSeq {
		return
	}
	m.lastSeq = e.Seq
	m.Count.Set(float64(e.Next.Count))
}

// Hooks returns the lifecycle hooks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			label := unknownLabel
			if e.Action.IsKnown() {
				label = string(e.Action.Type)
			}
			m.Dispatches.WithLabelValues(label).Inc()
			if !e.Changed() {
				m.Unchanged.Inc()
			}
			m.setCount(e)
		},
	}
}
