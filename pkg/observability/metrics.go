package observability

import (
	"context"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by sequencer hooks.
type Metrics struct {
	Operations *prometheus.CounterVec
	Exhausted  *prometheus.CounterVec
	Discarded  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bloom_operations_total",
				Help: "Total number of sequencer operations by kind and route",
			},
			[]string{"op", "route"},
		),
		Exhausted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bloom_sessions_exhausted_total",
				Help: "Sessions whose producer ran out of views",
			},
			[]string{"route"},
		),
		Discarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bloom_sessions_discarded_total",
				Help: "Sessions dropped by a later Goto",
			},
			[]string{"route"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Exhausted, m.Discarded)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	op := func(ctx context.Context, e *domain.SessionEvent) {
		m.Operations.WithLabelValues(string(e.Type), e.Route).Inc()
	}
	return domain.LifecycleHooks{
		OnGoto:     op,
		OnRender:   op,
		OnAdvance:  op,
		OnRefresh:  op,
		OnDispatch: op,
		OnExhausted: func(ctx context.Context, e *domain.SessionEvent) {
			m.Exhausted.WithLabelValues(e.Route).Inc()
		},
		OnDiscard: func(ctx context.Context, e *domain.SessionEvent) {
			m.Discarded.WithLabelValues(e.Route).Inc()
		},
	}
}
