package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics records the outcome of reconciliation sweeps.
type SweepMetrics struct {
	examined *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewSweepMetrics registers the sweep metrics on the provided registerer.
func NewSweepMetrics(reg prometheus.Registerer) *SweepMetrics {
	if reg == nil {
		return &SweepMetrics{}
	}
	examined := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_entities_examined",
		Help: "Orders/returns examined by reconciliation sweeps.",
	}, []string{"entity"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_entity_failures",
		Help: "Per-entity reconciliation failures during sweeps.",
	}, []string{"entity"})
	reg.MustRegister(examined, failures)
	return &SweepMetrics{examined: examined, failures: failures}
}

// AddExamined adds to the examined counter for the entity kind.
func (s *SweepMetrics) AddExamined(entity string, n int) {
	if s == nil || s.examined == nil || n <= 0 {
		return
	}
	s.examined.WithLabelValues(normalizeLabel(entity)).Add(float64(n))
}

// IncFailure increments the failure counter for the entity kind.
func (s *SweepMetrics) IncFailure(entity string) {
	if s == nil || s.failures == nil {
		return
	}
	s.failures.WithLabelValues(normalizeLabel(entity)).Inc()
}
