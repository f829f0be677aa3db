// Package metrics exposes Prometheus collectors describing validation
// outcomes.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/dpcheck/internal/diag"
)

// Outcome labels.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Registry holds all metrics for the application.
type Registry struct {
	ValidationsTotal   *prometheus.CounterVec
	DiagnosticsTotal   *prometheus.CounterVec
	EpsilonConsumed    prometheus.Histogram
	ValidationDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.ValidationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpcheck_validations_total",
			Help: "Total number of analyses validated, by outcome",
		},
		[]string{"outcome"},
	)

	r.DiagnosticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpcheck_diagnostics_total",
			Help: "Total number of diagnostics reported, by code",
		},
		[]string{"code"},
	)

	r.EpsilonConsumed = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dpcheck_epsilon_consumed",
			Help:    "Composed epsilon of analyses whose accounting completed",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	r.ValidationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dpcheck_validation_duration_seconds",
			Help:    "Time spent validating one analysis",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	return r
}

// Gatherer returns the underlying Prometheus gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordValidation records the outcome of one validation. epsilon is nil
// when accounting did not complete.
func (r *Registry) RecordValidation(accepted bool, codes []diag.Code, epsilon *float64, duration time.Duration) {
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	r.ValidationsTotal.WithLabelValues(outcome).Inc()
	for _, code := range codes {
		r.DiagnosticsTotal.WithLabelValues(string(code)).Inc()
	}
	if epsilon != nil {
		r.EpsilonConsumed.Observe(*epsilon)
	}
	r.ValidationDuration.Observe(duration.Seconds())
}

// WriteTextfile writes the current metric values in the text exposition
// format, for collection by the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
