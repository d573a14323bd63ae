// Package prometheus records recognition metrics with the Prometheus client.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.RecognitionMetrics = (*Recorder)(nil)

const (
	metricsNamespace   = "mathink"
	recognizeSubsystem = "recognition"
)

// Recorder exposes recognition activity as Prometheus metrics.
type Recorder struct {
	// RequestsTotal counts dispatched requests.
	RequestsTotal prometheus.Counter

	// OutcomesTotal counts finished requests.
	// Labels: outcome (parsed, failed, malformed, stale, scratched)
	OutcomesTotal *prometheus.CounterVec

	// DurationSeconds measures dispatch-to-completion latency.
	// Labels: outcome
	DurationSeconds *prometheus.HistogramVec

	// InkUnits measures the effective ink size of each request.
	InkUnits prometheus.Histogram

	// NodesTotal counts assigned nodes.
	// Labels: kind (recognized, synthetic)
	NodesTotal *prometheus.CounterVec
}

// NewRecorder registers the recognition metrics with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		RequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: recognizeSubsystem,
			Name:      "requests_total",
			Help:      "Recognition requests dispatched",
		}),
		OutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: recognizeSubsystem,
			Name:      "outcomes_total",
			Help:      "Recognition requests by outcome",
		}, []string{"outcome"}),
		DurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: recognizeSubsystem,
			Name:      "duration_seconds",
			Help:      "Time from dispatch to completion",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		InkUnits: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: recognizeSubsystem,
			Name:      "ink_units",
			Help:      "Effective ink units per request",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		NodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: recognizeSubsystem,
			Name:      "nodes_total",
			Help:      "Terminal nodes assigned after a parse",
		}, []string{"kind"}),
	}
}

// RequestDispatched implements driven.RecognitionMetrics.
func (r *Recorder) RequestDispatched(units int) {
	r.RequestsTotal.Inc()
	r.InkUnits.Observe(float64(units))
}

// RequestCompleted implements driven.RecognitionMetrics.
func (r *Recorder) RequestCompleted(outcome domain.RecognitionOutcome, elapsed time.Duration) {
	r.OutcomesTotal.WithLabelValues(outcome.String()).Inc()
	r.DurationSeconds.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
}

// NodesAssigned implements driven.RecognitionMetrics.
func (r *Recorder) NodesAssigned(recognized, synthetic int) {
	r.NodesTotal.WithLabelValues("recognized").Add(float64(recognized))
	r.NodesTotal.WithLabelValues("synthetic").Add(float64(synthetic))
}
