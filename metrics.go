package dynamicfields

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FilterMetrics contains Prometheus metrics for field filter operations.
type FilterMetrics struct {
	computeTotal     *prometheus.CounterVec
	computeDuration  *prometheus.HistogramVec
	diagnosticsTotal *prometheus.CounterVec
}

var (
	filterMetricsInstance *FilterMetrics
	filterMetricsOnce     sync.Once
)

// GetFilterMetrics returns the singleton filter metrics instance.
func GetFilterMetrics() *FilterMetrics {
	filterMetricsOnce.Do(func() {
		filterMetricsInstance = &FilterMetrics{
			computeTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dynamicfields",
					Subsystem: "filter",
					Name:      "compute_total",
					Help:      "Total number of field filter computations",
				},
				[]string{"position", "outcome"},
			),
			computeDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "dynamicfields",
					Subsystem: "filter",
					Name:      "compute_duration_seconds",
					Help:      "Duration of field filter computations in seconds",
					Buckets: []float64{
						.000001, .000005, .00001, .00005,
						.0001, .0005, .001, .005,
					},
				},
				[]string{"position"},
			),
			diagnosticsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dynamicfields",
					Subsystem: "filter",
					Name:      "diagnostics_total",
					Help:      "Total number of non-fatal filter diagnostics",
				},
				[]string{"code"},
			),
		}
	})
	return filterMetricsInstance
}

// MustRegister registers all filter metric collectors with the given
// Prometheus registry. promauto registers metrics with the default
// global registry; servers exposing /metrics from a custom registry
// call MustRegister to make filter metrics appear there as well.
func (m *FilterMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.computeTotal,
		m.computeDuration,
		m.diagnosticsTotal,
	)
}

// Init pre-initializes common label combinations with zero values so
// that metrics appear in /metrics output immediately after startup.
// Idempotent and safe to call multiple times.
func (m *FilterMetrics) Init() {
	positions := []string{"root", "list_root_child", "nested"}
	outcomes := []string{
		"filtered", "unfiltered", "nested_passthrough",
		"no_context", "no_params",
	}
	for _, pos := range positions {
		for _, outcome := range outcomes {
			m.computeTotal.WithLabelValues(pos, outcome)
		}
		m.computeDuration.WithLabelValues(pos)
	}
	for _, code := range []string{
		string(DiagNoRequestContext), string(DiagNoParamSource),
	} {
		m.diagnosticsTotal.WithLabelValues(code)
	}
}

// RecordCompute records a single filter computation.
func (m *FilterMetrics) RecordCompute(position, outcome string) {
	m.computeTotal.WithLabelValues(position, outcome).Inc()
}

// RecordDiagnostic records an emitted diagnostic.
func (m *FilterMetrics) RecordDiagnostic(code string) {
	m.diagnosticsTotal.WithLabelValues(code).Inc()
}

// ObserveDuration records the duration of a filter computation.
func (m *FilterMetrics) ObserveDuration(position string, d time.Duration) {
	m.computeDuration.WithLabelValues(position).Observe(d.Seconds())
}
