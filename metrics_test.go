package dynamicfields

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFilterMetrics_Singleton(t *testing.T) {
	m1 := GetFilterMetrics()
	m2 := GetFilterMetrics()

	require.NotNil(t, m1)
	assert.Same(t, m1, m2)
}

func TestFilterMetrics_RecordCompute(t *testing.T) {
	m := GetFilterMetrics()

	before := testutil.ToFloat64(m.computeTotal.WithLabelValues("root", "filtered"))
	m.RecordCompute("root", "filtered")
	after := testutil.ToFloat64(m.computeTotal.WithLabelValues("root", "filtered"))

	assert.Equal(t, before+1, after)
}

func TestFilterMetrics_RecordDiagnostic(t *testing.T) {
	m := GetFilterMetrics()

	before := testutil.ToFloat64(m.diagnosticsTotal.WithLabelValues("no_request_context"))
	m.RecordDiagnostic("no_request_context")
	after := testutil.ToFloat64(m.diagnosticsTotal.WithLabelValues("no_request_context"))

	assert.Equal(t, before+1, after)
}

func TestFilterMetrics_ObserveDuration(t *testing.T) {
	m := GetFilterMetrics()

	// Observing must not panic and must be visible through a gather.
	m.ObserveDuration("root", 50*time.Microsecond)

	registry := prometheus.NewRegistry()
	m.MustRegister(registry)

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "dynamicfields_filter_compute_duration_seconds" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFilterMetrics_Init(t *testing.T) {
	m := GetFilterMetrics()

	// Idempotent.
	m.Init()
	m.Init()

	registry := prometheus.NewRegistry()
	m.MustRegister(registry)

	count, err := testutil.GatherAndCount(registry,
		"dynamicfields_filter_compute_total",
		"dynamicfields_filter_diagnostics_total",
	)
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}
