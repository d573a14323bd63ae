package prometheus

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

func newTestRecorder(t *testing.T) (*Recorder, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRecorder(reg), reg
}

func TestNewRecorder_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)

	assert.Panics(t, func() { NewRecorder(reg) })
}

func TestRecorder_RequestDispatched(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.RequestDispatched(3)
	r.RequestDispatched(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.RequestsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(r.InkUnits))
}

func TestRecorder_RequestCompleted(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.RequestCompleted(domain.OutcomeParsed, 100*time.Millisecond)
	r.RequestCompleted(domain.OutcomeParsed, 200*time.Millisecond)
	r.RequestCompleted(domain.OutcomeStale, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OutcomesTotal.WithLabelValues("parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OutcomesTotal.WithLabelValues("stale")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.OutcomesTotal.WithLabelValues("failed")))
}

func TestRecorder_NodesAssigned(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.NodesAssigned(4, 1)
	r.NodesAssigned(2, 0)

	assert.Equal(t, 6.0, testutil.ToFloat64(r.NodesTotal.WithLabelValues("recognized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.NodesTotal.WithLabelValues("synthetic")))
}

func TestRecorder_Exposition(t *testing.T) {
	r, reg := newTestRecorder(t)
	r.RequestDispatched(1)

	expected := `
# HELP mathink_recognition_requests_total Recognition requests dispatched
# TYPE mathink_recognition_requests_total counter
mathink_recognition_requests_total 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "mathink_recognition_requests_total")
	require.NoError(t, err)
}
