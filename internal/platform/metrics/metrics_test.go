package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Observe("mock", "route", "none", 0.002)
	m.Observe("mock", "route", "none", 0.004)
	m.Observe("remote", "table", "empty", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("mock", "route", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("remote", "table", "empty")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestNew_RegistersUnderNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.Observe("native", "nearest", "none", 0.001)

	families, err := reg.Gather()
	assert.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"route_engine_requests_total",
		"route_engine_request_duration_seconds",
	}, names)
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)

	var second *Metrics
	require.NotPanics(t, func() { second, err = New(reg) })
	require.NoError(t, err)
	assert.Same(t, first.Requests, second.Requests)
	assert.Same(t, first.Duration, second.Duration)

	first.Observe("mock", "route", "none", 0.001)
	second.Observe("mock", "route", "none", 0.001)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.Requests.WithLabelValues("mock", "route", "none")))
}

func TestNew_IncompatibleCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of engine calls",
	}))

	_, err := New(reg)
	assert.Error(t, err)
}

func TestObserve_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("mock", "route", "none", 1) })
}
