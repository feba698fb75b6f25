package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "route_engine"

// Metrics counts and times engine calls.
type Metrics struct {
	// Requests counts calls by backend, service and outcome class.
	Requests *prometheus.CounterVec
	// Duration records call latency in seconds.
	Duration *prometheus.HistogramVec
}

// New registers the engine metrics with reg, or with the default registry
// when reg is nil. Collectors already registered with reg are reused, so
// several engines can report into one registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of engine calls",
		},
		[]string{"backend", "service", "class"},
	), "requests_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Engine call latency in seconds",
			// 1ms .. 10s
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"backend", "service"},
	), "request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{Requests: requests, Duration: duration}, nil
}

// Observe records one finished call.
func (m *Metrics) Observe(backend, service, class string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(backend, service, class).Inc()
	m.Duration.WithLabelValues(backend, service).Observe(seconds)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return vec, nil
}
