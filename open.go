package routeclient

import (
	"context"
	"fmt"
	"net/http"
	"route-engine-client/internal/adapters/engine"
	"route-engine-client/internal/config"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/platform/metrics"
	"route-engine-client/internal/services"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Config selects a backend; see LoadConfig.
type Config = config.Config

// LoadConfig reads an optional YAML file, then .env and environment
// overrides (ROUTING_BACKEND, OSRM_ROUTED_ADDRESS, OSRM_PROFILE,
// OSRM_TIMEOUT, OSRM_RATE_LIMIT, OSRM_MAP_FILE, OSRM_ALGORITHM, LOG_LEVEL).
func LoadConfig(path string) (Config, error) { return config.Load(path) }

func DefaultConfig() Config { return config.Default() }

func WithHTTPClient(c *http.Client) Option    { return engine.WithHTTPClient(c) }
func WithTimeout(d time.Duration) Option      { return engine.WithTimeout(d) }
func WithRateLimit(rps float64) Option        { return engine.WithRateLimit(rps) }
func WithUserAgent(ua string) Option          { return engine.WithUserAgent(ua) }
func WithLogger(logger zerolog.Logger) Option { return engine.WithLogger(logger) }

func NewMock(opts ...Option) Engine { return engine.NewMockEngine(opts...) }

func NewRemote(endpoint string, profile Profile, opts ...Option) (Engine, error) {
	e, err := engine.NewRemoteEngine(endpoint, profile, opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NewNative loads prepared map data into this process. It fails with
// ErrInitialization unless the binary was built with the osrmnative tag.
func NewNative(mapPath string, algorithm Algorithm, opts ...Option) (Engine, error) {
	e, err := engine.NewNativeEngine(mapPath, algorithm, opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Open constructs the backend cfg selects. opts are applied after the
// options derived from cfg, so they take precedence.
func Open(cfg Config, opts ...Option) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []Option{engine.WithLogger(config.NewLogger(cfg.Logging))}
	opts = append(base, opts...)

	switch cfg.Backend {
	case "mock":
		return engine.NewMockEngine(opts...), nil
	case "remote":
		profile, err := cfg.Profile()
		if err != nil {
			return nil, err
		}
		remote := []Option{engine.WithTimeout(cfg.Remote.Timeout), engine.WithRateLimit(cfg.Remote.RateLimit)}
		if cfg.Remote.UserAgent != "" {
			remote = append(remote, engine.WithUserAgent(cfg.Remote.UserAgent))
		}
		return NewRemote(cfg.Remote.Address, profile, append(remote, opts...)...)
	case "native":
		algorithm, err := cfg.Algorithm()
		if err != nil {
			return nil, err
		}
		return NewNative(cfg.Native.MapFile, algorithm, opts...)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Instrument records a span with tracer and metrics registered with reg for
// every call to e. Either may be nil. Engines instrumented against the same
// registry share its collectors.
func Instrument(e Engine, backend string, reg prometheus.Registerer, tracer trace.Tracer) (Engine, error) {
	var m *metrics.Metrics
	if reg != nil {
		var err error
		if m, err = metrics.New(reg); err != nil {
			return nil, err
		}
	}
	return engine.Instrument(e, domain.Backend(backend), m, tracer), nil
}

// SimpleRoute routes from one point to another with default options and
// returns the first route's total distance and duration.
func SimpleRoute(ctx context.Context, e Engine, from, to Coordinate) (RouteSummary, error) {
	return services.SimpleRoute(ctx, e, from, to)
}
