package engine

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single remote request.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent with every remote request.
	DefaultUserAgent = "route-engine-client/1.0"
)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	userAgent  string
	logger     zerolog.Logger
}

func defaultOptions() options {
	return options{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    zerolog.Nop(),
	}
}

// Option configures an engine. Options that do not apply to an engine are
// ignored by it.
type Option func(*options)

// WithHTTPClient sets the client used by the remote engine. Its Timeout
// takes precedence over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRateLimit caps remote requests per second. Zero or negative disables
// limiting.
func WithRateLimit(rps float64) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithLogger sets the logger for operation timing. Engines log nothing by
// default.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
