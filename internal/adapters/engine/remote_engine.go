package engine

import (
	"context"
	"errors"
	"net/http"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/platform/obs"
	"route-engine-client/internal/services"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RemoteEngine executes requests against the HTTP API of a routing engine.
//
// The endpoint and profile are fixed at construction. Each call is a single
// GET with no retry. The engine is safe for concurrent use.
type RemoteEngine struct {
	session   *http.Client
	endpoint  string
	profile   domain.Profile
	userAgent string
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// NewRemoteEngine returns an engine for the API rooted at endpoint, e.g.
// "http://localhost:5000".
func NewRemoteEngine(endpoint string, profile domain.Profile, opts ...Option) (*RemoteEngine, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, &domain.EngineError{
			Backend: domain.BackendRemote,
			Kind:    domain.ErrInitialization,
			Err:     errors.New("endpoint is empty"),
		}
	}

	o := applyOptions(opts)
	session := o.httpClient
	if session == nil {
		session = &http.Client{Timeout: o.timeout}
	}

	return &RemoteEngine{
		session:   session,
		endpoint:  endpoint,
		profile:   profile,
		userAgent: o.userAgent,
		limiter:   o.limiter,
		logger:    o.logger.With().Str("backend", string(domain.BackendRemote)).Logger(),
	}, nil
}

func (r *RemoteEngine) Endpoint() string        { return r.endpoint }
func (r *RemoteEngine) Profile() domain.Profile { return r.profile }

func (r *RemoteEngine) Route(ctx context.Context, req services.RouteRequest) (_ *domain.RouteResponse, err error) {
	defer obs.Time(ctx, r.logger, "remote.Route")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return fetch[domain.RouteResponse](ctx, r, r.routeURL(req))
}

func (r *RemoteEngine) Trip(ctx context.Context, req services.TripRequest) (_ *domain.TripResponse, err error) {
	defer obs.Time(ctx, r.logger, "remote.Trip")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return fetch[domain.TripResponse](ctx, r, r.tripURL(req))
}

func (r *RemoteEngine) Match(ctx context.Context, req services.MatchRequest) (_ *domain.MatchResponse, err error) {
	defer obs.Time(ctx, r.logger, "remote.Match")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return fetch[domain.MatchResponse](ctx, r, r.matchURL(req))
}

func (r *RemoteEngine) Table(ctx context.Context, req services.TableRequest) (_ *domain.TableResponse, err error) {
	defer obs.Time(ctx, r.logger, "remote.Table")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return fetch[domain.TableResponse](ctx, r, r.tableURL(req))
}

func (r *RemoteEngine) Nearest(ctx context.Context, req services.NearestRequest) (_ *domain.NearestResponse, err error) {
	defer obs.Time(ctx, r.logger, "remote.Nearest")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return fetch[domain.NearestResponse](ctx, r, r.nearestURL(req))
}

// Close is a no-op; the engine holds no resources beyond its HTTP client.
func (r *RemoteEngine) Close() error { return nil }
