package ports

import (
	"context"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/services"
)

// Contract for executing validated service requests against a routing engine.
//
// Implementations validate the request again before dispatch, so a request
// that did not come from a builder fails with the same *domain.RequestError
// on every engine. Execution failures are *domain.EngineError values.
type Engine interface {
	Route(ctx context.Context, req services.RouteRequest) (*domain.RouteResponse, error)
	Trip(ctx context.Context, req services.TripRequest) (*domain.TripResponse, error)
	Match(ctx context.Context, req services.MatchRequest) (*domain.MatchResponse, error)
	Table(ctx context.Context, req services.TableRequest) (*domain.TableResponse, error)
	Nearest(ctx context.Context, req services.NearestRequest) (*domain.NearestResponse, error)

	// Release any resources held by the engine. Safe to call more than once.
	Close() error
}
