package services

import (
	"context"
	"fmt"
	"route-engine-client/internal/domain"
)

// RouteSummary is the total distance and travel time of a route.
type RouteSummary struct {
	DistanceMeters  float64
	DurationSeconds float64
}

type router interface {
	Route(ctx context.Context, req RouteRequest) (*domain.RouteResponse, error)
}

// SimpleRoute routes from one point to another with default options and
// sums the legs of the first route returned.
func SimpleRoute(ctx context.Context, engine router, from, to domain.Coordinate) (RouteSummary, error) {
	req, err := NewRouteRequestBuilder(from, to).Build()
	if err != nil {
		return RouteSummary{}, err
	}

	resp, err := engine.Route(ctx, req)
	if err != nil {
		return RouteSummary{}, fmt.Errorf("simple route %v -> %v: %w", from, to, err)
	}

	if len(resp.Routes) == 0 {
		return RouteSummary{}, fmt.Errorf("simple route %v -> %v: %w", from, to, &domain.EngineError{
			Kind:    domain.ErrEmptyResponse,
			Message: "no route was returned between those 2 points",
		})
	}

	var out RouteSummary
	for _, leg := range resp.Routes[0].Legs {
		out.DistanceMeters += leg.Distance
		out.DurationSeconds += leg.Duration
	}
	return out, nil
}
