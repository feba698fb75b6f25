package services

import (
	"route-engine-client/internal/domain"
	"slices"
)

// RouteRequestBuilder accumulates the options of a route query. Setters do
// not validate; Build does.
type RouteRequestBuilder struct {
	req RouteRequest
}

// NewRouteRequestBuilder starts a route through points, in order.
func NewRouteRequestBuilder(points ...domain.Coordinate) *RouteRequestBuilder {
	return &RouteRequestBuilder{req: RouteRequest{
		points:           slices.Clone(points),
		queryOptions:     defaultQueryOptions(),
		continueStraight: true,
	}}
}

func (b *RouteRequestBuilder) Points(points ...domain.Coordinate) *RouteRequestBuilder {
	b.req.points = slices.Clone(points)
	return b
}

// Alternatives asks for alternative routes in addition to the fastest one.
func (b *RouteRequestBuilder) Alternatives(v bool) *RouteRequestBuilder {
	b.req.alternatives = v
	return b
}

func (b *RouteRequestBuilder) Steps(v bool) *RouteRequestBuilder {
	b.req.steps = v
	return b
}

func (b *RouteRequestBuilder) Annotations(v bool) *RouteRequestBuilder {
	b.req.annotations = v
	return b
}

func (b *RouteRequestBuilder) Geometry(g domain.GeometryType) *RouteRequestBuilder {
	b.req.geometry = g
	return b
}

func (b *RouteRequestBuilder) Overview(o domain.OverviewZoom) *RouteRequestBuilder {
	b.req.overview = o
	return b
}

// ContinueStraight forbids U-turns at intermediate points when true.
func (b *RouteRequestBuilder) ContinueStraight(v bool) *RouteRequestBuilder {
	b.req.continueStraight = v
	return b
}

// Waypoints marks which point indices are leg boundaries; the others are
// pass-through points.
func (b *RouteRequestBuilder) Waypoints(indices ...int) *RouteRequestBuilder {
	b.req.waypoints = cloneOrEmpty(indices)
	return b
}

func (b *RouteRequestBuilder) Bearings(bearings ...domain.Bearing) *RouteRequestBuilder {
	b.req.bearings = cloneOrEmpty(bearings)
	return b
}

func (b *RouteRequestBuilder) Radiuses(radiuses ...float64) *RouteRequestBuilder {
	b.req.radiuses = cloneOrEmpty(radiuses)
	return b
}

func (b *RouteRequestBuilder) GenerateHints(v bool) *RouteRequestBuilder {
	b.req.generateHints = v
	return b
}

func (b *RouteRequestBuilder) Hints(hints ...string) *RouteRequestBuilder {
	b.req.hints = cloneOrEmpty(hints)
	return b
}

func (b *RouteRequestBuilder) Approaches(approaches ...domain.Approach) *RouteRequestBuilder {
	b.req.approaches = cloneOrEmpty(approaches)
	return b
}

func (b *RouteRequestBuilder) Exclude(exclude ...domain.Exclude) *RouteRequestBuilder {
	b.req.exclude = cloneOrEmpty(exclude)
	return b
}

func (b *RouteRequestBuilder) Snapping(s domain.Snapping) *RouteRequestBuilder {
	b.req.snapping = s
	b.req.snappingSet = true
	return b
}

func (b *RouteRequestBuilder) SkipWaypoints(v bool) *RouteRequestBuilder {
	b.req.skipWaypoints = v
	return b
}

// Build validates the accumulated options and returns an independent
// request, or the first violated constraint as a *domain.RequestError.
func (b *RouteRequestBuilder) Build() (RouteRequest, error) {
	req := b.req.clone()
	if err := req.Validate(); err != nil {
		return RouteRequest{}, err
	}
	return req, nil
}

// RouteRequest is an immutable route query. Obtain one from
// RouteRequestBuilder.Build.
type RouteRequest struct {
	points           []domain.Coordinate
	alternatives     bool
	steps            bool
	annotations      bool
	geometry         domain.GeometryType
	overview         domain.OverviewZoom
	continueStraight bool
	waypoints        []int
	pointOptions
	queryOptions
}

func (r RouteRequest) Service() domain.Service { return domain.ServiceRoute }

func (r RouteRequest) Points() []domain.Coordinate   { return slices.Clone(r.points) }
func (r RouteRequest) Alternatives() bool            { return r.alternatives }
func (r RouteRequest) Steps() bool                   { return r.steps }
func (r RouteRequest) Annotations() bool             { return r.annotations }
func (r RouteRequest) Geometry() domain.GeometryType { return r.geometry }
func (r RouteRequest) Overview() domain.OverviewZoom { return r.overview }
func (r RouteRequest) ContinueStraight() bool        { return r.continueStraight }
func (r RouteRequest) Waypoints() []int              { return slices.Clone(r.waypoints) }

// Validate re-runs the builder checks. Engines call it so that a request
// which never went through Build fails the same way everywhere.
func (r RouteRequest) Validate() error {
	if err := validatePointCount(domain.ServiceRoute, len(r.points), 2); err != nil {
		return err
	}
	if err := validateWaypoints(domain.ServiceRoute, r.waypoints, len(r.points)); err != nil {
		return err
	}
	if err := r.pointOptions.validate(domain.ServiceRoute, "", len(r.points)); err != nil {
		return err
	}
	return validateExclude(domain.ServiceRoute, r.exclude)
}

func (r RouteRequest) clone() RouteRequest {
	r.points = slices.Clone(r.points)
	r.waypoints = slices.Clone(r.waypoints)
	r.pointOptions = r.pointOptions.clone()
	r.queryOptions = r.queryOptions.clone()
	return r
}
