package services

import (
	"route-engine-client/internal/domain"
	"slices"
)

// TripRequestBuilder accumulates the options of a trip query, which orders
// the points into the shortest round or one-way tour.
type TripRequestBuilder struct {
	req TripRequest
}

func NewTripRequestBuilder(points ...domain.Coordinate) *TripRequestBuilder {
	return &TripRequestBuilder{req: TripRequest{
		points:       slices.Clone(points),
		overview:     domain.OverviewFalse,
		roundtrip:    true,
		queryOptions: defaultQueryOptions(),
	}}
}

func (b *TripRequestBuilder) Points(points ...domain.Coordinate) *TripRequestBuilder {
	b.req.points = slices.Clone(points)
	return b
}

func (b *TripRequestBuilder) Steps(v bool) *TripRequestBuilder {
	b.req.steps = v
	return b
}

func (b *TripRequestBuilder) Annotations(v bool) *TripRequestBuilder {
	b.req.annotations = v
	return b
}

func (b *TripRequestBuilder) Geometry(g domain.GeometryType) *TripRequestBuilder {
	b.req.geometry = g
	return b
}

func (b *TripRequestBuilder) Overview(o domain.OverviewZoom) *TripRequestBuilder {
	b.req.overview = o
	return b
}

// Roundtrip makes the trip return to its first location.
func (b *TripRequestBuilder) Roundtrip(v bool) *TripRequestBuilder {
	b.req.roundtrip = v
	return b
}

func (b *TripRequestBuilder) Source(s domain.TripSource) *TripRequestBuilder {
	b.req.source = s
	return b
}

func (b *TripRequestBuilder) Destination(d domain.TripDestination) *TripRequestBuilder {
	b.req.destination = d
	return b
}

func (b *TripRequestBuilder) Bearings(bearings ...domain.Bearing) *TripRequestBuilder {
	b.req.bearings = cloneOrEmpty(bearings)
	return b
}

func (b *TripRequestBuilder) Radiuses(radiuses ...float64) *TripRequestBuilder {
	b.req.radiuses = cloneOrEmpty(radiuses)
	return b
}

func (b *TripRequestBuilder) GenerateHints(v bool) *TripRequestBuilder {
	b.req.generateHints = v
	return b
}

func (b *TripRequestBuilder) Hints(hints ...string) *TripRequestBuilder {
	b.req.hints = cloneOrEmpty(hints)
	return b
}

func (b *TripRequestBuilder) Approaches(approaches ...domain.Approach) *TripRequestBuilder {
	b.req.approaches = cloneOrEmpty(approaches)
	return b
}

func (b *TripRequestBuilder) Exclude(exclude ...domain.Exclude) *TripRequestBuilder {
	b.req.exclude = cloneOrEmpty(exclude)
	return b
}

func (b *TripRequestBuilder) Snapping(s domain.Snapping) *TripRequestBuilder {
	b.req.snapping = s
	b.req.snappingSet = true
	return b
}

func (b *TripRequestBuilder) SkipWaypoints(v bool) *TripRequestBuilder {
	b.req.skipWaypoints = v
	return b
}

func (b *TripRequestBuilder) Build() (TripRequest, error) {
	req := b.req.clone()
	if err := req.Validate(); err != nil {
		return TripRequest{}, err
	}
	return req, nil
}

// TripRequest is an immutable trip query.
type TripRequest struct {
	points      []domain.Coordinate
	steps       bool
	annotations bool
	geometry    domain.GeometryType
	overview    domain.OverviewZoom
	roundtrip   bool
	source      domain.TripSource
	destination domain.TripDestination
	pointOptions
	queryOptions
}

func (r TripRequest) Service() domain.Service { return domain.ServiceTrip }

func (r TripRequest) Points() []domain.Coordinate         { return slices.Clone(r.points) }
func (r TripRequest) Steps() bool                         { return r.steps }
func (r TripRequest) Annotations() bool                   { return r.annotations }
func (r TripRequest) Geometry() domain.GeometryType       { return r.geometry }
func (r TripRequest) Overview() domain.OverviewZoom       { return r.overview }
func (r TripRequest) Roundtrip() bool                     { return r.roundtrip }
func (r TripRequest) Source() domain.TripSource           { return r.source }
func (r TripRequest) Destination() domain.TripDestination { return r.destination }

// Validate re-runs the builder checks.
//
// The engine only computes one-way trips between a fixed first and last
// point, so roundtrip=false requires source=first and destination=last.
func (r TripRequest) Validate() error {
	if err := validatePointCount(domain.ServiceTrip, len(r.points), 2); err != nil {
		return err
	}
	if !r.roundtrip && (r.source != domain.TripSourceFirst || r.destination != domain.TripDestinationLast) {
		option := domain.OptionSource
		if r.source == domain.TripSourceFirst {
			option = domain.OptionDestination
		}
		return &domain.RequestError{
			Service: domain.ServiceTrip,
			Kind:    domain.ErrUnsupportedTripCombination,
			Option:  option,
			Index:   -1,
		}
	}
	if err := r.pointOptions.validate(domain.ServiceTrip, "", len(r.points)); err != nil {
		return err
	}
	return validateExclude(domain.ServiceTrip, r.exclude)
}

func (r TripRequest) clone() TripRequest {
	r.points = slices.Clone(r.points)
	r.pointOptions = r.pointOptions.clone()
	r.queryOptions = r.queryOptions.clone()
	return r
}
