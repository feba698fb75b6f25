package services

import (
	"route-engine-client/internal/domain"
	"slices"
)

// NearestRequestBuilder accumulates the options of a nearest-segment query
// for a single point.
type NearestRequestBuilder struct {
	req NearestRequest
}

func NewNearestRequestBuilder(point domain.Coordinate) *NearestRequestBuilder {
	return &NearestRequestBuilder{req: NearestRequest{
		point:  point,
		number: 1,
		radius: domain.UnlimitedRadius,
	}}
}

func (b *NearestRequestBuilder) Point(point domain.Coordinate) *NearestRequestBuilder {
	b.req.point = point
	return b
}

// Number sets how many nearest segments to return.
func (b *NearestRequestBuilder) Number(n int) *NearestRequestBuilder {
	b.req.number = n
	return b
}

func (b *NearestRequestBuilder) Bearing(bearing domain.Bearing) *NearestRequestBuilder {
	b.req.bearing = bearing
	return b
}

func (b *NearestRequestBuilder) Radius(meters float64) *NearestRequestBuilder {
	b.req.radius = meters
	return b
}

func (b *NearestRequestBuilder) Approach(a domain.Approach) *NearestRequestBuilder {
	b.req.approach = a
	b.req.approachSet = true
	return b
}

func (b *NearestRequestBuilder) Exclude(exclude ...domain.Exclude) *NearestRequestBuilder {
	b.req.exclude = cloneOrEmpty(exclude)
	return b
}

func (b *NearestRequestBuilder) Snapping(s domain.Snapping) *NearestRequestBuilder {
	b.req.snapping = s
	b.req.snappingSet = true
	return b
}

func (b *NearestRequestBuilder) Build() (NearestRequest, error) {
	req := b.req
	req.exclude = slices.Clone(req.exclude)
	if err := req.Validate(); err != nil {
		return NearestRequest{}, err
	}
	return req, nil
}

// NearestRequest is an immutable nearest-segment query. A zero value has
// no valid result count and fails validation.
type NearestRequest struct {
	point       domain.Coordinate
	number      int
	bearing     domain.Bearing
	radius      float64
	approach    domain.Approach
	approachSet bool
	exclude     []domain.Exclude
	snapping    domain.Snapping
	snappingSet bool
}

func (r NearestRequest) Service() domain.Service { return domain.ServiceNearest }

func (r NearestRequest) Point() domain.Coordinate  { return r.point }
func (r NearestRequest) Number() int               { return r.number }
func (r NearestRequest) Bearing() domain.Bearing   { return r.bearing }
func (r NearestRequest) Exclude() []domain.Exclude { return slices.Clone(r.exclude) }

// Radius returns the snapping radius in meters, domain.UnlimitedRadius
// when unset.
func (r NearestRequest) Radius() float64 { return r.radius }

func (r NearestRequest) Approach() (domain.Approach, bool) { return r.approach, r.approachSet }
func (r NearestRequest) Snapping() (domain.Snapping, bool) { return r.snapping, r.snappingSet }

func (r NearestRequest) Validate() error {
	if r.number < 1 {
		return &domain.RequestError{
			Service: domain.ServiceNearest,
			Kind:    domain.ErrInvalidNumber,
			Option:  domain.OptionNumber,
			Index:   -1,
			Got:     r.number,
		}
	}
	if !(r.radius >= 0) {
		return &domain.RequestError{
			Service: domain.ServiceNearest,
			Kind:    domain.ErrNegativeRadius,
			Option:  domain.OptionRadiuses,
			Index:   0,
		}
	}
	return validateExclude(domain.ServiceNearest, r.exclude)
}
