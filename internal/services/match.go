package services

import (
	"route-engine-client/internal/domain"
	"slices"
)

// MatchRequestBuilder accumulates the options of a map-matching query over
// a GPS trace.
type MatchRequestBuilder struct {
	req MatchRequest
}

func NewMatchRequestBuilder(points ...domain.Coordinate) *MatchRequestBuilder {
	return &MatchRequestBuilder{req: MatchRequest{
		points:       slices.Clone(points),
		gaps:         domain.GapsSplit,
		queryOptions: defaultQueryOptions(),
	}}
}

func (b *MatchRequestBuilder) Points(points ...domain.Coordinate) *MatchRequestBuilder {
	b.req.points = slices.Clone(points)
	return b
}

func (b *MatchRequestBuilder) Steps(v bool) *MatchRequestBuilder {
	b.req.steps = v
	return b
}

func (b *MatchRequestBuilder) Annotations(v bool) *MatchRequestBuilder {
	b.req.annotations = v
	return b
}

func (b *MatchRequestBuilder) Geometry(g domain.GeometryType) *MatchRequestBuilder {
	b.req.geometry = g
	return b
}

func (b *MatchRequestBuilder) Overview(o domain.OverviewZoom) *MatchRequestBuilder {
	b.req.overview = o
	return b
}

// Timestamps sets one UNIX timestamp (seconds) per point.
func (b *MatchRequestBuilder) Timestamps(ts ...int64) *MatchRequestBuilder {
	b.req.timestamps = cloneOrEmpty(ts)
	return b
}

func (b *MatchRequestBuilder) Gaps(g domain.GapsBehaviour) *MatchRequestBuilder {
	b.req.gaps = g
	return b
}

// Tidy lets the engine drop redundant trace points before matching.
func (b *MatchRequestBuilder) Tidy(v bool) *MatchRequestBuilder {
	b.req.tidy = v
	return b
}

func (b *MatchRequestBuilder) Waypoints(indices ...int) *MatchRequestBuilder {
	b.req.waypoints = cloneOrEmpty(indices)
	return b
}

func (b *MatchRequestBuilder) Bearings(bearings ...domain.Bearing) *MatchRequestBuilder {
	b.req.bearings = cloneOrEmpty(bearings)
	return b
}

// Radiuses sets the per-point GPS accuracy in meters.
func (b *MatchRequestBuilder) Radiuses(radiuses ...float64) *MatchRequestBuilder {
	b.req.radiuses = cloneOrEmpty(radiuses)
	return b
}

func (b *MatchRequestBuilder) GenerateHints(v bool) *MatchRequestBuilder {
	b.req.generateHints = v
	return b
}

func (b *MatchRequestBuilder) Hints(hints ...string) *MatchRequestBuilder {
	b.req.hints = cloneOrEmpty(hints)
	return b
}

func (b *MatchRequestBuilder) Approaches(approaches ...domain.Approach) *MatchRequestBuilder {
	b.req.approaches = cloneOrEmpty(approaches)
	return b
}

func (b *MatchRequestBuilder) Exclude(exclude ...domain.Exclude) *MatchRequestBuilder {
	b.req.exclude = cloneOrEmpty(exclude)
	return b
}

func (b *MatchRequestBuilder) Snapping(s domain.Snapping) *MatchRequestBuilder {
	b.req.snapping = s
	b.req.snappingSet = true
	return b
}

func (b *MatchRequestBuilder) SkipWaypoints(v bool) *MatchRequestBuilder {
	b.req.skipWaypoints = v
	return b
}

func (b *MatchRequestBuilder) Build() (MatchRequest, error) {
	req := b.req.clone()
	if err := req.Validate(); err != nil {
		return MatchRequest{}, err
	}
	return req, nil
}

// MatchRequest is an immutable map-matching query.
type MatchRequest struct {
	points      []domain.Coordinate
	steps       bool
	annotations bool
	geometry    domain.GeometryType
	overview    domain.OverviewZoom
	timestamps  []int64
	gaps        domain.GapsBehaviour
	tidy        bool
	waypoints   []int
	pointOptions
	queryOptions
}

func (r MatchRequest) Service() domain.Service { return domain.ServiceMatch }

func (r MatchRequest) Points() []domain.Coordinate   { return slices.Clone(r.points) }
func (r MatchRequest) Steps() bool                   { return r.steps }
func (r MatchRequest) Annotations() bool             { return r.annotations }
func (r MatchRequest) Geometry() domain.GeometryType { return r.geometry }
func (r MatchRequest) Overview() domain.OverviewZoom { return r.overview }
func (r MatchRequest) Timestamps() []int64           { return slices.Clone(r.timestamps) }
func (r MatchRequest) Gaps() domain.GapsBehaviour    { return r.gaps }
func (r MatchRequest) Tidy() bool                    { return r.tidy }
func (r MatchRequest) Waypoints() []int              { return slices.Clone(r.waypoints) }

// Validate re-runs the builder checks. Timestamps are non-negative and may
// repeat but never decrease.
func (r MatchRequest) Validate() error {
	n := len(r.points)
	if err := validatePointCount(domain.ServiceMatch, n, 2); err != nil {
		return err
	}

	if r.timestamps != nil {
		if len(r.timestamps) != n {
			return dimensionMismatch(domain.ServiceMatch, domain.OptionTimestamps, len(r.timestamps), n)
		}
		for i, ts := range r.timestamps {
			if ts < 0 {
				return &domain.RequestError{
					Service: domain.ServiceMatch,
					Kind:    domain.ErrNegativeTimestamp,
					Option:  domain.OptionTimestamps,
					Index:   i,
				}
			}
		}
		for i := 1; i < len(r.timestamps); i++ {
			if r.timestamps[i] < r.timestamps[i-1] {
				return &domain.RequestError{
					Service: domain.ServiceMatch,
					Kind:    domain.ErrTimestampsNotSorted,
					Option:  domain.OptionTimestamps,
					Index:   i,
				}
			}
		}
	} else if r.gaps == domain.GapsSplit {
		return &domain.RequestError{
			Service: domain.ServiceMatch,
			Kind:    domain.ErrTimestampsRequired,
			Option:  domain.OptionTimestamps,
			Index:   -1,
		}
	}

	if err := validateWaypoints(domain.ServiceMatch, r.waypoints, n); err != nil {
		return err
	}
	if err := r.pointOptions.validate(domain.ServiceMatch, "", n); err != nil {
		return err
	}
	return validateExclude(domain.ServiceMatch, r.exclude)
}

func (r MatchRequest) clone() MatchRequest {
	r.points = slices.Clone(r.points)
	r.timestamps = slices.Clone(r.timestamps)
	r.waypoints = slices.Clone(r.waypoints)
	r.pointOptions = r.pointOptions.clone()
	r.queryOptions = r.queryOptions.clone()
	return r
}
