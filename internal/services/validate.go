package services

import (
	"route-engine-client/internal/domain"
	"slices"
)

// Request is implemented by every validated service request.
type Request interface {
	Service() domain.Service
	Validate() error
}

// pointOptions holds the per-point arrays that modulate a list of points.
// A nil slice means the option is absent; otherwise it must be exactly as
// long as the points.
type pointOptions struct {
	bearings   []domain.Bearing
	radiuses   []float64
	hints      []string
	approaches []domain.Approach
}

// Bearings returns the per-point bearing constraints, or nil when unset.
// Unset entries are zero Bearings.
func (o pointOptions) Bearings() []domain.Bearing { return slices.Clone(o.bearings) }

// Radiuses returns the per-point snapping radii in meters, or nil when
// unset. domain.UnlimitedRadius marks an unset entry.
func (o pointOptions) Radiuses() []float64 { return slices.Clone(o.radiuses) }

// Hints returns the per-point hints, or nil when unset. "" marks an unset
// entry.
func (o pointOptions) Hints() []string { return slices.Clone(o.hints) }

func (o pointOptions) Approaches() []domain.Approach { return slices.Clone(o.approaches) }

func (o pointOptions) clone() pointOptions {
	return pointOptions{
		bearings:   slices.Clone(o.bearings),
		radiuses:   slices.Clone(o.radiuses),
		hints:      slices.Clone(o.hints),
		approaches: slices.Clone(o.approaches),
	}
}

func (o pointOptions) validate(service domain.Service, prefix string, n int) error {
	if o.bearings != nil && len(o.bearings) != n {
		return dimensionMismatch(service, prefix+domain.OptionBearings, len(o.bearings), n)
	}
	if o.radiuses != nil {
		if len(o.radiuses) != n {
			return dimensionMismatch(service, prefix+domain.OptionRadiuses, len(o.radiuses), n)
		}
		for i, r := range o.radiuses {
			if !(r >= 0) {
				return &domain.RequestError{
					Service: service,
					Kind:    domain.ErrNegativeRadius,
					Option:  prefix + domain.OptionRadiuses,
					Index:   i,
				}
			}
		}
	}
	if o.hints != nil && len(o.hints) != n {
		return dimensionMismatch(service, prefix+domain.OptionHints, len(o.hints), n)
	}
	if o.approaches != nil && len(o.approaches) != n {
		return dimensionMismatch(service, prefix+domain.OptionApproaches, len(o.approaches), n)
	}
	return nil
}

// queryOptions are the toggles shared by every multi-point service.
type queryOptions struct {
	exclude       []domain.Exclude
	snapping      domain.Snapping
	snappingSet   bool
	generateHints bool
	skipWaypoints bool
}

func (o queryOptions) Exclude() []domain.Exclude { return slices.Clone(o.exclude) }

// Snapping returns the snapping policy and whether it was set. When unset
// the engine default applies.
func (o queryOptions) Snapping() (domain.Snapping, bool) { return o.snapping, o.snappingSet }

func (o queryOptions) GenerateHints() bool { return o.generateHints }
func (o queryOptions) SkipWaypoints() bool { return o.skipWaypoints }

func (o queryOptions) clone() queryOptions {
	o.exclude = slices.Clone(o.exclude)
	return o
}

func defaultQueryOptions() queryOptions {
	return queryOptions{generateHints: true}
}

func validateExclude(service domain.Service, exclude []domain.Exclude) error {
	if len(exclude) == 0 {
		return nil
	}
	var mode domain.ExcludeMode
	for i, e := range exclude {
		if e == nil || (i > 0 && e.Mode() != mode) {
			return &domain.RequestError{
				Service: service,
				Kind:    domain.ErrDifferentExcludeTypes,
				Option:  domain.OptionExclude,
				Index:   i,
			}
		}
		mode = e.Mode()
	}
	return nil
}

func validatePointCount(service domain.Service, got, want int) error {
	if got < want {
		return &domain.RequestError{
			Service: service,
			Kind:    domain.ErrInsufficientPoints,
			Index:   -1,
			Got:     got,
			Want:    want,
		}
	}
	return nil
}

func validateWaypoints(service domain.Service, waypoints []int, n int) error {
	if waypoints == nil {
		return nil
	}
	if len(waypoints) == 0 {
		return &domain.RequestError{
			Service: service,
			Kind:    domain.ErrEmptyWaypoints,
			Option:  domain.OptionWaypoints,
			Index:   -1,
		}
	}
	for _, w := range waypoints {
		if w < 0 || w >= n {
			return &domain.RequestError{
				Service: service,
				Kind:    domain.ErrWaypointIndexOutOfBounds,
				Option:  domain.OptionWaypoints,
				Index:   w,
				Want:    n,
			}
		}
	}
	return nil
}

func dimensionMismatch(service domain.Service, option string, got, want int) error {
	return &domain.RequestError{
		Service: service,
		Kind:    domain.ErrDimensionMismatch,
		Option:  option,
		Index:   -1,
		Got:     got,
		Want:    want,
	}
}

// cloneOrEmpty copies values, keeping a present-but-empty option distinct
// from an absent one.
func cloneOrEmpty[T any](values []T) []T {
	return append(make([]T, 0, len(values)), values...)
}
