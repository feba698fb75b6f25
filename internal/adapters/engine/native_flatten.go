package engine

import (
	"route-engine-client/internal/domain"
	"route-engine-client/internal/services"
)

// Option flag bits of the in-process engine, packed into one byte per call.
const (
	routeAlternatives     uint8 = 1 << 0
	routeSteps            uint8 = 1 << 1
	routeAnnotations      uint8 = 1 << 2
	routeContinueStraight uint8 = 1 << 3
	routeGenerateHints    uint8 = 1 << 4
	routeSkipWaypoints    uint8 = 1 << 5
)

// The in-process match call has no skip-waypoints bit.
const (
	matchTidy          uint8 = 1 << 0
	matchSteps         uint8 = 1 << 1
	matchAnnotations   uint8 = 1 << 2
	matchGenerateHints uint8 = 1 << 3
)

const (
	tripSteps         uint8 = 1 << 0
	tripAnnotations   uint8 = 1 << 1
	tripGenerateHints uint8 = 1 << 2
	tripSkipWaypoints uint8 = 1 << 3
	tripRoundtrip     uint8 = 1 << 4
)

// Native approach codes differ from the public enum order.
const (
	nativeApproachCurb         uint8 = 0
	nativeApproachUnrestricted uint8 = 1
	nativeApproachOpposite     uint8 = 2
)

type flatBearing struct {
	angle uint16
	rng   uint16
	set   bool
}

type flatExclude struct {
	mode  uint8
	class string
}

// flatQuery is a request reduced to plain arrays and scalars, the shape the
// in-process engine consumes. Coordinates are (lon, lat) pairs.
type flatQuery struct {
	coords     [][2]float64
	bearings   []flatBearing
	radiuses   []float64
	hints      []string
	approaches []uint8
	excludes   []flatExclude

	snapping    uint8
	snappingSet bool
	geometry    uint8
	overview    uint8
	flags       uint8

	// generateHints is passed on its own by the table call.
	generateHints bool

	timestamps []uint64
	waypoints  []uint64
	gaps       uint8

	source      uint8
	destination uint8

	sources      []uint64
	destinations []uint64
	annotations  uint8

	fallbackSpeed         float64
	fallbackSpeedSet      bool
	fallbackCoordinate    uint8
	fallbackCoordinateSet bool
	scaleFactor           float64
	scaleFactorSet        bool

	number uint32
}

func flagIf(cond bool, flag uint8) uint8 {
	if cond {
		return flag
	}
	return 0
}

func flattenRoute(req services.RouteRequest) *flatQuery {
	q := &flatQuery{
		coords:    flatCoords(req.Points()),
		geometry:  uint8(req.Geometry()),
		overview:  uint8(req.Overview()),
		waypoints: flatIndices(req.Waypoints()),
		flags: flagIf(req.Alternatives(), routeAlternatives) |
			flagIf(req.Steps(), routeSteps) |
			flagIf(req.Annotations(), routeAnnotations) |
			flagIf(req.ContinueStraight(), routeContinueStraight) |
			flagIf(req.GenerateHints(), routeGenerateHints) |
			flagIf(req.SkipWaypoints(), routeSkipWaypoints),
	}
	q.setPointOptions(req.Bearings(), req.Radiuses(), req.Hints(), req.Approaches())
	q.setQueryOptions(req.Exclude(), req.Snapping)
	return q
}

func flattenTrip(req services.TripRequest) *flatQuery {
	q := &flatQuery{
		coords:      flatCoords(req.Points()),
		geometry:    uint8(req.Geometry()),
		overview:    uint8(req.Overview()),
		source:      uint8(req.Source()),
		destination: uint8(req.Destination()),
		flags: flagIf(req.Steps(), tripSteps) |
			flagIf(req.Annotations(), tripAnnotations) |
			flagIf(req.GenerateHints(), tripGenerateHints) |
			flagIf(req.SkipWaypoints(), tripSkipWaypoints) |
			flagIf(req.Roundtrip(), tripRoundtrip),
	}
	q.setPointOptions(req.Bearings(), req.Radiuses(), req.Hints(), req.Approaches())
	q.setQueryOptions(req.Exclude(), req.Snapping)
	return q
}

func flattenMatch(req services.MatchRequest) *flatQuery {
	q := &flatQuery{
		coords:    flatCoords(req.Points()),
		geometry:  uint8(req.Geometry()),
		overview:  uint8(req.Overview()),
		gaps:      uint8(req.Gaps()),
		waypoints: flatIndices(req.Waypoints()),
		flags: flagIf(req.Tidy(), matchTidy) |
			flagIf(req.Steps(), matchSteps) |
			flagIf(req.Annotations(), matchAnnotations) |
			flagIf(req.GenerateHints(), matchGenerateHints),
	}
	if ts := req.Timestamps(); ts != nil {
		q.timestamps = make([]uint64, len(ts))
		for i, t := range ts {
			q.timestamps[i] = uint64(t)
		}
	}
	q.setPointOptions(req.Bearings(), req.Radiuses(), req.Hints(), req.Approaches())
	q.setQueryOptions(req.Exclude(), req.Snapping)
	return q
}

// flattenTable lays sources and destinations out as one coordinate list and
// addresses each side by index, like the remote protocol does.
func flattenTable(req services.TableRequest) *flatQuery {
	sources, destinations := req.Sources(), req.Destinations()
	ns, nd := len(sources), len(destinations)

	q := &flatQuery{
		coords:        flatCoords(append(sources, destinations...)),
		sources:       flatIndices(indexRange(0, ns)),
		destinations:  flatIndices(indexRange(ns, ns+nd)),
		annotations:   uint8(req.Annotations()),
		generateHints: req.GenerateHints(),
	}
	if v, ok := req.FallbackSpeed(); ok {
		q.fallbackSpeed, q.fallbackSpeedSet = v, true
	}
	if v, ok := req.FallbackCoordinate(); ok {
		q.fallbackCoordinate, q.fallbackCoordinateSet = uint8(v), true
	}
	if v, ok := req.ScaleFactor(); ok {
		q.scaleFactor, q.scaleFactorSet = v, true
	}

	q.bearings = mergeSides(flatBearings(req.SourceBearings()), flatBearings(req.DestinationBearings()), ns, nd, flatBearing{})
	q.radiuses = mergeSides(req.SourceRadiuses(), req.DestinationRadiuses(), ns, nd, domain.UnlimitedRadius)
	q.hints = mergeSides(req.SourceHints(), req.DestinationHints(), ns, nd, "")
	q.approaches = mergeSides(flatApproaches(req.SourceApproaches()), flatApproaches(req.DestinationApproaches()), ns, nd, nativeApproachUnrestricted)
	q.setQueryOptions(req.Exclude(), req.Snapping)
	return q
}

func flattenNearest(req services.NearestRequest) *flatQuery {
	q := &flatQuery{
		coords: flatCoords([]domain.Coordinate{req.Point()}),
		number: uint32(req.Number()),
	}
	if r := req.Radius(); domain.IsRadiusSet(r) {
		q.radiuses = []float64{r}
	}
	if b := req.Bearing(); b.IsSet() {
		q.bearings = flatBearings([]domain.Bearing{b})
	}
	if a, ok := req.Approach(); ok {
		q.approaches = flatApproaches([]domain.Approach{a})
	}
	q.setQueryOptions(req.Exclude(), req.Snapping)
	return q
}

func (q *flatQuery) setPointOptions(bearings []domain.Bearing, radiuses []float64, hints []string, approaches []domain.Approach) {
	q.bearings = flatBearings(bearings)
	q.radiuses = radiuses
	if q.radiuses == nil {
		q.radiuses = make([]float64, len(q.coords))
		for i := range q.radiuses {
			q.radiuses[i] = domain.UnlimitedRadius
		}
	}
	q.hints = hints
	q.approaches = flatApproaches(approaches)
}

func (q *flatQuery) setQueryOptions(exclude []domain.Exclude, snapping func() (domain.Snapping, bool)) {
	for _, e := range exclude {
		q.excludes = append(q.excludes, flatExclude{mode: uint8(e.Mode()), class: e.String()})
	}
	if s, ok := snapping(); ok {
		q.snapping, q.snappingSet = uint8(s), true
	}
}

func flatCoords(points []domain.Coordinate) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = p.LonLat()
	}
	return out
}

func flatIndices(values []int) []uint64 {
	if values == nil {
		return nil
	}
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = uint64(v)
	}
	return out
}

func flatBearings(bearings []domain.Bearing) []flatBearing {
	if bearings == nil {
		return nil
	}
	out := make([]flatBearing, len(bearings))
	for i, b := range bearings {
		out[i] = flatBearing{angle: uint16(b.Angle()), rng: uint16(b.Range()), set: b.IsSet()}
	}
	return out
}

func flatApproaches(approaches []domain.Approach) []uint8 {
	if approaches == nil {
		return nil
	}
	out := make([]uint8, len(approaches))
	for i, a := range approaches {
		out[i] = nativeApproach(a)
	}
	return out
}

func nativeApproach(a domain.Approach) uint8 {
	switch a {
	case domain.ApproachCurb:
		return nativeApproachCurb
	case domain.ApproachOpposite:
		return nativeApproachOpposite
	default:
		return nativeApproachUnrestricted
	}
}

// mergeSides is mergeSegments for typed values: a side that left an option
// unset is padded with the neutral value.
func mergeSides[T any](src, dst []T, ns, nd int, neutral T) []T {
	if src == nil && dst == nil {
		return nil
	}
	out := make([]T, 0, ns+nd)
	out = appendSide(out, src, ns, neutral)
	return appendSide(out, dst, nd, neutral)
}

func appendSide[T any](out, side []T, n int, neutral T) []T {
	if side != nil {
		return append(out, side...)
	}
	for i := 0; i < n; i++ {
		out = append(out, neutral)
	}
	return out
}
