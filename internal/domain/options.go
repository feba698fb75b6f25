package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Service names the engine service a request targets. The value doubles as
// the URL path segment of the remote protocol.
type Service string

const (
	ServiceRoute   Service = "route"
	ServiceTrip    Service = "trip"
	ServiceMatch   Service = "match"
	ServiceTable   Service = "table"
	ServiceNearest Service = "nearest"
)

// UnlimitedRadius marks a per-point radius as unset.
var UnlimitedRadius = math.Inf(1)

// IsRadiusSet reports whether r constrains snapping.
func IsRadiusSet(r float64) bool { return !math.IsInf(r, 1) }

// Bearing restricts snapping to segments heading within
// [angle-range, angle+range]. The zero value means any direction.
type Bearing struct {
	angle uint16
	rng   uint16
	set   bool
}

func NewBearing(angle, rng int) (Bearing, error) {
	if angle < 0 || angle > 360 {
		return Bearing{}, &ValueError{
			Kind:   ErrInvalidBearing,
			Detail: fmt.Sprintf("angle %d must be within [0, 360]", angle),
		}
	}
	if rng < 0 || rng > 180 {
		return Bearing{}, &ValueError{
			Kind:   ErrInvalidBearing,
			Detail: fmt.Sprintf("range %d must be within [0, 180]", rng),
		}
	}
	return Bearing{angle: uint16(angle), rng: uint16(rng), set: true}, nil
}

// MustBearing is NewBearing for literal values; it panics on invalid input.
func MustBearing(angle, rng int) Bearing {
	b, err := NewBearing(angle, rng)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Bearing) Angle() int  { return int(b.angle) }
func (b Bearing) Range() int  { return int(b.rng) }
func (b Bearing) IsSet() bool { return b.set }

// String returns the wire form "angle,range", or "" for an unset bearing.
func (b Bearing) String() string {
	if !b.set {
		return ""
	}
	return strconv.Itoa(int(b.angle)) + "," + strconv.Itoa(int(b.rng))
}

// Approach restricts from which side of the road a point may be reached.
type Approach uint8

const (
	ApproachUnrestricted Approach = iota
	ApproachCurb
	ApproachOpposite
)

func (a Approach) String() string {
	switch a {
	case ApproachCurb:
		return "curb"
	case ApproachOpposite:
		return "opposite"
	default:
		return "unrestricted"
	}
}

// ExcludeMode is the transport profile an exclusion belongs to.
type ExcludeMode uint8

const (
	ExcludeModeCar ExcludeMode = iota + 1
	ExcludeModeBicycle
)

func (m ExcludeMode) String() string {
	switch m {
	case ExcludeModeCar:
		return "car"
	case ExcludeModeBicycle:
		return "bicycle"
	default:
		return "unknown"
	}
}

// Exclude is a road class to avoid. It is a closed set: CarExclude and
// BicycleExclude are the only implementations.
type Exclude interface {
	Mode() ExcludeMode
	String() string
	isExclude()
}

type CarExclude uint8

const (
	CarToll CarExclude = iota
	CarMotorway
	CarFerry
)

func (CarExclude) Mode() ExcludeMode { return ExcludeModeCar }
func (CarExclude) isExclude()        {}

func (e CarExclude) String() string {
	switch e {
	case CarToll:
		return "toll"
	case CarMotorway:
		return "motorway"
	default:
		return "ferry"
	}
}

type BicycleExclude uint8

const (
	BicycleFerry BicycleExclude = iota
)

func (BicycleExclude) Mode() ExcludeMode { return ExcludeModeBicycle }
func (BicycleExclude) isExclude()        {}
func (BicycleExclude) String() string    { return "ferry" }

// Snapping selects which segments a coordinate may snap to.
type Snapping uint8

const (
	// Only segments accessible from the rest of the network.
	SnappingDefault Snapping = iota
	// Any segment.
	SnappingAny
)

func (s Snapping) String() string {
	if s == SnappingAny {
		return "any"
	}
	return "default"
}

type GeometryType uint8

const (
	GeometryPolyline GeometryType = iota
	GeometryPolyline6
	GeometryGeoJSON
)

func (g GeometryType) String() string {
	switch g {
	case GeometryPolyline6:
		return "polyline6"
	case GeometryGeoJSON:
		return "geojson"
	default:
		return "polyline"
	}
}

// OverviewZoom is the detail level of the overview geometry. OverviewFalse
// suppresses it.
type OverviewZoom uint8

const (
	OverviewSimplified OverviewZoom = iota
	OverviewFull
	OverviewFalse
)

func (o OverviewZoom) String() string {
	switch o {
	case OverviewFull:
		return "full"
	case OverviewFalse:
		return "false"
	default:
		return "simplified"
	}
}

// GapsBehaviour decides how a match request treats large time gaps.
type GapsBehaviour uint8

const (
	GapsSplit GapsBehaviour = iota
	GapsIgnore
)

func (g GapsBehaviour) String() string {
	if g == GapsIgnore {
		return "ignore"
	}
	return "split"
}

// TableAnnotation selects which matrices a table request returns.
type TableAnnotation uint8

const (
	TableAnnotationNone     TableAnnotation = 0
	TableAnnotationDuration TableAnnotation = 1 << 0
	TableAnnotationDistance TableAnnotation = 1 << 1
	TableAnnotationAll                      = TableAnnotationDuration | TableAnnotationDistance
)

func (a TableAnnotation) HasDuration() bool { return a&TableAnnotationDuration != 0 }
func (a TableAnnotation) HasDistance() bool { return a&TableAnnotationDistance != 0 }

func (a TableAnnotation) String() string {
	switch a {
	case TableAnnotationDuration:
		return "duration"
	case TableAnnotationDistance:
		return "distance"
	case TableAnnotationAll:
		return "duration,distance"
	default:
		return "none"
	}
}

// FallbackCoordinate picks which location the straight-line fallback of a
// table request is measured from.
type FallbackCoordinate uint8

const (
	FallbackInput FallbackCoordinate = iota
	FallbackSnapped
)

func (f FallbackCoordinate) String() string {
	if f == FallbackSnapped {
		return "snapped"
	}
	return "input"
}

type TripSource uint8

const (
	TripSourceAny TripSource = iota
	TripSourceFirst
)

func (s TripSource) String() string {
	if s == TripSourceFirst {
		return "first"
	}
	return "any"
}

type TripDestination uint8

const (
	TripDestinationAny TripDestination = iota
	TripDestinationLast
)

func (d TripDestination) String() string {
	if d == TripDestinationLast {
		return "last"
	}
	return "any"
}

// Profile is the transport profile segment of a remote request path.
type Profile uint8

const (
	ProfileCar Profile = iota
	ProfileBike
	ProfileFoot
)

func (p Profile) String() string {
	switch p {
	case ProfileBike:
		return "bike"
	case ProfileFoot:
		return "foot"
	default:
		return "car"
	}
}

// ParseProfile accepts the names returned by Profile.String.
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "car":
		return ProfileCar, nil
	case "bike":
		return ProfileBike, nil
	case "foot":
		return ProfileFoot, nil
	}
	return 0, fmt.Errorf("unknown profile %q", s)
}

// Algorithm selects the speed-up technique of an in-process engine.
type Algorithm uint8

const (
	// Multi-level Dijkstra.
	AlgorithmMLD Algorithm = iota
	// Contraction hierarchies.
	AlgorithmCH
)

func (a Algorithm) String() string {
	if a == AlgorithmCH {
		return "CH"
	}
	return "MLD"
}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "MLD", "mld":
		return AlgorithmMLD, nil
	case "CH", "ch":
		return AlgorithmCH, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q", s)
}
