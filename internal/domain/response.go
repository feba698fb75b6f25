package domain

// Response codes returned by the engine.
const (
	CodeOk             = "Ok"
	CodeInvalidURL     = "InvalidUrl"
	CodeInvalidService = "InvalidService"
	CodeInvalidVersion = "InvalidVersion"
	CodeInvalidOptions = "InvalidOptions"
	CodeInvalidQuery   = "InvalidQuery"
	CodeInvalidValue   = "InvalidValue"
	CodeNoSegment      = "NoSegment"
	CodeTooBig         = "TooBig"
	CodeNoRoute        = "NoRoute"
	CodeNoTable        = "NoTable"
	CodeNoMatch        = "NoMatch"
	CodeNoTrips        = "NoTrips"
	CodeNotImplemented = "NotImplemented"
)

// IsEmptyCode reports whether code means the query ran but found nothing.
func IsEmptyCode(code string) bool {
	switch code {
	case CodeNoRoute, CodeNoMatch, CodeNoTrips, CodeNoSegment, CodeNoTable:
		return true
	}
	return false
}

// Status is embedded in every response.
type Status struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (s Status) status() Status { return s }

// Waypoint is an input coordinate snapped to the road network.
type Waypoint struct {
	Hint     string     `json:"hint,omitempty"`
	Location [2]float64 `json:"location"`
	Name     string     `json:"name"`
	Distance float64    `json:"distance"`
}

// Coordinate returns the snapped location.
func (w Waypoint) Coordinate() Coordinate { return CoordinateFromLonLat(w.Location) }

type Route struct {
	Distance   float64    `json:"distance"`
	Duration   float64    `json:"duration"`
	Geometry   *Geometry  `json:"geometry,omitempty"`
	Weight     float64    `json:"weight"`
	WeightName string     `json:"weight_name"`
	Legs       []RouteLeg `json:"legs"`
}

type RouteLeg struct {
	Distance   float64     `json:"distance"`
	Duration   float64     `json:"duration"`
	Weight     float64     `json:"weight"`
	Summary    string      `json:"summary"`
	Steps      []RouteStep `json:"steps"`
	Annotation *Annotation `json:"annotation,omitempty"`
}

// Annotation carries per-segment data of a leg; each slice has one entry per
// segment, Nodes one per node.
type Annotation struct {
	Distance    []float64           `json:"distance,omitempty"`
	Duration    []float64           `json:"duration,omitempty"`
	DataSources []uint32            `json:"datasources,omitempty"`
	Nodes       []uint64            `json:"nodes,omitempty"`
	Weight      []float64           `json:"weight,omitempty"`
	Speed       []float64           `json:"speed,omitempty"`
	Metadata    *AnnotationMetadata `json:"metadata,omitempty"`
}

type AnnotationMetadata struct {
	DataSourceNames []string `json:"datasource_names"`
}

type RouteStep struct {
	Distance            float64        `json:"distance"`
	Duration            float64        `json:"duration"`
	Weight              float64        `json:"weight"`
	Name                string         `json:"name"`
	Ref                 string         `json:"ref,omitempty"`
	Pronunciation       string         `json:"pronunciation,omitempty"`
	Destinations        string         `json:"destinations,omitempty"`
	Exits               string         `json:"exits,omitempty"`
	RotaryName          string         `json:"rotary_name,omitempty"`
	RotaryPronunciation string         `json:"rotary_pronunciation,omitempty"`
	Mode                string         `json:"mode"`
	Maneuver            StepManeuver   `json:"maneuver"`
	Geometry            *Geometry      `json:"geometry,omitempty"`
	DrivingSide         string         `json:"driving_side"`
	Intersections       []Intersection `json:"intersections"`
}

type StepManeuver struct {
	Location      [2]float64 `json:"location"`
	BearingBefore float64    `json:"bearing_before"`
	BearingAfter  float64    `json:"bearing_after"`
	Type          string     `json:"type"`
	Modifier      string     `json:"modifier,omitempty"`
	Exit          *int       `json:"exit,omitempty"`
}

type Intersection struct {
	Location [2]float64 `json:"location"`
	Bearings []int      `json:"bearings"`
	Classes  []string   `json:"classes,omitempty"`
	Entry    []bool     `json:"entry"`
	In       *int       `json:"in,omitempty"`
	Out      *int       `json:"out,omitempty"`
	Lanes    []Lane     `json:"lanes,omitempty"`
}

type Lane struct {
	Indications []string `json:"indications"`
	Valid       bool     `json:"valid"`
}

type RouteResponse struct {
	Status
	Routes    []Route    `json:"routes"`
	Waypoints []Waypoint `json:"waypoints,omitempty"`
}

type TripWaypoint struct {
	Waypoint
	TripsIndex    int `json:"trips_index"`
	WaypointIndex int `json:"waypoint_index"`
}

// TripResponse lists waypoints in input order; WaypointIndex gives each
// one's position within its trip.
type TripResponse struct {
	Status
	Trips     []Route        `json:"trips"`
	Waypoints []TripWaypoint `json:"waypoints,omitempty"`
}

type MatchRoute struct {
	Route
	Confidence float64 `json:"confidence"`
}

type MatchWaypoint struct {
	Waypoint
	MatchingsIndex    int `json:"matchings_index"`
	WaypointIndex     int `json:"waypoint_index"`
	AlternativesCount int `json:"alternatives_count"`
}

// MatchResponse has one tracepoint per input point; nil entries are points
// that were dropped as outliers.
type MatchResponse struct {
	Status
	Tracepoints []*MatchWaypoint `json:"tracepoints"`
	Matchings   []MatchRoute     `json:"matchings"`
}

// TableResponse matrices are indexed [source][destination]. A nil cell has
// no route. A nil matrix was not requested.
type TableResponse struct {
	Status
	Sources            []Waypoint   `json:"sources"`
	Destinations       []Waypoint   `json:"destinations"`
	Durations          [][]*float64 `json:"durations,omitempty"`
	Distances          [][]*float64 `json:"distances,omitempty"`
	FallbackSpeedCells [][2]int     `json:"fallback_speed_cells,omitempty"`
}

type NearestResponse struct {
	Status
	Waypoints []NearestWaypoint `json:"waypoints"`
}

type NearestWaypoint struct {
	Waypoint
	Nodes [2]uint64 `json:"nodes"`
}

// Response is implemented by every service response.
type Response interface {
	status() Status
}

// StatusOf returns the status block of any response.
func StatusOf(r Response) Status { return r.status() }
