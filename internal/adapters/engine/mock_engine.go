package engine

import (
	"context"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/platform/obs"
	"route-engine-client/internal/services"

	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rs/zerolog"
)

const (
	// MockSpeed is the constant travel speed (m/s) of the mock engine.
	MockSpeed = 13.9
	// MockRoadName is the name given to every mock waypoint and step.
	MockRoadName = "Mock road"

	mockHintPrecision  = 12
	mockDataSourceName = "mock"
)

// MockEngine fabricates structurally valid responses without a routing
// engine. Distances are great-circle meters between consecutive points,
// durations assume MockSpeed, trips visit nearest-first, and hints are
// geohashes of the input points.
// Field presence follows the request options exactly as a real engine's
// would.
type MockEngine struct {
	logger zerolog.Logger
}

func NewMockEngine(opts ...Option) *MockEngine {
	o := applyOptions(opts)
	return &MockEngine{logger: o.logger.With().Str("backend", string(domain.BackendMock)).Logger()}
}

// pathOptions are the geometry-related options shared by route-like
// services.
type pathOptions struct {
	steps         bool
	annotations   bool
	geometry      domain.GeometryType
	overview      domain.OverviewZoom
	generateHints bool
}

func (m *MockEngine) Route(ctx context.Context, req services.RouteRequest) (_ *domain.RouteResponse, err error) {
	defer obs.Time(ctx, m.logger, "mock.Route")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	points := req.Points()
	opts := pathOptions{
		steps:         req.Steps(),
		annotations:   req.Annotations(),
		geometry:      req.Geometry(),
		overview:      req.Overview(),
		generateHints: req.GenerateHints(),
	}

	bounds, err := legBounds(len(points), req.Waypoints())
	if err != nil {
		return nil, err
	}
	resp := &domain.RouteResponse{
		Status: domain.Status{Code: domain.CodeOk},
		Routes: []domain.Route{mockRoute(points, bounds, opts)},
	}
	if !req.SkipWaypoints() {
		resp.Waypoints = mockWaypoints(points, opts.generateHints)
	}
	return resp, nil
}

func (m *MockEngine) Trip(ctx context.Context, req services.TripRequest) (_ *domain.TripResponse, err error) {
	defer obs.Time(ctx, m.logger, "mock.Trip")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	points := req.Points()
	opts := pathOptions{
		steps:         req.Steps(),
		annotations:   req.Annotations(),
		geometry:      req.Geometry(),
		overview:      req.Overview(),
		generateHints: req.GenerateHints(),
	}

	order := tripOrder(points, req.Destination() == domain.TripDestinationLast)
	tour := make([]domain.Coordinate, 0, len(order)+1)
	for _, i := range order {
		tour = append(tour, points[i])
	}
	if req.Roundtrip() {
		tour = append(tour, points[0])
	}
	positions := visitPositions(order)

	resp := &domain.TripResponse{
		Status: domain.Status{Code: domain.CodeOk},
		Trips:  []domain.Route{mockRoute(tour, indexRange(0, len(tour)), opts)},
	}
	if !req.SkipWaypoints() {
		for i, wp := range mockWaypoints(points, opts.generateHints) {
			resp.Waypoints = append(resp.Waypoints, domain.TripWaypoint{
				Waypoint:      wp,
				TripsIndex:    0,
				WaypointIndex: positions[i],
			})
		}
	}
	return resp, nil
}

func (m *MockEngine) Match(ctx context.Context, req services.MatchRequest) (_ *domain.MatchResponse, err error) {
	defer obs.Time(ctx, m.logger, "mock.Match")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	points := req.Points()
	opts := pathOptions{
		steps:         req.Steps(),
		annotations:   req.Annotations(),
		geometry:      req.Geometry(),
		overview:      req.Overview(),
		generateHints: req.GenerateHints(),
	}

	bounds, err := legBounds(len(points), req.Waypoints())
	if err != nil {
		return nil, err
	}
	resp := &domain.MatchResponse{
		Status: domain.Status{Code: domain.CodeOk},
		Matchings: []domain.MatchRoute{{
			Route:      mockRoute(points, bounds, opts),
			Confidence: 1,
		}},
	}
	if !req.SkipWaypoints() {
		waypointIndex := waypointIndices(len(points), bounds)
		for i, wp := range mockWaypoints(points, opts.generateHints) {
			resp.Tracepoints = append(resp.Tracepoints, &domain.MatchWaypoint{
				Waypoint:          wp,
				MatchingsIndex:    0,
				WaypointIndex:     waypointIndex[i],
				AlternativesCount: 0,
			})
		}
	}
	return resp, nil
}

func (m *MockEngine) Table(ctx context.Context, req services.TableRequest) (_ *domain.TableResponse, err error) {
	defer obs.Time(ctx, m.logger, "mock.Table")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	sources, destinations := req.Sources(), req.Destinations()
	scale := 1.0
	if f, ok := req.ScaleFactor(); ok {
		scale = f
	}

	resp := &domain.TableResponse{
		Status:       domain.Status{Code: domain.CodeOk},
		Sources:      mockWaypoints(sources, req.GenerateHints()),
		Destinations: mockWaypoints(destinations, req.GenerateHints()),
	}

	annotations := req.Annotations()
	if annotations.HasDuration() {
		resp.Durations = mockMatrix(sources, destinations, func(meters float64) float64 {
			return meters / MockSpeed * scale
		})
	}
	if annotations.HasDistance() {
		resp.Distances = mockMatrix(sources, destinations, func(meters float64) float64 {
			return meters
		})
	}
	return resp, nil
}

func (m *MockEngine) Nearest(ctx context.Context, req services.NearestRequest) (_ *domain.NearestResponse, err error) {
	defer obs.Time(ctx, m.logger, "mock.Nearest")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	point := req.Point()
	resp := &domain.NearestResponse{Status: domain.Status{Code: domain.CodeOk}}
	for k := 0; k < req.Number(); k++ {
		resp.Waypoints = append(resp.Waypoints, domain.NearestWaypoint{
			Waypoint: domain.Waypoint{
				Hint:     mockHint(point),
				Location: point.LonLat(),
				Name:     MockRoadName,
				Distance: float64(k),
			},
			Nodes: [2]uint64{uint64(2 * k), uint64(2*k + 1)},
		})
	}
	return resp, nil
}

func (m *MockEngine) Close() error { return nil }

// legBounds returns the point indices at which legs start and end. Without
// waypoints every point is a leg boundary. Waypoints must run strictly
// upwards from the first point to the last, as the engine requires;
// anything else is rejected with the engine's InvalidValue answer.
func legBounds(n int, waypoints []int) ([]int, error) {
	if waypoints == nil {
		return indexRange(0, n), nil
	}
	if waypoints[0] != 0 || waypoints[len(waypoints)-1] != n-1 {
		return nil, invalidWaypoints("First and last coordinates must be specified as waypoints.")
	}
	for i := 1; i < len(waypoints); i++ {
		if waypoints[i] <= waypoints[i-1] {
			return nil, invalidWaypoints("Waypoints must be supplied in increasing order.")
		}
	}
	return waypoints, nil
}

func invalidWaypoints(message string) error {
	return &domain.EngineError{
		Backend: domain.BackendMock,
		Kind:    domain.ErrInternal,
		Message: domain.CodeInvalidValue + ": " + message,
	}
}

// waypointIndices gives each point's position among the leg boundaries, or
// the position of the boundary that precedes it.
func waypointIndices(n int, bounds []int) []int {
	out := make([]int, n)
	b := 0
	for i := range out {
		for b+1 < len(bounds) && bounds[b+1] <= i {
			b++
		}
		out[i] = b
	}
	return out
}

func mockRoute(points []domain.Coordinate, bounds []int, opts pathOptions) domain.Route {
	route := domain.Route{WeightName: "duration", Legs: []domain.RouteLeg{}}

	var line orb.LineString
	for k := 0; k+1 < len(bounds); k++ {
		leg := mockLeg(points[bounds[k]:bounds[k+1]+1], opts)
		route.Legs = append(route.Legs, leg)
		route.Distance += leg.Distance
		route.Duration += leg.Duration
		route.Weight += leg.Weight
	}
	for _, p := range points {
		line = append(line, p.Point())
	}

	if opts.overview != domain.OverviewFalse {
		g := mockGeometry(line, opts.geometry)
		route.Geometry = &g
	}
	return route
}

func mockLeg(points []domain.Coordinate, opts pathOptions) domain.RouteLeg {
	leg := domain.RouteLeg{Summary: MockRoadName, Steps: []domain.RouteStep{}}

	segments := make([]float64, 0, len(points)-1)
	line := orb.LineString{points[0].Point()}
	for i := 1; i < len(points); i++ {
		d := geo.Distance(points[i-1].Point(), points[i].Point())
		segments = append(segments, d)
		line = append(line, points[i].Point())
		leg.Distance += d
	}
	leg.Duration = leg.Distance / MockSpeed
	leg.Weight = leg.Duration

	if opts.steps {
		end := points[len(points)-1]
		leg.Steps = []domain.RouteStep{
			mockStep("depart", points[0], leg.Distance, leg.Duration, mockGeometry(line, opts.geometry)),
			mockStep("arrive", end, 0, 0, mockGeometry(orb.LineString{end.Point(), end.Point()}, opts.geometry)),
		}
	}

	if opts.annotations {
		a := &domain.Annotation{Metadata: &domain.AnnotationMetadata{DataSourceNames: []string{mockDataSourceName}}}
		for i, d := range segments {
			a.Distance = append(a.Distance, d)
			a.Duration = append(a.Duration, d/MockSpeed)
			a.Weight = append(a.Weight, d/MockSpeed)
			a.Speed = append(a.Speed, MockSpeed)
			a.DataSources = append(a.DataSources, 0)
			a.Nodes = append(a.Nodes, uint64(i))
		}
		a.Nodes = append(a.Nodes, uint64(len(segments)))
		leg.Annotation = a
	}
	return leg
}

func mockStep(kind string, at domain.Coordinate, distance, duration float64, g domain.Geometry) domain.RouteStep {
	return domain.RouteStep{
		Distance:    distance,
		Duration:    duration,
		Weight:      duration,
		Name:        MockRoadName,
		Mode:        "driving",
		Maneuver:    domain.StepManeuver{Location: at.LonLat(), Type: kind},
		Geometry:    &g,
		DrivingSide: "right",
		Intersections: []domain.Intersection{{
			Location: at.LonLat(),
			Bearings: []int{0},
			Entry:    []bool{true},
		}},
	}
}

func mockGeometry(line orb.LineString, t domain.GeometryType) domain.Geometry {
	if t == domain.GeometryGeoJSON {
		return domain.GeoJSONGeometry(line)
	}
	return domain.PolylineGeometry(domain.EncodePolyline(line, t))
}

func mockWaypoints(points []domain.Coordinate, generateHints bool) []domain.Waypoint {
	out := make([]domain.Waypoint, len(points))
	for i, p := range points {
		out[i] = domain.Waypoint{Location: p.LonLat(), Name: MockRoadName}
		if generateHints {
			out[i].Hint = mockHint(p)
		}
	}
	return out
}

func mockHint(p domain.Coordinate) string {
	return geohash.EncodeWithPrecision(p.Lat(), p.Lon(), mockHintPrecision)
}

// mockMatrix fills a sources x destinations matrix from great-circle
// distances. Identical coordinates give 0.
func mockMatrix(sources, destinations []domain.Coordinate, value func(meters float64) float64) [][]*float64 {
	out := make([][]*float64, len(sources))
	for i, s := range sources {
		row := make([]*float64, len(destinations))
		for j, d := range destinations {
			v := 0.0
			if s != d {
				v = value(geo.Distance(s.Point(), d.Point()))
			}
			row[j] = &v
		}
		out[i] = row
	}
	return out
}
