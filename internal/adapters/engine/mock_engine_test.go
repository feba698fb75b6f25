package engine

import (
	"context"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoints(n int) []domain.Coordinate {
	all := []domain.Coordinate{
		domain.MustCoordinate(48.040437, 10.316550),
		domain.MustCoordinate(49.006101, 9.052887),
		domain.MustCoordinate(48.942296, 10.510960),
		domain.MustCoordinate(51.248931, 7.594814),
		domain.MustCoordinate(50.110922, 8.682127),
	}
	return all[:n]
}

func TestMockRoute_Defaults(t *testing.T) {
	m := NewMockEngine()
	resp, err := m.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(4)...)))
	require.NoError(t, err)

	assert.Equal(t, domain.CodeOk, resp.Code)
	require.Len(t, resp.Routes, 1)
	route := resp.Routes[0]
	require.Len(t, route.Legs, 3)
	require.Len(t, resp.Waypoints, 4)

	var sum float64
	for _, leg := range route.Legs {
		assert.Positive(t, leg.Distance)
		assert.InDelta(t, leg.Distance/MockSpeed, leg.Duration, 1e-9)
		assert.Empty(t, leg.Steps)
		assert.Nil(t, leg.Annotation)
		sum += leg.Distance
	}
	assert.InDelta(t, sum, route.Distance, 1e-6)

	require.NotNil(t, route.Geometry)
	encoded, ok := route.Geometry.Polyline()
	require.True(t, ok)
	line, err := route.Geometry.Points(domain.GeometryPolyline)
	require.NoError(t, err)
	assert.Len(t, line, 4)
	assert.NotEmpty(t, encoded)

	for i, wp := range resp.Waypoints {
		assert.Equal(t, testPoints(4)[i].LonLat(), wp.Location)
		assert.Len(t, wp.Hint, 12)
		assert.Equal(t, MockRoadName, wp.Name)
	}
}

func TestMockRoute_OptionsDriveFieldPresence(t *testing.T) {
	m := NewMockEngine()
	req := buildRoute(t, services.NewRouteRequestBuilder(testPoints(3)...).
		Steps(true).
		Annotations(true).
		Geometry(domain.GeometryGeoJSON).
		Overview(domain.OverviewFalse).
		GenerateHints(false).
		SkipWaypoints(true))

	resp, err := m.Route(context.Background(), req)
	require.NoError(t, err)

	route := resp.Routes[0]
	assert.Nil(t, route.Geometry)
	assert.Nil(t, resp.Waypoints)

	for _, leg := range route.Legs {
		require.Len(t, leg.Steps, 2)
		assert.Equal(t, "depart", leg.Steps[0].Maneuver.Type)
		assert.Equal(t, "arrive", leg.Steps[1].Maneuver.Type)
		require.NotNil(t, leg.Steps[0].Geometry)
		assert.Equal(t, domain.GeometryKindGeoJSON, leg.Steps[0].Geometry.Kind())
		assert.Equal(t, domain.GeometryKindGeoJSON, leg.Steps[1].Geometry.Kind())

		require.NotNil(t, leg.Annotation)
		assert.Len(t, leg.Annotation.Distance, 1)
		assert.Len(t, leg.Annotation.Nodes, 2)
		assert.Equal(t, []string{"mock"}, leg.Annotation.Metadata.DataSourceNames)
	}
}

func TestMockRoute_WaypointsMergeLegs(t *testing.T) {
	m := NewMockEngine()
	resp, err := m.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(4)...).Waypoints(0, 3)))
	require.NoError(t, err)

	require.Len(t, resp.Routes[0].Legs, 1)
	assert.InDelta(t, resp.Routes[0].Distance, resp.Routes[0].Legs[0].Distance, 1e-9)
}

func TestMockRoute_InvalidWaypoints(t *testing.T) {
	m := NewMockEngine()
	cases := []struct {
		name      string
		waypoints []int
		message   string
	}{
		{"missing first and last", []int{1}, "First and last coordinates"},
		{"missing last", []int{0, 2}, "First and last coordinates"},
		{"descending", []int{0, 2, 1, 3}, "increasing order"},
		{"repeated", []int{0, 1, 1, 3}, "increasing order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := m.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(4)...).Waypoints(tc.waypoints...)))
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, domain.ErrInternal)
			assert.ErrorContains(t, err, domain.CodeInvalidValue)
			assert.ErrorContains(t, err, tc.message)
		})
	}

	match, err := services.NewMatchRequestBuilder(testPoints(3)...).Waypoints(2, 0).Build()
	require.NoError(t, err)
	_, err = m.Match(context.Background(), match)
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestMockRoute_WaypointLegsCoverRoute(t *testing.T) {
	m := NewMockEngine()
	full, err := m.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(4)...)))
	require.NoError(t, err)
	merged, err := m.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(4)...).Waypoints(0, 2, 3)))
	require.NoError(t, err)

	require.Len(t, merged.Routes[0].Legs, 2)
	assert.InDelta(t, full.Routes[0].Distance, merged.Routes[0].Distance, 1e-6)
	assert.InDelta(t, full.Routes[0].Legs[0].Distance+full.Routes[0].Legs[1].Distance, merged.Routes[0].Legs[0].Distance, 1e-6)
}

func TestMockRoute_GenerateHintsFalse(t *testing.T) {
	m := NewMockEngine()
	resp, err := m.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(2)...).GenerateHints(false)))
	require.NoError(t, err)
	for _, wp := range resp.Waypoints {
		assert.Empty(t, wp.Hint)
	}
}

func TestMockEngine_ConstructionErrors(t *testing.T) {
	m := NewMockEngine()
	ctx := context.Background()

	_, err := m.Route(ctx, services.RouteRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	_, err = m.Trip(ctx, services.TripRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	_, err = m.Match(ctx, services.MatchRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	_, err = m.Table(ctx, services.TableRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptySources)
	_, err = m.Nearest(ctx, services.NearestRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)

	assert.Equal(t, domain.ClassConstruction, domain.Classify(err))
}

func TestMockTrip(t *testing.T) {
	m := NewMockEngine()
	ctx := context.Background()

	round, err := services.NewTripRequestBuilder(testPoints(3)...).Build()
	require.NoError(t, err)
	resp, err := m.Trip(ctx, round)
	require.NoError(t, err)
	require.Len(t, resp.Trips, 1)
	assert.Len(t, resp.Trips[0].Legs, 3)
	require.Len(t, resp.Waypoints, 3)
	// Nearest-first from the start: point 2 is closer than point 1.
	assert.Equal(t, []int{0, 2, 1}, tripPositions(resp))
	assert.Nil(t, resp.Trips[0].Geometry)

	open, err := services.NewTripRequestBuilder(testPoints(3)...).
		Roundtrip(false).
		Source(domain.TripSourceFirst).
		Destination(domain.TripDestinationLast).
		Overview(domain.OverviewFull).
		Build()
	require.NoError(t, err)
	resp, err = m.Trip(ctx, open)
	require.NoError(t, err)
	assert.Len(t, resp.Trips[0].Legs, 2)
	assert.NotNil(t, resp.Trips[0].Geometry)
	assert.Equal(t, []int{0, 1, 2}, tripPositions(resp))
}

func tripPositions(resp *domain.TripResponse) []int {
	out := make([]int, 0, len(resp.Waypoints))
	for _, wp := range resp.Waypoints {
		out = append(out, wp.WaypointIndex)
	}
	return out
}

func TestTripOrder(t *testing.T) {
	points := testPoints(5)

	assert.Empty(t, tripOrder(nil, false))
	assert.Equal(t, []int{0}, tripOrder(points[:1], true))

	order := tripOrder(points, false)
	require.Len(t, order, 5)
	assert.Equal(t, 0, order[0])
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, order)

	kept := tripOrder(points, true)
	assert.Equal(t, 0, kept[0])
	assert.Equal(t, 4, kept[4])

	assert.Equal(t, []int{0, 3, 1, 2}, visitPositions([]int{0, 2, 3, 1}))
}

func TestMockMatch(t *testing.T) {
	m := NewMockEngine()
	req, err := services.NewMatchRequestBuilder(testPoints(4)...).
		Timestamps(0, 10, 20, 30).
		Waypoints(0, 2, 3).
		Build()
	require.NoError(t, err)

	resp, err := m.Match(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Matchings, 1)
	assert.Equal(t, 1.0, resp.Matchings[0].Confidence)
	assert.Len(t, resp.Matchings[0].Legs, 2)

	require.Len(t, resp.Tracepoints, 4)
	var indices []int
	for _, tp := range resp.Tracepoints {
		require.NotNil(t, tp)
		indices = append(indices, tp.WaypointIndex)
	}
	assert.Equal(t, []int{0, 0, 1, 2}, indices)
}

func TestMockTable(t *testing.T) {
	m := NewMockEngine()
	points := testPoints(3)

	req, err := services.NewTableRequestBuilder(points[:2], points).Build()
	require.NoError(t, err)
	resp, err := m.Table(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Durations, 2)
	for _, row := range resp.Durations {
		require.Len(t, row, 3)
	}
	assert.Zero(t, *resp.Durations[0][0])
	assert.Zero(t, *resp.Durations[1][1])
	assert.Positive(t, *resp.Durations[0][1])
	assert.Positive(t, *resp.Durations[1][2])
	assert.Nil(t, resp.Distances)
	assert.Len(t, resp.Sources, 2)
	assert.Len(t, resp.Destinations, 3)
}

func TestMockTable_ScaleFactorAndDistances(t *testing.T) {
	m := NewMockEngine()
	points := testPoints(2)

	req, err := services.NewTableRequestBuilder(points[:1], points[1:]).
		Annotations(domain.TableAnnotationAll).
		ScaleFactor(2).
		Build()
	require.NoError(t, err)
	resp, err := m.Table(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.Distances)
	meters := *resp.Distances[0][0]
	assert.InDelta(t, 2*meters/MockSpeed, *resp.Durations[0][0], 1e-9)

	onlyDistance, err := services.NewTableRequestBuilder(points[:1], points[1:]).
		Annotations(domain.TableAnnotationDistance).
		Build()
	require.NoError(t, err)
	resp, err = m.Table(context.Background(), onlyDistance)
	require.NoError(t, err)
	assert.Nil(t, resp.Durations)
	assert.NotNil(t, resp.Distances)
}

func TestMockNearest(t *testing.T) {
	m := NewMockEngine()
	p := testPoints(1)[0]

	req, err := services.NewNearestRequestBuilder(p).Number(3).Build()
	require.NoError(t, err)
	resp, err := m.Nearest(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Waypoints, 3)
	for k, wp := range resp.Waypoints {
		assert.Equal(t, p.LonLat(), wp.Location)
		assert.Equal(t, [2]uint64{uint64(2 * k), uint64(2*k + 1)}, wp.Nodes)
	}
}

func TestMockEngine_CloseIsNoop(t *testing.T) {
	m := NewMockEngine()
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
