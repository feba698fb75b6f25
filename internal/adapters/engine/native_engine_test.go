package engine

import (
	"context"
	"errors"
	"math"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/services"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeBoundary struct {
	mu        sync.Mutex
	service   domain.Service
	last      *flatQuery
	status    int
	payload   []byte
	err       error
	calls     atomic.Int32
	destroyed atomic.Int32
}

func (f *fakeBoundary) query(service domain.Service, q *flatQuery) (int, []byte, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.service, f.last = service, q
	f.mu.Unlock()
	return f.status, f.payload, f.err
}

func (f *fakeBoundary) destroy() { f.destroyed.Add(1) }

func newFakeNative(t *testing.T, fb *fakeBoundary) *NativeEngine {
	t.Helper()
	n, err := newNativeEngine("/data/berlin.osrm", domain.AlgorithmMLD, func(string, domain.Algorithm) (boundary, error) {
		return fb, nil
	})
	require.NoError(t, err)
	return n
}

func TestNewNativeEngine_InvalidPath(t *testing.T) {
	opened := false
	open := func(string, domain.Algorithm) (boundary, error) {
		opened = true
		return &fakeBoundary{}, nil
	}

	for _, path := range []string{"", "   ", "maps/\x00berlin.osrm"} {
		_, err := newNativeEngine(path, domain.AlgorithmCH, open)
		require.ErrorIs(t, err, domain.ErrInvalidPath)
		assert.Equal(t, domain.ClassNative, domain.Classify(err))
	}
	assert.False(t, opened)
}

func TestNewNativeEngine_LoadFailure(t *testing.T) {
	cause := errors.New("missing .osrm.mldgr")
	_, err := newNativeEngine("/data/berlin.osrm", domain.AlgorithmMLD, func(string, domain.Algorithm) (boundary, error) {
		return nil, cause
	})
	require.ErrorIs(t, err, domain.ErrInitialization)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "MLD")
}

func TestNewNativeEngine_NotCompiledIn(t *testing.T) {
	if _, err := openNativeBoundary("/data/berlin.osrm", domain.AlgorithmMLD); !errors.Is(err, errNativeUnavailable) {
		t.Skip("native support is compiled in")
	}
	_, err := NewNativeEngine("/data/berlin.osrm", domain.AlgorithmMLD)
	require.ErrorIs(t, err, domain.ErrInitialization)
}

func TestNativeRoute_FlattensRequest(t *testing.T) {
	fb := &fakeBoundary{payload: []byte(okRouteBody)}
	n := newFakeNative(t, fb)
	assert.Equal(t, "/data/berlin.osrm", n.MapPath())
	assert.Equal(t, domain.AlgorithmMLD, n.Algorithm())

	req := buildRoute(t, services.NewRouteRequestBuilder(testPoints(3)...).
		Steps(true).
		SkipWaypoints(true).
		Geometry(domain.GeometryPolyline6).
		Bearings(domain.MustBearing(90, 10), domain.Bearing{}, domain.Bearing{}).
		Approaches(domain.ApproachCurb, domain.ApproachUnrestricted, domain.ApproachOpposite).
		Exclude(domain.CarMotorway).
		Snapping(domain.SnappingAny))

	resp, err := n.Route(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Routes, 1)

	q := fb.last
	assert.Equal(t, domain.ServiceRoute, fb.service)
	assert.Equal(t, testPoints(3)[0].LonLat(), q.coords[0])
	assert.Equal(t, routeSteps|routeContinueStraight|routeGenerateHints|routeSkipWaypoints, q.flags)
	assert.Equal(t, uint8(domain.GeometryPolyline6), q.geometry)
	assert.Equal(t, []flatBearing{{angle: 90, rng: 10, set: true}, {}, {}}, q.bearings)
	assert.Equal(t, []uint8{nativeApproachCurb, nativeApproachUnrestricted, nativeApproachOpposite}, q.approaches)
	assert.Equal(t, []flatExclude{{mode: uint8(domain.ExcludeModeCar), class: "motorway"}}, q.excludes)
	assert.True(t, q.snappingSet)
	assert.Equal(t, uint8(domain.SnappingAny), q.snapping)
	assert.Nil(t, q.waypoints)

	// Unset radii are sent as unlimited, one per point.
	require.Len(t, q.radiuses, 3)
	for _, r := range q.radiuses {
		assert.True(t, math.IsInf(r, 1))
	}
}

func TestNativeFlatten_TripMatchNearest(t *testing.T) {
	points := testPoints(3)

	trip, err := services.NewTripRequestBuilder(points...).
		Roundtrip(false).
		Source(domain.TripSourceFirst).
		Destination(domain.TripDestinationLast).
		Build()
	require.NoError(t, err)
	q := flattenTrip(trip)
	assert.Equal(t, tripGenerateHints, q.flags)
	assert.Equal(t, uint8(domain.TripSourceFirst), q.source)
	assert.Equal(t, uint8(domain.TripDestinationLast), q.destination)

	match, err := services.NewMatchRequestBuilder(points...).
		Timestamps(5, 5, 9).
		Tidy(true).
		Waypoints(0, 2).
		Build()
	require.NoError(t, err)
	q = flattenMatch(match)
	assert.Equal(t, matchTidy|matchGenerateHints, q.flags)
	assert.Equal(t, []uint64{5, 5, 9}, q.timestamps)
	assert.Equal(t, []uint64{0, 2}, q.waypoints)

	nearest, err := services.NewNearestRequestBuilder(points[0]).Number(4).Approach(domain.ApproachCurb).Build()
	require.NoError(t, err)
	q = flattenNearest(nearest)
	assert.Equal(t, uint32(4), q.number)
	assert.Nil(t, q.radiuses)
	assert.Equal(t, []uint8{nativeApproachCurb}, q.approaches)
	assert.Nil(t, q.bearings)

	nearest, err = services.NewNearestRequestBuilder(points[0]).Radius(25).Build()
	require.NoError(t, err)
	assert.Equal(t, []float64{25}, flattenNearest(nearest).radiuses)
}

func TestNativeFlatten_Table(t *testing.T) {
	points := testPoints(3)
	req, err := services.NewTableRequestBuilder(points[:1], points[1:]).
		Annotations(domain.TableAnnotationAll).
		ScaleFactor(1.5).
		SourceRadiuses(30).
		DestinationHints("a", "b").
		Build()
	require.NoError(t, err)

	q := flattenTable(req)
	assert.Len(t, q.coords, 3)
	assert.Equal(t, []uint64{0}, q.sources)
	assert.Equal(t, []uint64{1, 2}, q.destinations)
	assert.Equal(t, uint8(domain.TableAnnotationAll), q.annotations)
	assert.True(t, q.generateHints)
	assert.Zero(t, q.flags)
	assert.True(t, q.scaleFactorSet)
	assert.Equal(t, 1.5, q.scaleFactor)
	assert.False(t, q.fallbackSpeedSet)

	require.Len(t, q.radiuses, 3)
	assert.Equal(t, 30.0, q.radiuses[0])
	assert.True(t, math.IsInf(q.radiuses[1], 1))
	assert.Equal(t, []string{"", "a", "b"}, q.hints)
	assert.Nil(t, q.bearings)
	assert.Nil(t, q.approaches)
}

func TestNativeEngine_StatusErrors(t *testing.T) {
	cases := []struct {
		name    string
		fb      *fakeBoundary
		kind    error
		class   domain.ErrorClass
		message string
	}{
		{"engine failure", &fakeBoundary{status: 1, payload: []byte(`{"code":"InvalidOptions","message":"Too many coordinates"}`)}, domain.ErrInternal, domain.ClassNative, "InvalidOptions: Too many coordinates"},
		{"plain text failure", &fakeBoundary{status: 1, payload: []byte("segfault avoided\n")}, domain.ErrInternal, domain.ClassNative, "segfault avoided"},
		{"no route", &fakeBoundary{payload: []byte(`{"code":"NoRoute"}`)}, domain.ErrEmptyResponse, domain.ClassEmpty, "NoRoute"},
		{"empty payload", &fakeBoundary{}, domain.ErrEmptyResponse, domain.ClassEmpty, ""},
		{"malformed payload", &fakeBoundary{payload: []byte(`{"code":`)}, domain.ErrDecode, domain.ClassNative, ""},
		{"boundary error", &fakeBoundary{err: errors.New("bad alloc")}, domain.ErrInternal, domain.ClassNative, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := newFakeNative(t, tc.fb)
			_, err := n.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(2)...)))
			require.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.class, domain.Classify(err))

			var engErr *domain.EngineError
			require.True(t, errors.As(err, &engErr))
			assert.Equal(t, domain.BackendNative, engErr.Backend)
			if tc.message != "" {
				assert.Contains(t, engErr.Message, tc.message)
			}
		})
	}
}

func TestNativeEngine_ConstructionErrorSkipsBoundary(t *testing.T) {
	fb := &fakeBoundary{payload: []byte(okRouteBody)}
	n := newFakeNative(t, fb)

	_, err := n.Table(context.Background(), services.TableRequest{})
	require.ErrorIs(t, err, domain.ErrEmptySources)
	assert.Zero(t, fb.calls.Load())
}

func TestNativeRoute_WaypointsRejected(t *testing.T) {
	fb := &fakeBoundary{payload: []byte(okRouteBody)}
	n := newFakeNative(t, fb)

	req := buildRoute(t, services.NewRouteRequestBuilder(testPoints(3)...).Waypoints(0, 2))
	_, err := n.Route(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, domain.ClassNative, domain.Classify(err))
	assert.Zero(t, fb.calls.Load())
}

func TestNativeEngine_Close(t *testing.T) {
	fb := &fakeBoundary{payload: []byte(okRouteBody)}
	n := newFakeNative(t, fb)

	require.NoError(t, n.Close())
	require.NoError(t, n.Close())
	assert.Equal(t, int32(1), fb.destroyed.Load())

	_, err := n.Route(context.Background(), buildRoute(t, services.NewRouteRequestBuilder(testPoints(2)...)))
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Contains(t, err.Error(), "closed")
	assert.Zero(t, fb.calls.Load())
}

func TestNativeEngine_ConcurrentQueries(t *testing.T) {
	fb := &fakeBoundary{payload: []byte(okRouteBody)}
	n := newFakeNative(t, fb)
	req := buildRoute(t, services.NewRouteRequestBuilder(testPoints(2)...))

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := n.Route(context.Background(), req)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(16), fb.calls.Load())
	require.NoError(t, n.Close())
}
