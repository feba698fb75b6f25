package routeclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stuttgart = MustCoordinate(48.7758, 9.1829)
	munich    = MustCoordinate(48.1351, 11.5820)
)

func TestOpen_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "error"

	eng, err := Open(cfg)
	require.NoError(t, err)
	defer eng.Close()

	sum, err := SimpleRoute(context.Background(), eng, stuttgart, munich)
	require.NoError(t, err)
	assert.InDelta(t, 190_000, sum.DistanceMeters, 10_000)
	assert.Positive(t, sum.DurationSeconds)
}

func TestOpen_Remote(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"code":"Ok","waypoints":[{"hint":"","location":[9.1829,48.7758],"name":"","distance":0}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Backend = "remote"
	cfg.Remote.Address = srv.URL
	cfg.Remote.Profile = "foot"

	eng, err := Open(cfg)
	require.NoError(t, err)

	req, err := NewNearestRequestBuilder(stuttgart).Build()
	require.NoError(t, err)
	resp, err := eng.Nearest(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Waypoints, 1)
	assert.Equal(t, "/nearest/v1/foot/9.182900,48.775800", path)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "native"

	eng, err := Open(cfg)
	assert.Error(t, err)
	assert.Nil(t, eng)
}

func TestNewNative_Unavailable(t *testing.T) {
	eng, err := NewNative("", AlgorithmMLD)
	require.ErrorIs(t, err, ErrInvalidPath)
	assert.Nil(t, eng)
	assert.Equal(t, ClassNative, Classify(err))
}

func TestNewRemote_NilOnError(t *testing.T) {
	eng, err := NewRemote("", ProfileCar)
	require.ErrorIs(t, err, ErrInitialization)
	assert.Nil(t, eng)
}

func TestClassify_AcrossLayers(t *testing.T) {
	_, err := NewCoordinate(91, 0)
	assert.Equal(t, ClassConstruction, Classify(err))
	assert.ErrorIs(t, err, ErrCoordinateOutOfRange)

	_, err = NewRouteRequestBuilder(stuttgart).Build()
	assert.Equal(t, ClassConstruction, Classify(err))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	assert.Equal(t, ClassNone, Classify(nil))
	assert.Equal(t, ClassUnknown, Classify(errors.New("other")))
}

func TestInstrument_Facade(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng, err := Instrument(NewMock(), "mock", reg, nil)
	require.NoError(t, err)

	table, err := NewTableRequestBuilder([]Coordinate{stuttgart}, []Coordinate{munich, stuttgart}).
		Annotations(TableAnnotationAll).
		Build()
	require.NoError(t, err)

	resp, err := eng.Table(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, resp.Distances, 1)
	assert.Zero(t, *resp.Distances[0][1])

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}

func TestInstrument_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := Instrument(NewMock(), "mock", reg, nil)
	require.NoError(t, err)
	var second Engine
	require.NotPanics(t, func() { second, err = Instrument(NewMock(), "mock", reg, nil) })
	require.NoError(t, err)

	for _, eng := range []Engine{first, second} {
		_, err := SimpleRoute(context.Background(), eng, stuttgart, munich)
		require.NoError(t, err)
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "route_engine_requests_total" {
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, 2.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}
