package engine

import (
	"context"
	"errors"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/platform/obs"
	"route-engine-client/internal/services"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// boundary is the call surface of one in-process engine instance. query
// returns the engine status code and its JSON payload; the payload is
// already copied out of engine-owned memory.
type boundary interface {
	query(service domain.Service, q *flatQuery) (status int, payload []byte, err error)
	destroy()
}

type openBoundaryFunc func(mapPath string, algorithm domain.Algorithm) (boundary, error)

// NativeEngine executes requests against an engine instance loaded into
// this process from prepared map data.
//
// Queries may run concurrently. Close releases the instance exactly once and
// waits for in-flight queries; queries after Close fail with ErrInternal.
type NativeEngine struct {
	mu        sync.RWMutex
	b         boundary
	closeOnce sync.Once
	mapPath   string
	algorithm domain.Algorithm
	logger    zerolog.Logger
}

// NewNativeEngine loads the map data at mapPath with the given algorithm.
// Callers must Close the engine to release it.
func NewNativeEngine(mapPath string, algorithm domain.Algorithm, opts ...Option) (*NativeEngine, error) {
	return newNativeEngine(mapPath, algorithm, openNativeBoundary, opts...)
}

func newNativeEngine(mapPath string, algorithm domain.Algorithm, open openBoundaryFunc, opts ...Option) (*NativeEngine, error) {
	if strings.TrimSpace(mapPath) == "" || strings.ContainsRune(mapPath, 0) {
		return nil, &domain.EngineError{
			Backend: domain.BackendNative,
			Kind:    domain.ErrInvalidPath,
			Message: "map data path must be non-empty and free of NUL bytes",
		}
	}

	b, err := open(mapPath, algorithm)
	if err != nil {
		return nil, &domain.EngineError{
			Backend: domain.BackendNative,
			Kind:    domain.ErrInitialization,
			Message: "load " + mapPath + " (" + algorithm.String() + ")",
			Err:     err,
		}
	}

	o := applyOptions(opts)
	return &NativeEngine{
		b:         b,
		mapPath:   mapPath,
		algorithm: algorithm,
		logger:    o.logger.With().Str("backend", string(domain.BackendNative)).Logger(),
	}, nil
}

func (n *NativeEngine) MapPath() string             { return n.mapPath }
func (n *NativeEngine) Algorithm() domain.Algorithm { return n.algorithm }

func (n *NativeEngine) Route(ctx context.Context, req services.RouteRequest) (_ *domain.RouteResponse, err error) {
	defer obs.Time(ctx, n.logger, "native.Route")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	// The in-process route call has no waypoint parameter.
	if len(req.Waypoints()) > 0 {
		return nil, &domain.EngineError{
			Backend: domain.BackendNative,
			Kind:    domain.ErrInternal,
			Message: "waypoints are not supported by the in-process route call",
		}
	}
	return execute[domain.RouteResponse](n, domain.ServiceRoute, flattenRoute(req))
}

func (n *NativeEngine) Trip(ctx context.Context, req services.TripRequest) (_ *domain.TripResponse, err error) {
	defer obs.Time(ctx, n.logger, "native.Trip")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return execute[domain.TripResponse](n, domain.ServiceTrip, flattenTrip(req))
}

func (n *NativeEngine) Match(ctx context.Context, req services.MatchRequest) (_ *domain.MatchResponse, err error) {
	defer obs.Time(ctx, n.logger, "native.Match")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return execute[domain.MatchResponse](n, domain.ServiceMatch, flattenMatch(req))
}

func (n *NativeEngine) Table(ctx context.Context, req services.TableRequest) (_ *domain.TableResponse, err error) {
	defer obs.Time(ctx, n.logger, "native.Table")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return execute[domain.TableResponse](n, domain.ServiceTable, flattenTable(req))
}

func (n *NativeEngine) Nearest(ctx context.Context, req services.NearestRequest) (_ *domain.NearestResponse, err error) {
	defer obs.Time(ctx, n.logger, "native.Nearest")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return execute[domain.NearestResponse](n, domain.ServiceNearest, flattenNearest(req))
}

// Close releases the engine instance. It is safe to call more than once.
func (n *NativeEngine) Close() error {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		b := n.b
		n.b = nil
		n.mu.Unlock()

		if b != nil {
			b.destroy()
		}
	})
	return nil
}

func (n *NativeEngine) call(service domain.Service, q *flatQuery) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.b == nil {
		return nil, &domain.EngineError{
			Backend: domain.BackendNative,
			Kind:    domain.ErrInternal,
			Message: "engine is closed",
		}
	}

	status, payload, err := n.b.query(service, q)
	if err != nil {
		return nil, &domain.EngineError{Backend: domain.BackendNative, Kind: domain.ErrInternal, Err: err}
	}
	if status != 0 {
		return nil, &domain.EngineError{
			Backend: domain.BackendNative,
			Kind:    domain.ErrInternal,
			Status:  status,
			Message: nativeMessage(payload),
		}
	}
	return payload, nil
}

// nativeMessage extracts the engine message from an error payload, which
// is either a JSON status object or plain text.
func nativeMessage(payload []byte) string {
	var st domain.Status
	if err := decodeStatus(payload, &st); err == nil && st.Code != "" {
		if st.Message == "" {
			return st.Code
		}
		return st.Code + ": " + st.Message
	}
	return strings.TrimSpace(string(payload))
}

func execute[T any](n *NativeEngine, service domain.Service, q *flatQuery) (*T, error) {
	payload, err := n.call(service, q)
	if err != nil {
		return nil, err
	}
	return decodeResponse[T](domain.BackendNative, payload, domain.ErrInternal)
}

var errNativeUnavailable = errors.New("native engine support is not compiled in (build with -tags osrmnative)")
