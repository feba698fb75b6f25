//go:build osrmnative

package engine

/*
#cgo LDFLAGS: -losrm_wrapper -losrm -lstdc++
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	int   code;
	char *message;
} osrm_result;

typedef struct {
	size_t         len;
	const uint8_t *pointer;
} osrm_string;

typedef struct {
	short bearing;
	short rng;
} osrm_bearing;

void       *osrm_create(const char *base_path, const char *algorithm);
void        osrm_destroy(void *osrm_instance);
const char *osrm_last_error(void);
void        osrm_free_string(char *s);

osrm_result osrm_route(void *osrm_instance,
	const double *coordinates, size_t num_coordinates,
	int geometry_type, int overview_zoom, uint8_t flags,
	const osrm_bearing *bearings, size_t num_bearings,
	const double *radiuses, size_t num_radiuses,
	const osrm_string *hints, size_t num_hints,
	const uint8_t *approaches, size_t num_approaches,
	const osrm_string *excludes, size_t num_excludes,
	int snapping);

osrm_result osrm_trip(void *osrm_instance,
	const double *coordinates, size_t num_coordinates,
	int geometry_type, int overview_zoom, int source, int destination, uint8_t flags,
	const osrm_bearing *bearings, size_t num_bearings,
	const double *radiuses, size_t num_radiuses,
	const osrm_string *hints, size_t num_hints,
	const uint8_t *approaches, size_t num_approaches,
	const osrm_string *excludes, size_t num_excludes,
	int snapping);

osrm_result osrm_match(void *osrm_instance,
	const double *coordinates, size_t num_coordinates,
	int geometry_type, int overview_zoom,
	const uint64_t *timestamps, size_t num_timestamps,
	int gaps_type,
	const size_t *waypoints, size_t num_waypoints,
	uint8_t flags,
	const osrm_bearing *bearings, size_t num_bearings,
	const double *radiuses, size_t num_radiuses,
	const osrm_string *hints, size_t num_hints,
	const uint8_t *approaches, size_t num_approaches,
	const osrm_string *excludes, size_t num_excludes);

osrm_result osrm_table(void *osrm_instance,
	const double *coordinates, size_t num_coordinates,
	const size_t *sources, size_t num_sources,
	const size_t *destinations, size_t num_destinations,
	int annotations, double fallback_speed, int fallback_coordinate_type, double scale_factor,
	const osrm_bearing *bearings, size_t num_bearings,
	const double *radiuses, size_t num_radiuses,
	const osrm_string *hints, size_t num_hints,
	const uint8_t *approaches, size_t num_approaches,
	bool generate_hints,
	const osrm_string *excludes, size_t num_excludes,
	int snapping);

osrm_result osrm_nearest(void *osrm_instance,
	double longitude, double latitude, uint64_t number,
	const osrm_bearing *bearing, const double *radius, const uint8_t *approach,
	const osrm_string *excludes, size_t num_excludes,
	const int *snapping);
*/
import "C"

import (
	"errors"
	"fmt"
	"route-engine-client/internal/domain"
	"unsafe"
)

type cgoBoundary struct {
	instance unsafe.Pointer
}

func openNativeBoundary(mapPath string, algorithm domain.Algorithm) (boundary, error) {
	cpath := C.CString(mapPath)
	defer C.free(unsafe.Pointer(cpath))
	calg := C.CString(algorithm.String())
	defer C.free(unsafe.Pointer(calg))

	instance := C.osrm_create(cpath, calg)
	if instance == nil {
		return nil, errors.New(lastNativeError())
	}
	return &cgoBoundary{instance: instance}, nil
}

func lastNativeError() string {
	if msg := C.osrm_last_error(); msg != nil {
		return C.GoString(msg)
	}
	return "unknown engine error"
}

func (b *cgoBoundary) destroy() {
	C.osrm_destroy(b.instance)
	b.instance = nil
}

func (b *cgoBoundary) query(service domain.Service, q *flatQuery) (int, []byte, error) {
	var a cAllocator
	defer a.free()

	var res C.osrm_result
	switch service {
	case domain.ServiceRoute:
		res = b.route(&a, q)
	case domain.ServiceTrip:
		res = b.trip(&a, q)
	case domain.ServiceMatch:
		res = b.match(&a, q)
	case domain.ServiceTable:
		res = b.table(&a, q)
	case domain.ServiceNearest:
		res = b.nearest(&a, q)
	default:
		return 0, nil, fmt.Errorf("unsupported service %q", service)
	}

	if res.message == nil {
		return 0, nil, errors.New("engine returned a null message")
	}
	defer C.osrm_free_string(res.message)
	return int(res.code), []byte(C.GoString(res.message)), nil
}

func (b *cgoBoundary) route(a *cAllocator, q *flatQuery) C.osrm_result {
	coords, nCoords := a.coords(q.coords)
	p := a.points(q)
	excludes, nExcludes := a.strings(excludeNames(q.excludes))
	return C.osrm_route(b.instance,
		coords, nCoords,
		C.int(q.geometry), C.int(q.overview), C.uint8_t(q.flags),
		p.bearings, p.nBearings,
		p.radiuses, p.nRadiuses,
		p.hints, p.nHints,
		p.approaches, p.nApproaches,
		excludes, nExcludes,
		C.int(q.snapping))
}

func (b *cgoBoundary) trip(a *cAllocator, q *flatQuery) C.osrm_result {
	coords, nCoords := a.coords(q.coords)
	p := a.points(q)
	excludes, nExcludes := a.strings(excludeNames(q.excludes))
	return C.osrm_trip(b.instance,
		coords, nCoords,
		C.int(q.geometry), C.int(q.overview), C.int(q.source), C.int(q.destination), C.uint8_t(q.flags),
		p.bearings, p.nBearings,
		p.radiuses, p.nRadiuses,
		p.hints, p.nHints,
		p.approaches, p.nApproaches,
		excludes, nExcludes,
		C.int(q.snapping))
}

func (b *cgoBoundary) match(a *cAllocator, q *flatQuery) C.osrm_result {
	coords, nCoords := a.coords(q.coords)
	p := a.points(q)
	excludes, nExcludes := a.strings(excludeNames(q.excludes))
	timestamps, nTimestamps := a.uint64s(q.timestamps)
	waypoints, nWaypoints := a.sizes(q.waypoints)
	return C.osrm_match(b.instance,
		coords, nCoords,
		C.int(q.geometry), C.int(q.overview),
		timestamps, nTimestamps,
		C.int(q.gaps),
		waypoints, nWaypoints,
		C.uint8_t(q.flags),
		p.bearings, p.nBearings,
		p.radiuses, p.nRadiuses,
		p.hints, p.nHints,
		p.approaches, p.nApproaches,
		excludes, nExcludes)
}

func (b *cgoBoundary) table(a *cAllocator, q *flatQuery) C.osrm_result {
	coords, nCoords := a.coords(q.coords)
	p := a.points(q)
	excludes, nExcludes := a.strings(excludeNames(q.excludes))
	sources, nSources := a.sizes(q.sources)
	destinations, nDestinations := a.sizes(q.destinations)

	// The engine reads zero as unset for both values.
	var fallbackSpeed, scaleFactor float64
	if q.fallbackSpeedSet {
		fallbackSpeed = q.fallbackSpeed
	}
	if q.scaleFactorSet {
		scaleFactor = q.scaleFactor
	}

	return C.osrm_table(b.instance,
		coords, nCoords,
		sources, nSources,
		destinations, nDestinations,
		C.int(q.annotations), C.double(fallbackSpeed), C.int(q.fallbackCoordinate), C.double(scaleFactor),
		p.bearings, p.nBearings,
		p.radiuses, p.nRadiuses,
		p.hints, p.nHints,
		p.approaches, p.nApproaches,
		C.bool(q.generateHints),
		excludes, nExcludes,
		C.int(q.snapping))
}

func (b *cgoBoundary) nearest(a *cAllocator, q *flatQuery) C.osrm_result {
	p := a.points(q)
	excludes, nExcludes := a.strings(excludeNames(q.excludes))

	var snapping *C.int
	if q.snappingSet {
		snapping = (*C.int)(a.alloc(C.size_t(unsafe.Sizeof(C.int(0)))))
		*snapping = C.int(q.snapping)
	}

	return C.osrm_nearest(b.instance,
		C.double(q.coords[0][0]), C.double(q.coords[0][1]), C.uint64_t(q.number),
		p.bearings, p.radiuses, p.approaches,
		excludes, nExcludes,
		snapping)
}

// cPoints holds the per-point option arrays of one call. A nil pointer with
// a zero count leaves the option to the engine default.
type cPoints struct {
	bearings    *C.osrm_bearing
	nBearings   C.size_t
	radiuses    *C.double
	nRadiuses   C.size_t
	hints       *C.osrm_string
	nHints      C.size_t
	approaches  *C.uint8_t
	nApproaches C.size_t
}

func (a *cAllocator) points(q *flatQuery) cPoints {
	var p cPoints

	if n := len(q.bearings); n > 0 {
		bearings := unsafe.Slice((*C.osrm_bearing)(a.alloc(C.size_t(n)*C.sizeof_osrm_bearing)), n)
		for i, b := range q.bearings {
			if b.set {
				bearings[i].bearing = C.short(b.angle)
				bearings[i].rng = C.short(b.rng)
			}
		}
		p.bearings, p.nBearings = &bearings[0], C.size_t(n)
	}

	if n := len(q.radiuses); n > 0 {
		radiuses := unsafe.Slice((*C.double)(a.alloc(C.size_t(n)*C.sizeof_double)), n)
		for i, r := range q.radiuses {
			radiuses[i] = C.double(r)
		}
		p.radiuses, p.nRadiuses = &radiuses[0], C.size_t(n)
	}

	p.hints, p.nHints = a.strings(q.hints)

	if n := len(q.approaches); n > 0 {
		approaches := unsafe.Slice((*C.uint8_t)(a.alloc(C.size_t(n))), n)
		for i, v := range q.approaches {
			approaches[i] = C.uint8_t(v)
		}
		p.approaches, p.nApproaches = &approaches[0], C.size_t(n)
	}

	return p
}

func excludeNames(excludes []flatExclude) []string {
	out := make([]string, len(excludes))
	for i, e := range excludes {
		out[i] = e.class
	}
	return out
}

// cAllocator tracks C allocations for one query so Go memory never crosses
// the boundary.
type cAllocator struct {
	ptrs []unsafe.Pointer
}

func (a *cAllocator) alloc(size C.size_t) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	p := C.calloc(1, size)
	a.ptrs = append(a.ptrs, p)
	return p
}

func (a *cAllocator) free() {
	for _, p := range a.ptrs {
		C.free(p)
	}
}

func (a *cAllocator) coords(coords [][2]float64) (*C.double, C.size_t) {
	n := len(coords)
	if n == 0 {
		return nil, 0
	}
	out := unsafe.Slice((*C.double)(a.alloc(C.size_t(2*n)*C.sizeof_double)), 2*n)
	for i, c := range coords {
		out[2*i] = C.double(c[0])
		out[2*i+1] = C.double(c[1])
	}
	return &out[0], C.size_t(n)
}

// strings copies values into length-prefixed byte views; the engine reads
// an empty view as unset.
func (a *cAllocator) strings(values []string) (*C.osrm_string, C.size_t) {
	n := len(values)
	if n == 0 {
		return nil, 0
	}
	out := unsafe.Slice((*C.osrm_string)(a.alloc(C.size_t(n)*C.sizeof_osrm_string)), n)
	for i, v := range values {
		if v == "" {
			continue
		}
		buf := unsafe.Slice((*byte)(a.alloc(C.size_t(len(v)))), len(v))
		copy(buf, v)
		out[i].len = C.size_t(len(v))
		out[i].pointer = (*C.uint8_t)(unsafe.Pointer(&buf[0]))
	}
	return &out[0], C.size_t(n)
}

func (a *cAllocator) uint64s(values []uint64) (*C.uint64_t, C.size_t) {
	n := len(values)
	if n == 0 {
		return nil, 0
	}
	out := unsafe.Slice((*C.uint64_t)(a.alloc(C.size_t(n)*C.size_t(unsafe.Sizeof(C.uint64_t(0))))), n)
	for i, v := range values {
		out[i] = C.uint64_t(v)
	}
	return &out[0], C.size_t(n)
}

func (a *cAllocator) sizes(values []uint64) (*C.size_t, C.size_t) {
	n := len(values)
	if n == 0 {
		return nil, 0
	}
	out := unsafe.Slice((*C.size_t)(a.alloc(C.size_t(n)*C.size_t(unsafe.Sizeof(C.size_t(0))))), n)
	for i, v := range values {
		out[i] = C.size_t(v)
	}
	return &out[0], C.size_t(n)
}
