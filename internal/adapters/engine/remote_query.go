package engine

import (
	"fmt"
	"net/url"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/services"
	"strconv"
	"strings"
)

// RequestURL returns the URL the engine would request for req, without
// validating it.
func (r *RemoteEngine) RequestURL(req services.Request) (string, error) {
	switch req := req.(type) {
	case services.RouteRequest:
		return r.routeURL(req), nil
	case services.TripRequest:
		return r.tripURL(req), nil
	case services.MatchRequest:
		return r.matchURL(req), nil
	case services.TableRequest:
		return r.tableURL(req), nil
	case services.NearestRequest:
		return r.nearestURL(req), nil
	}
	return "", fmt.Errorf("unsupported request type %T", req)
}

// query keeps parameters in insertion order so equal requests give equal
// URLs.
type query struct {
	parts []string
}

func (q *query) set(key, value string) {
	q.parts = append(q.parts, key+"="+value)
}

func (q *query) setBool(key string, v bool) {
	q.set(key, strconv.FormatBool(v))
}

func (q *query) String() string { return strings.Join(q.parts, "&") }

func (r *RemoteEngine) url(service domain.Service, points []domain.Coordinate, q *query) string {
	return fmt.Sprintf("%s/%s/v1/%s/%s?%s", r.endpoint, service, r.profile, formatCoordinates(points), q)
}

func (r *RemoteEngine) routeURL(req services.RouteRequest) string {
	q := &query{}
	q.setBool("alternatives", req.Alternatives())
	q.setBool("steps", req.Steps())
	q.setBool("annotations", req.Annotations())
	q.set("geometries", req.Geometry().String())
	q.set("overview", req.Overview().String())
	q.setBool("continue_straight", req.ContinueStraight())
	if wps := req.Waypoints(); wps != nil {
		q.set("waypoints", joinInts(wps))
	}
	setPointOptions(q, req.Bearings(), req.Radiuses(), req.Hints(), req.Approaches())
	setQueryOptions(q, req.GenerateHints(), req.Exclude(), snappingOf(req.Snapping()), req.SkipWaypoints())
	return r.url(domain.ServiceRoute, req.Points(), q)
}

func (r *RemoteEngine) tripURL(req services.TripRequest) string {
	q := &query{}
	q.setBool("roundtrip", req.Roundtrip())
	q.set("source", req.Source().String())
	q.set("destination", req.Destination().String())
	q.setBool("steps", req.Steps())
	q.setBool("annotations", req.Annotations())
	q.set("geometries", req.Geometry().String())
	q.set("overview", req.Overview().String())
	setPointOptions(q, req.Bearings(), req.Radiuses(), req.Hints(), req.Approaches())
	setQueryOptions(q, req.GenerateHints(), req.Exclude(), snappingOf(req.Snapping()), req.SkipWaypoints())
	return r.url(domain.ServiceTrip, req.Points(), q)
}

func (r *RemoteEngine) matchURL(req services.MatchRequest) string {
	q := &query{}
	q.setBool("steps", req.Steps())
	q.set("geometries", req.Geometry().String())
	q.setBool("annotations", req.Annotations())
	q.set("overview", req.Overview().String())
	if ts := req.Timestamps(); ts != nil {
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = strconv.FormatInt(t, 10)
		}
		q.set("timestamps", strings.Join(parts, ";"))
	}
	q.set("gaps", req.Gaps().String())
	q.setBool("tidy", req.Tidy())
	if wps := req.Waypoints(); wps != nil {
		q.set("waypoints", joinInts(wps))
	}
	setPointOptions(q, req.Bearings(), req.Radiuses(), req.Hints(), req.Approaches())
	setQueryOptions(q, req.GenerateHints(), req.Exclude(), snappingOf(req.Snapping()), req.SkipWaypoints())
	return r.url(domain.ServiceMatch, req.Points(), q)
}

// tableURL sends sources followed by destinations as one coordinate list
// and addresses them by index. Per-point options of both sides are merged
// the same way, with empty segments for the side that left them unset.
func (r *RemoteEngine) tableURL(req services.TableRequest) string {
	sources, destinations := req.Sources(), req.Destinations()
	ns, nd := len(sources), len(destinations)

	q := &query{}
	q.set("sources", joinInts(indexRange(0, ns)))
	q.set("destinations", joinInts(indexRange(ns, ns+nd)))
	q.set("annotations", req.Annotations().String())
	if speed, ok := req.FallbackSpeed(); ok {
		q.set("fallback_speed", formatFloat(speed))
	}
	if coord, ok := req.FallbackCoordinate(); ok {
		q.set("fallback_coordinate", coord.String())
	}
	if factor, ok := req.ScaleFactor(); ok {
		q.set("scale_factor", formatFloat(factor))
	}

	if b := mergeSegments(bearingSegments(req.SourceBearings()), bearingSegments(req.DestinationBearings()), ns, nd); b != nil {
		q.set("bearings", strings.Join(b, ";"))
	}
	if rs := mergeSegments(radiusSegments(req.SourceRadiuses()), radiusSegments(req.DestinationRadiuses()), ns, nd); rs != nil {
		q.set("radiuses", strings.Join(rs, ";"))
	}
	q.setBool("generate_hints", req.GenerateHints())
	if h := mergeSegments(hintSegments(req.SourceHints()), hintSegments(req.DestinationHints()), ns, nd); h != nil {
		q.set("hints", strings.Join(h, ";"))
	}
	if a := mergeSegments(approachSegments(req.SourceApproaches()), approachSegments(req.DestinationApproaches()), ns, nd); a != nil {
		q.set("approaches", strings.Join(a, ";"))
	}
	if ex := req.Exclude(); len(ex) > 0 {
		q.set("exclude", joinExclude(ex))
	}
	if s, ok := req.Snapping(); ok {
		q.set("snapping", s.String())
	}

	points := append(sources, destinations...)
	return r.url(domain.ServiceTable, points, q)
}

func (r *RemoteEngine) nearestURL(req services.NearestRequest) string {
	q := &query{}
	q.set("number", strconv.Itoa(req.Number()))
	if b := req.Bearing(); b.IsSet() {
		q.set("bearings", b.String())
	}
	if rad := req.Radius(); domain.IsRadiusSet(rad) {
		q.set("radiuses", formatFloat(rad))
	}
	if a, ok := req.Approach(); ok {
		q.set("approaches", a.String())
	}
	if ex := req.Exclude(); len(ex) > 0 {
		q.set("exclude", joinExclude(ex))
	}
	if s, ok := req.Snapping(); ok {
		q.set("snapping", s.String())
	}
	return r.url(domain.ServiceNearest, []domain.Coordinate{req.Point()}, q)
}

func setPointOptions(q *query, bearings []domain.Bearing, radiuses []float64, hints []string, approaches []domain.Approach) {
	if bearings != nil {
		q.set("bearings", strings.Join(bearingSegments(bearings), ";"))
	}
	if radiuses != nil {
		q.set("radiuses", strings.Join(radiusSegments(radiuses), ";"))
	}
	if hints != nil {
		q.set("hints", strings.Join(hintSegments(hints), ";"))
	}
	if approaches != nil {
		q.set("approaches", strings.Join(approachSegments(approaches), ";"))
	}
}

// hintSegments escapes each hint so separators inside an opaque token
// cannot shift the per-point alignment.
func hintSegments(hints []string) []string {
	if hints == nil {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = url.QueryEscape(h)
	}
	return out
}

func setQueryOptions(q *query, generateHints bool, exclude []domain.Exclude, snapping *domain.Snapping, skipWaypoints bool) {
	q.setBool("generate_hints", generateHints)
	if len(exclude) > 0 {
		q.set("exclude", joinExclude(exclude))
	}
	if snapping != nil {
		q.set("snapping", snapping.String())
	}
	q.setBool("skip_waypoints", skipWaypoints)
}

func snappingOf(s domain.Snapping, ok bool) *domain.Snapping {
	if !ok {
		return nil
	}
	return &s
}

// formatCoordinates renders "lon,lat;lon,lat" with 6 decimals.
func formatCoordinates(points []domain.Coordinate) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.6f,%.6f", p.Lon(), p.Lat())
	}
	return strings.Join(parts, ";")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// mergeSegments concatenates the per-point segments of both table sides.
// A side that left the option unset contributes empty segments. Returns nil
// when both sides are unset.
func mergeSegments(src, dst []string, ns, nd int) []string {
	if src == nil && dst == nil {
		return nil
	}
	if src == nil {
		src = make([]string, ns)
	}
	if dst == nil {
		dst = make([]string, nd)
	}
	out := make([]string, 0, ns+nd)
	out = append(out, src...)
	return append(out, dst...)
}

// bearingSegments renders "angle,range" per point, empty when unset.
func bearingSegments(bearings []domain.Bearing) []string {
	if bearings == nil {
		return nil
	}
	out := make([]string, len(bearings))
	for i, b := range bearings {
		out[i] = b.String()
	}
	return out
}

// radiusSegments renders unlimited radii as empty segments.
func radiusSegments(radiuses []float64) []string {
	if radiuses == nil {
		return nil
	}
	out := make([]string, len(radiuses))
	for i, r := range radiuses {
		if domain.IsRadiusSet(r) {
			out[i] = formatFloat(r)
		}
	}
	return out
}

func approachSegments(approaches []domain.Approach) []string {
	if approaches == nil {
		return nil
	}
	out := make([]string, len(approaches))
	for i, a := range approaches {
		out[i] = a.String()
	}
	return out
}

func joinExclude(exclude []domain.Exclude) string {
	parts := make([]string, len(exclude))
	for i, e := range exclude {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ";")
}

func indexRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
