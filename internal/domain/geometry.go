package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

// ErrUnrecognizedGeometry is returned for payloads that are neither a
// polyline string nor a GeoJSON object.
var ErrUnrecognizedGeometry = errors.New("geometry is neither an encoded polyline nor a GeoJSON object")

const excerptRadius = 20

type GeometryKind uint8

const (
	GeometryKindNone GeometryKind = iota
	GeometryKindPolyline
	GeometryKindGeoJSON
)

// Geometry is a path geometry as returned by the engine: either an encoded
// polyline or a GeoJSON LineString.
type Geometry struct {
	kind     GeometryKind
	polyline string
	line     orb.LineString
}

func PolylineGeometry(encoded string) Geometry {
	return Geometry{kind: GeometryKindPolyline, polyline: encoded}
}

func GeoJSONGeometry(line orb.LineString) Geometry {
	return Geometry{kind: GeometryKindGeoJSON, line: line.Clone()}
}

func (g Geometry) Kind() GeometryKind { return g.kind }

func (g Geometry) Polyline() (string, bool) {
	return g.polyline, g.kind == GeometryKindPolyline
}

func (g Geometry) LineString() (orb.LineString, bool) {
	if g.kind != GeometryKindGeoJSON {
		return nil, false
	}
	return g.line.Clone(), true
}

// Points returns the path as lon/lat points. Polylines are decoded with the
// precision implied by t.
func (g Geometry) Points(t GeometryType) (orb.LineString, error) {
	switch g.kind {
	case GeometryKindGeoJSON:
		return g.line.Clone(), nil
	case GeometryKindPolyline:
		codec := polyline.Codec{Dim: 2, Scale: 1e5}
		if t == GeometryPolyline6 {
			codec.Scale = 1e6
		}
		coords, rest, err := codec.DecodeCoords([]byte(g.polyline))
		if err != nil {
			return nil, fmt.Errorf("decode polyline: %w", err)
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
		}
		out := make(orb.LineString, 0, len(coords))
		for _, c := range coords {
			out = append(out, orb.Point{c[1], c[0]})
		}
		return out, nil
	}
	return nil, nil
}

// EncodePolyline encodes lon/lat points with the precision implied by t.
func EncodePolyline(points orb.LineString, t GeometryType) string {
	codec := polyline.Codec{Dim: 2, Scale: 1e5}
	if t == GeometryPolyline6 {
		codec.Scale = 1e6
	}
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat(), p.Lon()})
	}
	return string(codec.EncodeCoords(nil, coords))
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	switch g.kind {
	case GeometryKindPolyline:
		return json.Marshal(g.polyline)
	case GeometryKindGeoJSON:
		return json.Marshal(geojson.NewGeometry(g.line))
	}
	return []byte("null"), nil
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	decoded, err := DecodeGeometry(data)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

// DecodeGeometry detects the wire form of a geometry value from its first
// non-whitespace bytes:
//
//	{     GeoJSON LineString object
//	"{    a GeoJSON object that was encoded as a JSON string
//	"     encoded polyline
//
// Anything else fails with ErrUnrecognizedGeometry.
func DecodeGeometry(raw []byte) (Geometry, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	lead := len(raw) - len(trimmed)
	if len(trimmed) == 0 {
		return Geometry{}, newGeometryDecodeError(raw, int64(len(raw)), ErrUnrecognizedGeometry)
	}

	switch trimmed[0] {
	case '{':
		return decodeLineString(raw)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Geometry{}, newGeometryDecodeError(raw, jsonErrorOffset(err, lead), err)
		}
		if isEmbeddedObject(s) {
			return decodeLineString([]byte(s))
		}
		return PolylineGeometry(s), nil
	default:
		return Geometry{}, newGeometryDecodeError(raw, int64(lead), ErrUnrecognizedGeometry)
	}
}

// isEmbeddedObject reports whether a decoded string holds a JSON object.
// Polyline alphabets never contain a double quote, while any object with a
// member does.
func isEmbeddedObject(s string) bool {
	inner := strings.TrimLeft(s, " \t\r\n")
	return strings.HasPrefix(inner, "{") && strings.Contains(inner, `"`)
}

func decodeLineString(data []byte) (Geometry, error) {
	var g geojson.Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return Geometry{}, newGeometryDecodeError(data, jsonErrorOffset(err, 0), err)
	}

	line, ok := g.Coordinates.(orb.LineString)
	if !ok {
		return Geometry{}, newGeometryDecodeError(data, 0,
			fmt.Errorf("%w: GeoJSON type %q is not a LineString", ErrUnrecognizedGeometry, g.Type))
	}
	return Geometry{kind: GeometryKindGeoJSON, line: line}, nil
}

func jsonErrorOffset(err error, base int) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return int64(base) + syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return int64(base) + typeErr.Offset
	}
	return int64(base)
}

// GeometryDecodeError locates a geometry decode failure inside the payload.
// Line and Column are 1-based. Excerpt holds the surrounding text, or the
// head and tail of the payload when the failure is at its end.
type GeometryDecodeError struct {
	Offset  int64
	Line    int
	Column  int
	Excerpt string
	Err     error
}

func newGeometryDecodeError(data []byte, offset int64, err error) *GeometryDecodeError {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	line, col := 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}

	return &GeometryDecodeError{
		Offset:  offset,
		Line:    line,
		Column:  col,
		Excerpt: excerpt(data, int(offset)),
		Err:     err,
	}
}

func excerpt(data []byte, offset int) string {
	if offset >= len(data) {
		const edge = 10
		if len(data) <= 2*edge {
			return string(data)
		}
		return string(data[:edge]) + "..." + string(data[len(data)-edge:])
	}

	start := max(offset-excerptRadius, 0)
	end := min(offset+excerptRadius, len(data))
	return string(data[start:end])
}

func (e *GeometryDecodeError) Error() string {
	return fmt.Sprintf("decode geometry at line %d column %d (offset %d) near %q: %v",
		e.Line, e.Column, e.Offset, e.Excerpt, e.Err)
}

func (e *GeometryDecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
