package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGeometry_Polyline(t *testing.T) {
	g, err := DecodeGeometry([]byte(`"abc123"`))
	require.NoError(t, err)

	s, ok := g.Polyline()
	require.True(t, ok)
	assert.Equal(t, "abc123", s)
	assert.Equal(t, GeometryKindPolyline, g.Kind())
}

func TestDecodeGeometry_GeoJSON(t *testing.T) {
	g, err := DecodeGeometry([]byte(`{"type":"LineString","coordinates":[[1.0,2.0],[3.0,4.0]]}`))
	require.NoError(t, err)

	line, ok := g.LineString()
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{1, 2}, {3, 4}}, line)
}

func TestDecodeGeometry_LeadingWhitespace(t *testing.T) {
	g, err := DecodeGeometry([]byte("  \n {\"type\":\"LineString\",\"coordinates\":[[1,2]]}"))
	require.NoError(t, err)
	assert.Equal(t, GeometryKindGeoJSON, g.Kind())
}

func TestDecodeGeometry_StringEncodedGeoJSON(t *testing.T) {
	raw := `"{\"type\":\"LineString\",\"coordinates\":[[5.5,6.5],[7.5,8.5]]}"`
	g, err := DecodeGeometry([]byte(raw))
	require.NoError(t, err)

	line, ok := g.LineString()
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{5.5, 6.5}, {7.5, 8.5}}, line)
}

func TestDecodeGeometry_PolylineStartingWithBrace(t *testing.T) {
	// '{' is part of the polyline alphabet.
	g, err := DecodeGeometry([]byte(`"{ueoH_ulr@"`))
	require.NoError(t, err)

	s, ok := g.Polyline()
	require.True(t, ok)
	assert.Equal(t, "{ueoH_ulr@", s)
}

func TestDecodeGeometry_Unrecognized(t *testing.T) {
	for _, raw := range []string{`42`, `[1,2]`, `true`, ``, `   `} {
		_, err := DecodeGeometry([]byte(raw))
		require.Error(t, err, "raw=%q", raw)
		assert.True(t, errors.Is(err, ErrUnrecognizedGeometry), "raw=%q", raw)
		assert.True(t, errors.Is(err, ErrDecode), "raw=%q", raw)
	}
}

func TestDecodeGeometry_SyntaxErrorPosition(t *testing.T) {
	raw := "{\"type\":\"LineString\",\n\"coordinates\":[[1,2],[3,x]]}"
	_, err := DecodeGeometry([]byte(raw))
	require.Error(t, err)

	var decErr *GeometryDecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 2, decErr.Line)
	assert.Greater(t, decErr.Column, 1)
	assert.Contains(t, decErr.Excerpt, "[3,x")

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestDecodeGeometry_TruncatedPayloadExcerpt(t *testing.T) {
	raw := `{"type":"LineString","coordinates":[[1.0,2.0],[3.0,4.0]`
	_, err := DecodeGeometry([]byte(raw))

	var decErr *GeometryDecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, int64(len(raw)), decErr.Offset)
	assert.Equal(t, raw[:10]+"..."+raw[len(raw)-10:], decErr.Excerpt)
}

func TestDecodeGeometry_NotALineString(t *testing.T) {
	_, err := DecodeGeometry([]byte(`{"type":"Point","coordinates":[1,2]}`))
	assert.True(t, errors.Is(err, ErrUnrecognizedGeometry))
}

func TestGeometryJSONRoundTrip(t *testing.T) {
	type holder struct {
		Geometry *Geometry `json:"geometry,omitempty"`
	}

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"geometry":"_p~iF~ps|U_ulLnnqC"}`), &h))
	require.NotNil(t, h.Geometry)
	assert.Equal(t, GeometryKindPolyline, h.Geometry.Kind())

	require.NoError(t, json.Unmarshal([]byte(`{"geometry":null}`), &h))
	assert.Nil(t, h.Geometry)

	line := GeoJSONGeometry(orb.LineString{{1, 2}, {3, 4}})
	out, err := json.Marshal(holder{Geometry: &line})
	require.NoError(t, err)
	assert.JSONEq(t, `{"geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]}}`, string(out))
}

func TestGeometryPoints_Polyline(t *testing.T) {
	// Reference value from the polyline algorithm description.
	g := PolylineGeometry("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	pts, err := g.Points(GeometryPolyline)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.InDelta(t, 38.5, pts[0].Lat(), 1e-9)
	assert.InDelta(t, -120.2, pts[0].Lon(), 1e-9)
	assert.InDelta(t, -126.453, pts[2].Lon(), 1e-9)
}

func TestEncodePolyline_Precision6(t *testing.T) {
	line := orb.LineString{{10.316550, 48.040437}, {9.052887, 49.006101}}
	g := PolylineGeometry(EncodePolyline(line, GeometryPolyline6))

	pts, err := g.Points(GeometryPolyline6)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.InDelta(t, 48.040437, pts[0].Lat(), 1e-6)
	assert.InDelta(t, 9.052887, pts[1].Lon(), 1e-6)
}
