package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinate. Latitude is within [-90, 90] and
// longitude within [-180, 180] unless built with UncheckedCoordinate.
type Coordinate struct {
	lat float64
	lon float64
}

// NewCoordinate validates the pair and returns a Coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinate{}, &ValueError{
			Kind:   ErrCoordinateOutOfRange,
			Detail: fmt.Sprintf("latitude %v must be within [-90, 90]", lat),
		}
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Coordinate{}, &ValueError{
			Kind:   ErrCoordinateOutOfRange,
			Detail: fmt.Sprintf("longitude %v must be within [-180, 180]", lon),
		}
	}
	return Coordinate{lat: lat, lon: lon}, nil
}

// MustCoordinate is NewCoordinate for literals known to be in range.
func MustCoordinate(lat, lon float64) Coordinate {
	c, err := NewCoordinate(lat, lon)
	if err != nil {
		panic(err)
	}
	return c
}

// UncheckedCoordinate skips bounds checking. Use it only for values already
// validated upstream, such as locations echoed back by the engine.
func UncheckedCoordinate(lat, lon float64) Coordinate {
	return Coordinate{lat: lat, lon: lon}
}

func (c Coordinate) Lat() float64 { return c.lat }
func (c Coordinate) Lon() float64 { return c.lon }

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinate) LonLat() [2]float64 { return [2]float64{c.lon, c.lat} }

// Point converts the coordinate to an orb point (lon, lat order).
func (c Coordinate) Point() orb.Point { return orb.Point{c.lon, c.lat} }

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.lat, c.lon)
}

// CoordinateFromLonLat builds an unchecked coordinate from an engine
// location pair.
func CoordinateFromLonLat(loc [2]float64) Coordinate {
	return UncheckedCoordinate(loc[1], loc[0])
}
