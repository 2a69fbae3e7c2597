package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// Coordinate is a WGS 84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within lat [-90,90] and lon [-180,180].
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Point returns the coordinate as an orb point (lon, lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// CoordinateFromPoint converts an orb point back to a Coordinate.
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

// BoundingBox is a rectangular lat/lon region.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Bound returns the box as an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// Contains reports whether c falls inside the box (edges inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return b.Bound().Contains(c.Point())
}
