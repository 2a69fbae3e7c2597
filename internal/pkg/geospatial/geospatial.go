package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MetersPerDegree is the equirectangular approximation used for search boxes.
const MetersPerDegree = 111000.0

// Distance returns the great-circle distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// BoundingBox returns a box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / MetersPerDegree
	lonDelta := radiusMeters / (MetersPerDegree * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// LineLength sums the great-circle length of a line in meters.
func LineLength(ls orb.LineString) float64 {
	return geo.LengthHaversine(ls)
}

// PolygonArea returns the approximate area of a polygon in square meters.
func PolygonArea(p orb.Polygon) float64 {
	return math.Abs(geo.Area(p))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
