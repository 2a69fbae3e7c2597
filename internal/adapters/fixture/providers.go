// Package fixture provides deterministic offline stand-ins for the routing
// and place providers. It is selected explicitly with providers.offline.
package fixture

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/poi"
	"github.com/samirrijal/accessroute/internal/pkg/geospatial"
)

// PaceMetersPerSecond is the assumed wheelchair travel speed.
const PaceMetersPerSecond = 1.0

const isochroneVertices = 32

// Provider implements the directions, isochrone, POI and place lookup ports.
type Provider struct{}

// New returns a fixture provider.
func New() *Provider { return &Provider{} }

// Directions returns a single straight-line route from the first to the last
// coordinate of the request.
func (p *Provider) Directions(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.DirectionsResponse{}, err
	}
	if len(req.Coordinates) < 2 {
		return domain.DirectionsResponse{}, domain.ErrInvalidRequest
	}
	from, to := req.Coordinates[0], req.Coordinates[len(req.Coordinates)-1]
	dist := geospatial.Distance(from.Lat, from.Lon, to.Lat, to.Lon)
	dur := dist / PaceMetersPerSecond

	return domain.DirectionsResponse{Routes: []domain.ProviderRoute{{
		DistanceMeters:  dist,
		DurationSeconds: dur,
		Geometry:        orb.LineString{from.Point(), to.Point()},
		Maneuvers: []domain.Maneuver{{
			Instruction:     "Head towards your destination",
			DistanceMeters:  dist,
			DurationSeconds: dur,
			TypeCode:        11,
			Segment: domain.Segment{
				DistanceMeters: dist,
				Surface:        domain.SurfacePaved,
				Crossing:       domain.CrossingNone,
			},
		}},
	}}}, nil
}

// Isochrone returns a circle whose radius is the distance covered at the
// fixture pace within rangeSeconds.
func (p *Provider) Isochrone(ctx context.Context, center domain.Coordinate, _ domain.Profile, rangeSeconds int) (*domain.Isochrone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	radius := float64(rangeSeconds) * PaceMetersPerSecond
	ring := make(orb.Ring, 0, isochroneVertices+1)
	for i := 0; i < isochroneVertices; i++ {
		bearing := 2 * math.Pi * float64(i) / isochroneVertices
		ring = append(ring, offset(center, radius*math.Cos(bearing), radius*math.Sin(bearing)).Point())
	}
	ring = append(ring, ring[0])
	poly := orb.Polygon{ring}

	return &domain.Isochrone{
		Center:           center,
		RangeSeconds:     rangeSeconds,
		Polygon:          poly,
		AreaSquareMeters: geospatial.PolygonArea(poly),
	}, nil
}

// Nodes returns the fixed places inside the query's bounding box, honouring
// the wheelchair filter.
func (p *Provider) Nodes(ctx context.Context, q domain.POIQuery) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	box, err := poi.BoundingBox(q)
	if err != nil {
		return nil, err
	}
	var out []domain.Place
	for _, pl := range placesAround(q.Center) {
		if box.Contains(pl.Location) && matchesWheelchair(pl, q.Wheelchair) {
			out = append(out, pl)
		}
	}
	return out, nil
}

var aroundRe = regexp.MustCompile(`around:([-\d.]+),([-\d.]+),([-\d.]+)`)

// QueryPlaces reads the center and radius back out of an Overpass query and
// answers from the fixed place set. Toilet queries only see toilets.
func (p *Provider) QueryPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := aroundRe.FindStringSubmatch(query)
	if m == nil {
		return nil, domain.ErrInvalidRequest
	}
	radius, err1 := strconv.ParseFloat(m[1], 64)
	lat, err2 := strconv.ParseFloat(m[2], 64)
	lon, err3 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, domain.ErrInvalidRequest
	}
	center := domain.Coordinate{Lat: lat, Lon: lon}
	toilets := strings.Contains(query, `"amenity"="toilets"`)
	limited := strings.Contains(query, "limited")

	var out []domain.Place
	for _, pl := range placesAround(center) {
		if toilets && pl.Category != "toilets" {
			continue
		}
		if pl.Wheelchair != domain.WheelchairYes && !(limited && pl.Wheelchair == domain.WheelchairLimited) {
			continue
		}
		if geospatial.Distance(lat, lon, pl.Location.Lat, pl.Location.Lon) > radius {
			continue
		}
		out = append(out, pl)
	}
	return out, nil
}

type seed struct {
	id, name, category, kind string
	north, east              float64
	wheelchair, toilet       domain.Wheelchair
}

var seeds = []seed{
	{"fixture-1", "Central Library", "education", "library", 120, 80, domain.WheelchairYes, domain.WheelchairYes},
	{"fixture-2", "Riverside Cafe", "food", "cafe", -60, 150, domain.WheelchairLimited, ""},
	{"fixture-3", "Old Town Museum", "tourism", "museum", 300, -220, domain.WheelchairNo, domain.WheelchairNo},
	{"fixture-4", "Public Toilets", "toilets", "toilets", -150, -90, domain.WheelchairYes, domain.WheelchairYes},
	{"fixture-5", "Corner Pharmacy", "health", "pharmacy", 40, -30, domain.WheelchairUnknown, ""},
	{"fixture-6", "Park Toilets", "toilets", "toilets", 900, 600, domain.WheelchairLimited, ""},
}

func placesAround(center domain.Coordinate) []domain.Place {
	out := make([]domain.Place, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, domain.Place{
			ID:               s.id,
			Name:             s.name,
			Location:         offset(center, s.north, s.east),
			Category:         s.category,
			Type:             s.kind,
			Wheelchair:       s.wheelchair,
			WheelchairToilet: s.toilet,
		})
	}
	return out
}

func matchesWheelchair(p domain.Place, filter domain.Wheelchair) bool {
	switch filter {
	case "":
		return true
	case domain.WheelchairLimited:
		return p.Wheelchair == domain.WheelchairYes || p.Wheelchair == domain.WheelchairLimited
	}
	return p.Wheelchair == filter
}

// offset moves c by the given metres north and east.
func offset(c domain.Coordinate, north, east float64) domain.Coordinate {
	dLat := north / geospatial.MetersPerDegree
	dLon := east / (geospatial.MetersPerDegree * math.Cos(c.Lat*math.Pi/180))
	return domain.Coordinate{Lat: c.Lat + dLat, Lon: c.Lon + dLon}
}
