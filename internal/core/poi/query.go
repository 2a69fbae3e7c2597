// Package poi builds point-of-interest searches around a center point and
// ranks the places that come back.
package poi

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/pkg/geospatial"
)

// Default search radii in meters.
const (
	DefaultPOIRadius    = 1000.0
	DefaultToiletRadius = 2000.0
)

// WheelmapLimit caps the node lookup result size.
const WheelmapLimit = 50

const overpassTimeoutSeconds = 25

// Amenity selects which OSM amenities an Overpass query matches.
type Amenity string

const (
	AnyAmenity Amenity = ""
	Toilets    Amenity = "toilets"
)

// Validate checks the center and radius of q.
func Validate(q domain.POIQuery) error {
	if math.IsNaN(q.RadiusMeters) || q.RadiusMeters <= 0 {
		return fmt.Errorf("%w (got %v)", domain.ErrInvalidRadius, q.RadiusMeters)
	}
	if !q.Center.Valid() {
		return fmt.Errorf("%w: center %v out of range", domain.ErrInvalidRequest, q.Center)
	}
	switch q.Wheelchair {
	case "", domain.WheelchairYes, domain.WheelchairLimited:
	default:
		return fmt.Errorf("%w: wheelchair filter must be yes or limited", domain.ErrInvalidRequest)
	}
	return nil
}

// BoundingBox approximates the search circle of q with a lat/lon box.
func BoundingBox(q domain.POIQuery) (domain.BoundingBox, error) {
	if err := Validate(q); err != nil {
		return domain.BoundingBox{}, err
	}
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(q.Center.Lat, q.Center.Lon, q.RadiusMeters)
	return domain.BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}, nil
}

// BBoxParam formats a box as "minLon,minLat,maxLon,maxLat".
func BBoxParam(b domain.BoundingBox) string {
	return strings.Join([]string{
		formatFloat(b.MinLon), formatFloat(b.MinLat),
		formatFloat(b.MaxLon), formatFloat(b.MaxLat),
	}, ",")
}

// WheelmapParams returns the node lookup parameters for q, without the api key.
func WheelmapParams(q domain.POIQuery) (url.Values, error) {
	box, err := BoundingBox(q)
	if err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("bbox", BBoxParam(box))
	v.Set("limit", strconv.Itoa(WheelmapLimit))
	if q.Wheelchair != "" {
		v.Set("wheelchair", string(q.Wheelchair))
	}
	return v, nil
}

// OverpassQuery renders an Overpass QL query for accessible amenities within
// the radius of q. Toilet searches cover nodes and ways; other searches also
// include relations.
func OverpassQuery(q domain.POIQuery, amenity Amenity) (string, error) {
	if err := Validate(q); err != nil {
		return "", err
	}

	amenityTag := `["amenity"]`
	elements := []string{"node", "way", "relation"}
	if amenity != AnyAmenity {
		amenityTag = fmt.Sprintf(`["amenity"=%q]`, string(amenity))
		elements = elements[:2]
	}

	wheelchairTag := `["wheelchair"="yes"]`
	if q.Wheelchair == domain.WheelchairLimited {
		wheelchairTag = `["wheelchair"~"^(yes|limited)$"]`
	}

	around := fmt.Sprintf("(around:%s,%s,%s)",
		formatFloat(q.RadiusMeters), formatFloat(q.Center.Lat), formatFloat(q.Center.Lon))

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", overpassTimeoutSeconds)
	for _, el := range elements {
		fmt.Fprintf(&b, "  %s%s%s%s;\n", el, amenityTag, wheelchairTag, around)
	}
	b.WriteString(");\nout geom;\n")
	return b.String(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
