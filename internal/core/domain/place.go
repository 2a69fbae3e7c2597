package domain

// Wheelchair is the OSM/Wheelmap wheelchair tag value.
type Wheelchair string

const (
	WheelchairYes     Wheelchair = "yes"
	WheelchairLimited Wheelchair = "limited"
	WheelchairNo      Wheelchair = "no"
	WheelchairUnknown Wheelchair = "unknown"
)

// POIQuery describes a radius search around a point. Wheelchair is empty
// when no accessibility filter was requested.
type POIQuery struct {
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
	Wheelchair   Wheelchair `json:"wheelchair,omitempty"`
}

// Place is a point of interest with accessibility metadata.
type Place struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Location           Coordinate `json:"location"`
	Category           string     `json:"category,omitempty"`
	Type               string     `json:"type,omitempty"`
	Wheelchair         Wheelchair `json:"wheelchair"`
	WheelchairToilet   Wheelchair `json:"wheelchair_toilet,omitempty"`
	Website            string     `json:"website,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	AccessibilityScore int        `json:"accessibility_score"`
	Distance           *float64   `json:"distance,omitempty"` // computed field
}

// PlaceSort selects the ordering of place results.
type PlaceSort string

const (
	SortByDistance      PlaceSort = "distance"
	SortByAccessibility PlaceSort = "accessibility"
)

// PlaceFilter narrows a nearby-places result set.
type PlaceFilter struct {
	Category string    `json:"category,omitempty"`
	Search   string    `json:"search,omitempty"`
	SortBy   PlaceSort `json:"sort_by,omitempty"`
	Limit    int       `json:"limit,omitempty"`
}
