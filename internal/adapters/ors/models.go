package ors

import "github.com/paulmach/orb/geojson"

type directionsBody struct {
	Coordinates       [][2]float64       `json:"coordinates"`
	Options           *routeOptions      `json:"options,omitempty"`
	ExtraInfo         []string           `json:"extra_info,omitempty"`
	Instructions      bool               `json:"instructions"`
	AlternativeRoutes *alternativeRoutes `json:"alternative_routes,omitempty"`
}

type routeOptions struct {
	AvoidFeatures []string `json:"avoid_features,omitempty"`
	SurfaceType   []string `json:"surface_type,omitempty"`
}

type alternativeRoutes struct {
	TargetCount  int     `json:"target_count"`
	ShareFactor  float64 `json:"share_factor"`
	WeightFactor float64 `json:"weight_factor"`
}

type directionsResponse struct {
	Features []routeFeature `json:"features"`
}

type routeFeature struct {
	Geometry   geojson.Geometry `json:"geometry"`
	Properties routeProperties  `json:"properties"`
}

type routeProperties struct {
	Summary  summary          `json:"summary"`
	Segments []segment        `json:"segments"`
	Extras   map[string]extra `json:"extras"`
}

type summary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type segment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Steps    []step  `json:"steps"`
}

type step struct {
	Instruction string  `json:"instruction"`
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Type        int     `json:"type"`
	WayPoints   [2]int  `json:"way_points"`
}

// extra is one extra_info block: values are [fromWaypoint, toWaypoint, value].
type extra struct {
	Values [][3]float64 `json:"values"`
}

type isochroneBody struct {
	Locations [][2]float64 `json:"locations"`
	Range     []int        `json:"range"`
	RangeType string       `json:"range_type"`
}
