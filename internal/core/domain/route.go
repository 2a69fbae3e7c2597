package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// Profile selects the provider's locomotion model.
type Profile string

const (
	ProfileWheelchair  Profile = "wheelchair"
	ProfileFootWalking Profile = "foot-walking"
)

// RoutePreferences is immutable for the duration of one planning request.
type RoutePreferences struct {
	AvoidStairs       bool `json:"avoid_stairs"`
	SmoothSurfaceOnly bool `json:"smooth_surface_only"`
	IncludeTransit    bool `json:"include_transit"`
}

// DirectionsRequest is the provider-neutral request descriptor.
type DirectionsRequest struct {
	Coordinates   []Coordinate `json:"coordinates"`
	Profile       Profile      `json:"profile"`
	AvoidFeatures []string     `json:"avoid_features"`
	SurfaceTypes  []string     `json:"surface_types,omitempty"` // nil when no filter applies
	ExtraInfo     []string     `json:"extra_info,omitempty"`
}

// RouteKind labels a synthesized route option.
type RouteKind string

const (
	RouteAccessible RouteKind = "accessible"
	RouteFastest    RouteKind = "fastest"
	RouteScenic     RouteKind = "scenic"
)

// RouteKinds is the fixed display order of route options.
var RouteKinds = [3]RouteKind{RouteAccessible, RouteFastest, RouteScenic}

// RouteOption is one ranked choice presented to the traveller.
type RouteOption struct {
	ID                 string    `json:"id"`
	Kind               RouteKind `json:"kind"`
	DurationSeconds    int       `json:"duration_seconds"`
	DistanceMeters     float64   `json:"distance_meters"`
	AccessibilityScore int       `json:"accessibility_score"`
	Features           []string  `json:"features"`
	Warnings           []string  `json:"warnings"`
	Estimated          bool      `json:"estimated"` // derived from the primary route, not a provider alternative
}

// ManeuverKind classifies a single step.
type ManeuverKind string

const (
	ManeuverWalk     ManeuverKind = "walk"
	ManeuverElevator ManeuverKind = "elevator"
	ManeuverRamp     ManeuverKind = "ramp"
	ManeuverCaution  ManeuverKind = "caution"
)

// StepAccessibility is the traffic-light rating of a step.
type StepAccessibility string

const (
	AccessibilityGood    StepAccessibility = "good"
	AccessibilityFair    StepAccessibility = "fair"
	AccessibilityCaution StepAccessibility = "caution"
)

// RouteStep is a user-facing turn instruction.
type RouteStep struct {
	SequenceIndex      int               `json:"sequence_index"`
	Instruction        string            `json:"instruction"`
	DistanceMeters     float64           `json:"distance_meters"`
	ManeuverKind       ManeuverKind      `json:"maneuver_kind"`
	Accessibility      StepAccessibility `json:"accessibility"`
	AccessibilityScore int               `json:"accessibility_score"`
}

// Surface is the coarse surface class of a path segment.
type Surface string

const (
	SurfacePaved   Surface = "paved"
	SurfaceUnpaved Surface = "unpaved"
	SurfaceUnknown Surface = "unknown"
)

// Crossing describes a street crossing on a segment.
type Crossing string

const (
	CrossingNone         Crossing = "none"
	CrossingSignalized   Crossing = "signalized"
	CrossingUnsignalized Crossing = "unsignalized"
)

// Segment carries the accessibility-relevant attributes of a stretch of path.
type Segment struct {
	DistanceMeters float64  `json:"distance_meters"`
	Surface        Surface  `json:"surface"`
	SlopeDegrees   float64  `json:"slope_degrees"`
	Crossing       Crossing `json:"crossing"`
	Stairs         bool     `json:"stairs"`
	PrimaryRoad    bool     `json:"primary_road"`
}

// Maneuver is a raw provider step with the segment it traverses.
type Maneuver struct {
	Instruction     string  `json:"instruction"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	TypeCode        int     `json:"type"`
	Segment         Segment `json:"segment"`
}

// ProviderRoute is one route returned by the directions provider.
type ProviderRoute struct {
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Geometry        orb.LineString `json:"geometry"`
	Maneuvers       []Maneuver     `json:"maneuvers"`
}

// Segments returns the segments of all maneuvers in traversal order.
func (r ProviderRoute) Segments() []Segment {
	segs := make([]Segment, 0, len(r.Maneuvers))
	for _, m := range r.Maneuvers {
		segs = append(segs, m.Segment)
	}
	return segs
}

// DirectionsResponse holds every alternative the provider returned.
type DirectionsResponse struct {
	Routes []ProviderRoute `json:"routes"`
}

// RoutePlan is the full answer to one planning request.
type RoutePlan struct {
	ID          string                    `json:"id"`
	Origin      Coordinate                `json:"origin"`
	Destination Coordinate                `json:"destination"`
	Preferences RoutePreferences          `json:"preferences"`
	Profile     Profile                   `json:"profile"`
	Options     []RouteOption             `json:"options"`
	Steps       map[RouteKind][]RouteStep `json:"steps"`
	Geometry    orb.LineString            `json:"geometry,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// Isochrone is the area reachable from Center within RangeSeconds.
type Isochrone struct {
	Center           Coordinate  `json:"center"`
	RangeSeconds     int         `json:"range_seconds"`
	Polygon          orb.Polygon `json:"polygon"`
	AreaSquareMeters float64     `json:"area_square_meters"`
}
