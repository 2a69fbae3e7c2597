// Package routing turns accessibility preferences into provider requests and
// provider routes into ranked, annotated route options. Everything here is
// pure: no I/O, no clocks, no randomness.
package routing

import (
	"fmt"
	"math"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// sameCoordinateTolerance is the degree distance under which origin and
// destination are treated as identical.
const sameCoordinateTolerance = 1e-6

// Avoidable features understood by the directions provider.
const (
	AvoidSteps = "steps"
	AvoidFords = "fords"
)

// smoothSurfaces is the surface filter applied for smoothSurfaceOnly.
var smoothSurfaces = []string{"paved", "asphalt", "concrete"}

// extraInfo asks the provider for the per-waypoint attributes the scorer needs.
var extraInfo = []string{"steepness", "surface", "waycategory"}

// BuildDirectionsRequest validates the endpoints and assembles the provider request.
func BuildDirectionsRequest(origin, destination domain.Coordinate, prefs domain.RoutePreferences) (domain.DirectionsRequest, error) {
	if !origin.Valid() {
		return domain.DirectionsRequest{}, fmt.Errorf("%w: origin %v out of range", domain.ErrInvalidRequest, origin)
	}
	if !destination.Valid() {
		return domain.DirectionsRequest{}, fmt.Errorf("%w: destination %v out of range", domain.ErrInvalidRequest, destination)
	}
	if math.Abs(origin.Lat-destination.Lat) < sameCoordinateTolerance &&
		math.Abs(origin.Lon-destination.Lon) < sameCoordinateTolerance {
		return domain.DirectionsRequest{}, fmt.Errorf("%w: origin and destination are the same point", domain.ErrInvalidRequest)
	}

	req := domain.DirectionsRequest{
		Coordinates: []domain.Coordinate{origin, destination},
		Profile:     ProfileFor(prefs),
		ExtraInfo:   append([]string(nil), extraInfo...),
	}

	if prefs.AvoidStairs {
		req.AvoidFeatures = append(req.AvoidFeatures, AvoidSteps)
	}
	// Fords are never routable for wheelchair users.
	req.AvoidFeatures = append(req.AvoidFeatures, AvoidFords)

	// IncludeTransit adds nothing here: transit legs are composed elsewhere.

	if prefs.SmoothSurfaceOnly {
		req.SurfaceTypes = append([]string(nil), smoothSurfaces...)
	}
	return req, nil
}

// ProfileFor picks the wheelchair profile whenever an accessibility
// constraint is requested.
func ProfileFor(prefs domain.RoutePreferences) domain.Profile {
	if prefs.AvoidStairs || prefs.SmoothSurfaceOnly {
		return domain.ProfileWheelchair
	}
	return domain.ProfileFootWalking
}
