package routing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/routing"
)

var (
	bilbao   = domain.Coordinate{Lat: 43.2630, Lon: -2.9350}
	deusto   = domain.Coordinate{Lat: 43.2710, Lon: -2.9460}
	noPrefs  = domain.RoutePreferences{}
	allPrefs = domain.RoutePreferences{AvoidStairs: true, SmoothSurfaceOnly: true, IncludeTransit: true}
)

func TestBuildDirectionsRequest_Defaults(t *testing.T) {
	req, err := routing.BuildDirectionsRequest(bilbao, deusto, noPrefs)
	require.NoError(t, err)

	assert.Equal(t, []domain.Coordinate{bilbao, deusto}, req.Coordinates)
	assert.Equal(t, domain.ProfileFootWalking, req.Profile)
	assert.Equal(t, []string{"fords"}, req.AvoidFeatures)
	assert.Nil(t, req.SurfaceTypes)
	assert.Equal(t, []string{"steepness", "surface", "waycategory"}, req.ExtraInfo)
}

func TestBuildDirectionsRequest_AllPreferences(t *testing.T) {
	req, err := routing.BuildDirectionsRequest(bilbao, deusto, allPrefs)
	require.NoError(t, err)

	assert.Equal(t, domain.ProfileWheelchair, req.Profile)
	assert.Equal(t, []string{"steps", "fords"}, req.AvoidFeatures)
	assert.Equal(t, []string{"paved", "asphalt", "concrete"}, req.SurfaceTypes)
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		name  string
		prefs domain.RoutePreferences
		want  domain.Profile
	}{
		{"none", noPrefs, domain.ProfileFootWalking},
		{"transit only", domain.RoutePreferences{IncludeTransit: true}, domain.ProfileFootWalking},
		{"avoid stairs", domain.RoutePreferences{AvoidStairs: true}, domain.ProfileWheelchair},
		{"smooth surface", domain.RoutePreferences{SmoothSurfaceOnly: true}, domain.ProfileWheelchair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routing.ProfileFor(tt.prefs))
		})
	}
}

func TestBuildDirectionsRequest_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		origin      domain.Coordinate
		destination domain.Coordinate
	}{
		{"same point", bilbao, bilbao},
		{"within tolerance", bilbao, domain.Coordinate{Lat: bilbao.Lat + 5e-7, Lon: bilbao.Lon - 5e-7}},
		{"latitude out of range", domain.Coordinate{Lat: 91, Lon: 0}, deusto},
		{"longitude out of range", bilbao, domain.Coordinate{Lat: 0, Lon: -181}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := routing.BuildDirectionsRequest(tt.origin, tt.destination, allPrefs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
		})
	}
}

func TestBuildDirectionsRequest_ReturnsFreshSlices(t *testing.T) {
	a, err := routing.BuildDirectionsRequest(bilbao, deusto, allPrefs)
	require.NoError(t, err)
	a.SurfaceTypes[0] = "gravel"
	a.ExtraInfo[0] = "tollways"

	b, err := routing.BuildDirectionsRequest(bilbao, deusto, allPrefs)
	require.NoError(t, err)
	assert.Equal(t, "paved", b.SurfaceTypes[0])
	assert.Equal(t, "steepness", b.ExtraInfo[0])
}
