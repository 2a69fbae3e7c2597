package poi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/poi"
)

func TestPlaceScore(t *testing.T) {
	tests := []struct {
		wheelchair, toilet domain.Wheelchair
		want               int
	}{
		{domain.WheelchairYes, "", 90},
		{domain.WheelchairYes, domain.WheelchairYes, 100},
		{domain.WheelchairLimited, domain.WheelchairYes, 70},
		{domain.WheelchairNo, domain.WheelchairNo, 10},
		{"", "", 40},
		{domain.WheelchairUnknown, "", 40},
	}
	for _, tt := range tests {
		got := poi.PlaceScore(domain.Place{Wheelchair: tt.wheelchair, WheelchairToilet: tt.toilet})
		assert.Equal(t, tt.want, got, "%s/%s", tt.wheelchair, tt.toilet)
	}
}

func places() []domain.Place {
	return []domain.Place{
		{ID: "1", Name: "Café Iruña", Category: "food", Wheelchair: domain.WheelchairLimited, Location: domain.Coordinate{Lat: 43.2650, Lon: -2.9350}},
		{ID: "2", Name: "Museo de Bellas Artes", Category: "culture", Wheelchair: domain.WheelchairYes, WheelchairToilet: domain.WheelchairYes, Location: domain.Coordinate{Lat: 43.2660, Lon: -2.9380}},
		{ID: "3", Name: "Bar Moyua", Category: "food", Wheelchair: domain.WheelchairNo, Location: domain.Coordinate{Lat: 43.2631, Lon: -2.9350}},
	}
}

func TestRank_DefaultByDistance(t *testing.T) {
	center := domain.Coordinate{Lat: 43.2630, Lon: -2.9350}
	in := places()

	got := poi.Rank(in, center, domain.PlaceFilter{})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"3", "1", "2"}, ids(got))
	for _, p := range got {
		require.NotNil(t, p.Distance)
	}
	assert.Nil(t, in[0].Distance, "input must not be modified")
}

func TestRank_ByAccessibilityWithFilters(t *testing.T) {
	center := domain.Coordinate{Lat: 43.2630, Lon: -2.9350}

	got := poi.Rank(places(), center, domain.PlaceFilter{SortBy: domain.SortByAccessibility})
	assert.Equal(t, []string{"2", "1", "3"}, ids(got))
	assert.Equal(t, 100, got[0].AccessibilityScore)

	got = poi.Rank(places(), center, domain.PlaceFilter{Category: "FOOD", Limit: 1})
	assert.Equal(t, []string{"3"}, ids(got))

	got = poi.Rank(places(), center, domain.PlaceFilter{Search: "iruña"})
	assert.Equal(t, []string{"1"}, ids(got))
}

func ids(ps []domain.Place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
