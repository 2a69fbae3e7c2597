package poi

import (
	"sort"
	"strings"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/pkg/geospatial"
)

const toiletBonus = 10

// PlaceScore rates a place from its wheelchair tags.
func PlaceScore(p domain.Place) int {
	var score int
	switch p.Wheelchair {
	case domain.WheelchairYes:
		score = 90
	case domain.WheelchairLimited:
		score = 60
	case domain.WheelchairNo:
		score = 10
	default:
		score = 40
	}
	if p.WheelchairToilet == domain.WheelchairYes {
		score += toiletBonus
	}
	return min(max(score, 0), 100)
}

// Rank scores every place, measures it from center, applies the category and
// name filters, then sorts and truncates. The input slice is not modified.
func Rank(places []domain.Place, center domain.Coordinate, f domain.PlaceFilter) []domain.Place {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		d := geospatial.Distance(center.Lat, center.Lon, p.Location.Lat, p.Location.Lon)
		p.Distance = &d
		p.AccessibilityScore = PlaceScore(p)
		out = append(out, p)
	}

	if f.SortBy == domain.SortByAccessibility {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].AccessibilityScore != out[j].AccessibilityScore {
				return out[i].AccessibilityScore > out[j].AccessibilityScore
			}
			return *out[i].Distance < *out[j].Distance
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
