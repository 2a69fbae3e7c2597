package routing

import (
	"fmt"
	"math"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// Multipliers applied to the primary route when the provider returned too few
// alternatives to fill every kind.
const (
	fastestDistanceFactor = 0.85
	fastestDurationFactor = 0.7
	scenicDistanceFactor  = 1.5
	scenicDurationFactor  = 1.25
)

// Synthesis is the result of ranking provider routes into the three kinds.
type Synthesis struct {
	// Options is always accessible, fastest, scenic in that order.
	Options []domain.RouteOption
	// Sources maps each option position to the provider route it was taken
	// or estimated from.
	Sources [3]int
}

type candidate struct {
	index    int
	route    domain.ProviderRoute
	score    int
	warnings []string
}

// SynthesizeOptions ranks the provider's routes and returns exactly three
// options. The best-scoring route becomes the accessible option; remaining
// alternatives fill fastest (shortest duration) and scenic (longest distance);
// kinds left empty are estimated from the accessible route.
func SynthesizeOptions(resp domain.DirectionsResponse, prefs domain.RoutePreferences) (Synthesis, error) {
	if len(resp.Routes) == 0 {
		return Synthesis{}, fmt.Errorf("%w: provider returned no routes", domain.ErrRouteProviderUnavailable)
	}

	cands := make([]candidate, len(resp.Routes))
	for i, r := range resp.Routes {
		score, warnings := ScoreSegments(r.Segments(), prefs)
		cands[i] = candidate{index: i, route: r, score: score, warnings: warnings}
	}

	primary := 0
	for i := 1; i < len(cands); i++ {
		c, p := cands[i], cands[primary]
		if c.score > p.score || (c.score == p.score && duration(c.route) < duration(p.route)) {
			primary = i
		}
	}

	rest := make([]candidate, 0, len(cands)-1)
	for i, c := range cands {
		if i != primary {
			rest = append(rest, c)
		}
	}

	var out Synthesis
	base := cands[primary]
	out.Options = append(out.Options, buildOption(domain.RouteAccessible, base, 1, 1, false))
	out.Sources[0] = base.index

	if i := pick(rest, func(a, b candidate) bool { return duration(a.route) < duration(b.route) }); i >= 0 {
		out.Options = append(out.Options, buildOption(domain.RouteFastest, rest[i], 1, 1, false))
		out.Sources[1] = rest[i].index
		rest = append(rest[:i], rest[i+1:]...)
	} else {
		out.Options = append(out.Options, buildOption(domain.RouteFastest, base, fastestDistanceFactor, fastestDurationFactor, true))
		out.Sources[1] = base.index
	}

	if i := pick(rest, func(a, b candidate) bool { return distance(a.route) > distance(b.route) }); i >= 0 {
		out.Options = append(out.Options, buildOption(domain.RouteScenic, rest[i], 1, 1, false))
		out.Sources[2] = rest[i].index
	} else {
		out.Options = append(out.Options, buildOption(domain.RouteScenic, base, scenicDistanceFactor, scenicDurationFactor, true))
		out.Sources[2] = base.index
	}

	return out, nil
}

// pick returns the index of the first candidate preferred by better, or -1.
func pick(cands []candidate, better func(a, b candidate) bool) int {
	best := -1
	for i := range cands {
		if best < 0 || better(cands[i], cands[best]) {
			best = i
		}
	}
	return best
}

func buildOption(kind domain.RouteKind, c candidate, distanceFactor, durationFactor float64, estimated bool) domain.RouteOption {
	return domain.RouteOption{
		ID:                 string(kind),
		Kind:               kind,
		DurationSeconds:    int(math.Round(duration(c.route) * durationFactor)),
		DistanceMeters:     distance(c.route) * distanceFactor,
		AccessibilityScore: c.score,
		Features:           describe(kind, c.route.Segments(), estimated),
		Warnings:           append([]string{}, c.warnings...),
		Estimated:          estimated,
	}
}

func duration(r domain.ProviderRoute) float64 {
	if r.DurationSeconds < 0 || math.IsNaN(r.DurationSeconds) {
		return 0
	}
	return r.DurationSeconds
}

func distance(r domain.ProviderRoute) float64 {
	if r.DistanceMeters < 0 || math.IsNaN(r.DistanceMeters) {
		return 0
	}
	return r.DistanceMeters
}
