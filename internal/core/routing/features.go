package routing

import "github.com/samirrijal/accessroute/internal/core/domain"

// describe derives the feature tags shown on a route card.
func describe(kind domain.RouteKind, segments []domain.Segment, estimated bool) []string {
	features := []string{}
	switch kind {
	case domain.RouteFastest:
		features = append(features, "Direct route")
	case domain.RouteScenic:
		features = append(features, "Scenic detour")
	}

	if len(segments) > 0 {
		var (
			stairs, rough, unsignalized, signalized bool
			maxSlope                                float64
		)
		for _, s := range segments {
			stairs = stairs || s.Stairs
			rough = rough || s.Surface != domain.SurfacePaved
			unsignalized = unsignalized || s.Crossing == domain.CrossingUnsignalized
			signalized = signalized || s.Crossing == domain.CrossingSignalized
			if sl := slopeOf(s); sl > maxSlope {
				maxSlope = sl
			}
		}

		if !stairs {
			features = append(features, "Step-free")
		}
		switch {
		case maxSlope <= GentleSlopeDegrees:
			features = append(features, "Level paths")
		case maxSlope <= SteepSlopeDegrees:
			features = append(features, "Gentle inclines")
		default:
			features = append(features, "Some inclines")
		}
		if !rough {
			features = append(features, "Smooth surfaces")
		}
		if signalized && !unsignalized {
			features = append(features, "Accessible crossings")
		}
	}

	if estimated {
		features = append(features, "Estimated from primary route")
	}
	return features
}
