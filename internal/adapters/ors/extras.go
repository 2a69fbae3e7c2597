package ors

import (
	"math"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// Extra info keys requested from openrouteservice.
const (
	extraSteepness   = "steepness"
	extraSurface     = "surface"
	extraWayCategory = "waycategory"
)

// Representative grade in percent for each steepness class (0-5).
var steepnessGrade = [...]float64{0, 2, 5, 8, 12, 18}

// Surface codes that count as paved.
var pavedSurfaces = map[int]bool{
	1:  true, // paved
	3:  true, // asphalt
	4:  true, // concrete
	6:  true, // metal
	7:  true, // wood
	14: true, // paving stones
}

// Way category bits.
const (
	wayHighway = 1
	waySteps   = 2
)

const surfaceUnknownCode = 0

// steepnessDegrees converts a signed steepness class into an absolute slope.
func steepnessDegrees(class int) float64 {
	if class < 0 {
		class = -class
	}
	if class >= len(steepnessGrade) {
		class = len(steepnessGrade) - 1
	}
	return math.Atan(steepnessGrade[class]/100) * 180 / math.Pi
}

func surfaceOf(code int) domain.Surface {
	switch {
	case code == surfaceUnknownCode:
		return domain.SurfaceUnknown
	case pavedSurfaces[code]:
		return domain.SurfacePaved
	}
	return domain.SurfaceUnpaved
}

// overlapping yields the extra values whose waypoint range touches [from, to].
func overlapping(e extra, from, to int, fn func(v int)) {
	for _, r := range e.Values {
		a, b, v := int(r[0]), int(r[1]), int(r[2])
		if a > to || b < from {
			continue
		}
		// Ranges that only share an endpoint with a non-empty step belong to
		// the neighbouring step.
		if from < to && (b == from || a == to) {
			continue
		}
		fn(v)
	}
}

// segmentFor derives the accessibility attributes of the step spanning
// waypoints [from, to]. The worst value in the span wins.
func segmentFor(extras map[string]extra, from, to int, distance float64) domain.Segment {
	seg := domain.Segment{
		DistanceMeters: distance,
		Surface:        domain.SurfaceUnknown,
		Crossing:       domain.CrossingNone,
	}

	if e, ok := extras[extraSteepness]; ok {
		overlapping(e, from, to, func(v int) {
			seg.SlopeDegrees = math.Max(seg.SlopeDegrees, steepnessDegrees(v))
		})
	}

	if e, ok := extras[extraSurface]; ok {
		seen := false
		overlapping(e, from, to, func(v int) {
			s := surfaceOf(v)
			switch {
			case !seen:
				seg.Surface = s
			case s == domain.SurfaceUnpaved:
				seg.Surface = s
			case s == domain.SurfaceUnknown && seg.Surface == domain.SurfacePaved:
				seg.Surface = s
			}
			seen = true
		})
	}

	if e, ok := extras[extraWayCategory]; ok {
		overlapping(e, from, to, func(v int) {
			seg.Stairs = seg.Stairs || v&waySteps != 0
			seg.PrimaryRoad = seg.PrimaryRoad || v&wayHighway != 0
		})
	}
	return seg
}
