package routing

import (
	"fmt"
	"math"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

const (
	maxScore = 100

	// GentleSlopeDegrees and SteepSlopeDegrees bound the fair band of inclines.
	GentleSlopeDegrees = 3.0
	SteepSlopeDegrees  = 6.0

	penaltySteep        = 15
	penaltyRoughSurface = 8
	penaltyUnsignalized = 5
	penaltyStairs       = 25
)

// cause identifies one kind of accessibility problem on a segment.
type cause int

const (
	causeStairs cause = iota
	causeSteep
	causeRoughSurface
	causeUnsignalized
)

// finding accumulates every segment that shares a cause.
type finding struct {
	cause    cause
	distance float64
	maxSlope float64
	count    int
}

// ScoreSegments returns the 0-100 accessibility score for a path and the
// human-readable warnings explaining every deduction. Warnings follow segment
// order; segments sharing a cause collapse into one message at the position of
// the first occurrence, with their distances summed.
func ScoreSegments(segments []domain.Segment, prefs domain.RoutePreferences) (int, []string) {
	score := maxScore
	var findings []*finding
	byCause := make(map[cause]*finding)

	record := func(c cause, seg domain.Segment) {
		f, ok := byCause[c]
		if !ok {
			f = &finding{cause: c}
			byCause[c] = f
			findings = append(findings, f)
		}
		f.count++
		f.distance += segmentDistance(seg)
		if s := slopeOf(seg); s > f.maxSlope {
			f.maxSlope = s
		}
	}

	for _, seg := range segments {
		for _, c := range causesOf(seg) {
			score -= penaltyFor(c)
			record(c, seg)
		}
	}

	warnings := make([]string, 0, len(findings))
	for _, f := range findings {
		warnings = append(warnings, f.message(prefs))
	}
	return clampScore(score), warnings
}

// SegmentScore scores a single segment; used for per-step scores.
func SegmentScore(seg domain.Segment) int {
	score := maxScore
	for _, c := range causesOf(seg) {
		score -= penaltyFor(c)
	}
	return clampScore(score)
}

func causesOf(seg domain.Segment) []cause {
	var out []cause
	if seg.Stairs {
		out = append(out, causeStairs)
	}
	if slopeOf(seg) > SteepSlopeDegrees {
		out = append(out, causeSteep)
	}
	if seg.Surface != domain.SurfacePaved {
		out = append(out, causeRoughSurface)
	}
	if seg.Crossing == domain.CrossingUnsignalized {
		out = append(out, causeUnsignalized)
	}
	return out
}

func penaltyFor(c cause) int {
	switch c {
	case causeStairs:
		return penaltyStairs
	case causeSteep:
		return penaltySteep
	case causeRoughSurface:
		return penaltyRoughSurface
	case causeUnsignalized:
		return penaltyUnsignalized
	}
	return 0
}

func (f *finding) message(prefs domain.RoutePreferences) string {
	switch f.cause {
	case causeStairs:
		msg := "Stairs on route" + distanceSuffix(" (%.0fm)", f.distance)
		if prefs.AvoidStairs {
			msg += " despite avoid-stairs preference"
		}
		return msg
	case causeSteep:
		return fmt.Sprintf("Steep incline (%.0f°)", f.maxSlope) + distanceSuffix(" for %.0fm", f.distance)
	case causeRoughSurface:
		return "Rough or unmapped surface" + distanceSuffix(" for %.0fm", f.distance)
	case causeUnsignalized:
		if f.count > 1 {
			return fmt.Sprintf("%d unsignalized crossings", f.count)
		}
		return "Unsignalized crossing"
	}
	return ""
}

func distanceSuffix(format string, meters float64) string {
	if meters < 0.5 {
		return ""
	}
	return fmt.Sprintf(format, meters)
}

// slopeOf returns the absolute slope; an unreadable slope counts as steep.
func slopeOf(seg domain.Segment) float64 {
	if math.IsNaN(seg.SlopeDegrees) || math.IsInf(seg.SlopeDegrees, 0) {
		return 90
	}
	return math.Abs(seg.SlopeDegrees)
}

func segmentDistance(seg domain.Segment) float64 {
	if seg.DistanceMeters < 0 || math.IsNaN(seg.DistanceMeters) {
		return 0
	}
	return seg.DistanceMeters
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > maxScore {
		return maxScore
	}
	return s
}
