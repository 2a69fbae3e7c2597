package routing

import (
	"math"
	"strings"
	"unicode"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// Maneuver type codes as published by openrouteservice.
const (
	typeCodeMin  = 0
	typeCodeGoal = 10
	typeCodeMax  = 13
)

const arrivalInstruction = "Arrive at destination"

// AnnotateSteps converts provider maneuvers into numbered steps and always
// terminates the sequence with a synthesized arrival step. A provider goal
// maneuver is folded into that arrival step. Malformed maneuvers are rated
// caution rather than rejected.
func AnnotateSteps(maneuvers []domain.Maneuver, destination domain.Wheelchair) []domain.RouteStep {
	steps := make([]domain.RouteStep, 0, len(maneuvers)+1)
	for _, m := range maneuvers {
		if m.TypeCode == typeCodeGoal {
			continue
		}
		kind := maneuverKindOf(m)
		rating := classify(m, kind)
		if rating == domain.AccessibilityCaution && kind == domain.ManeuverWalk {
			kind = domain.ManeuverCaution
		}
		steps = append(steps, domain.RouteStep{
			SequenceIndex:      len(steps),
			Instruction:        m.Instruction,
			DistanceMeters:     segmentDistance(domain.Segment{DistanceMeters: m.DistanceMeters}),
			ManeuverKind:       kind,
			Accessibility:      rating,
			AccessibilityScore: SegmentScore(m.Segment),
		})
	}

	arrival := domain.RouteStep{
		SequenceIndex:      len(steps),
		Instruction:        arrivalInstruction,
		ManeuverKind:       domain.ManeuverWalk,
		Accessibility:      domain.AccessibilityGood,
		AccessibilityScore: maxScore,
	}
	if destination == domain.WheelchairNo {
		arrival.Instruction += " (entrance reported not wheelchair accessible)"
		arrival.Accessibility = domain.AccessibilityCaution
		arrival.AccessibilityScore = maxScore - penaltyStairs
	}
	return append(steps, arrival)
}

// maneuverKindOf matches whole words only, so street names such as
// "Clifton Road" or "Rampart Street" stay plain walks.
func maneuverKindOf(m domain.Maneuver) domain.ManeuverKind {
	words := strings.FieldsFunc(strings.ToLower(m.Instruction), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	kind := domain.ManeuverWalk
	for _, w := range words {
		switch w {
		case "elevator", "lift":
			return domain.ManeuverElevator
		case "ramp":
			kind = domain.ManeuverRamp
		}
	}
	return kind
}

func classify(m domain.Maneuver, kind domain.ManeuverKind) domain.StepAccessibility {
	seg := m.Segment
	slope := slopeOf(seg)
	switch {
	case m.DistanceMeters < 0 || math.IsNaN(m.DistanceMeters),
		m.TypeCode < typeCodeMin || m.TypeCode > typeCodeMax,
		seg.Stairs,
		slope > SteepSlopeDegrees,
		seg.Crossing == domain.CrossingUnsignalized && seg.PrimaryRoad:
		return domain.AccessibilityCaution
	case kind == domain.ManeuverElevator, slope <= GentleSlopeDegrees:
		return domain.AccessibilityGood
	}
	return domain.AccessibilityFair
}
