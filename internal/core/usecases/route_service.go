package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/ports"
	"github.com/samirrijal/accessroute/internal/core/routing"
	"github.com/samirrijal/accessroute/internal/pkg/geospatial"
	"github.com/samirrijal/accessroute/internal/pkg/metrics"
	"github.com/samirrijal/accessroute/internal/pkg/telemetry"
)

// Reachable-area bounds in minutes.
const (
	minReachableMinutes = 1
	maxReachableMinutes = 60
)

// PlanRequest is one route planning invocation.
type PlanRequest struct {
	Origin      domain.Coordinate       `json:"origin"`
	Destination domain.Coordinate       `json:"destination"`
	Preferences domain.RoutePreferences `json:"preferences"`
	// DestinationWheelchair is the wheelchair tag of the chosen place, if any.
	DestinationWheelchair domain.Wheelchair `json:"destination_wheelchair,omitempty"`
}

// RouteService plans accessible routes and reachable areas.
type RouteService struct {
	directions ports.DirectionsProvider
	isochrones ports.IsochroneProvider
	cache      ports.CacheService
	now        func() time.Time
}

// NewRouteService creates a new RouteService.
func NewRouteService(directions ports.DirectionsProvider, isochrones ports.IsochroneProvider, cache ports.CacheService) *RouteService {
	return &RouteService{directions: directions, isochrones: isochrones, cache: cache, now: time.Now}
}

// Plan builds the provider request, ranks the returned routes into the
// accessible, fastest and scenic options and annotates the steps of each.
func (s *RouteService) Plan(ctx context.Context, req PlanRequest) (*domain.RoutePlan, error) {
	dreq, err := routing.BuildDirectionsRequest(req.Origin, req.Destination, req.Preferences)
	if err != nil {
		return nil, err
	}
	switch req.DestinationWheelchair {
	case "", domain.WheelchairYes, domain.WheelchairLimited, domain.WheelchairNo, domain.WheelchairUnknown:
	default:
		return nil, fmt.Errorf("%w: unknown destination wheelchair value %q", domain.ErrInvalidRequest, req.DestinationWheelchair)
	}

	p := req.Preferences
	key := fmt.Sprintf("routes:plan:%.6f:%.6f:%.6f:%.6f:%t:%t:%t:%s",
		req.Origin.Lat, req.Origin.Lon, req.Destination.Lat, req.Destination.Lon,
		p.AvoidStairs, p.SmoothSurfaceOnly, p.IncludeTransit, req.DestinationWheelchair)

	return readThrough(ctx, s.cache, "route_plan", key, planTTL, func() (*domain.RoutePlan, error) {
		return s.plan(ctx, req, dreq)
	})
}

func (s *RouteService) plan(ctx context.Context, req PlanRequest, dreq domain.DirectionsRequest) (*domain.RoutePlan, error) {
	ctx, span := otel.Tracer(telemetry.InstrumentationName).Start(ctx, "RouteService.Plan")
	defer span.End()
	span.SetAttributes(attribute.String("profile", string(dreq.Profile)))

	resp, err := s.directions.Directions(ctx, dreq)
	if err != nil {
		return nil, providerError(domain.ErrRouteProviderUnavailable, err)
	}

	syn, err := routing.SynthesizeOptions(resp, req.Preferences)
	if err != nil {
		return nil, err
	}

	steps := make(map[domain.RouteKind][]domain.RouteStep, len(syn.Options))
	for i, opt := range syn.Options {
		steps[opt.Kind] = routing.AnnotateSteps(resp.Routes[syn.Sources[i]].Maneuvers, req.DestinationWheelchair)
		if opt.Estimated {
			metrics.EstimatedOptions.WithLabelValues(string(opt.Kind)).Inc()
		}
	}

	plan := &domain.RoutePlan{
		ID:          uuid.NewString(),
		Origin:      req.Origin,
		Destination: req.Destination,
		Preferences: req.Preferences,
		Profile:     dreq.Profile,
		Options:     syn.Options,
		Steps:       steps,
		Geometry:    resp.Routes[syn.Sources[0]].Geometry,
		CreatedAt:   s.now().UTC(),
	}

	metrics.RoutePlans.WithLabelValues(string(plan.Profile)).Inc()
	metrics.PlanScore.Observe(float64(plan.Options[0].AccessibilityScore))
	slog.DebugContext(ctx, "route planned",
		"plan_id", plan.ID,
		"profile", plan.Profile,
		"alternatives", len(resp.Routes),
		"score", plan.Options[0].AccessibilityScore,
	)
	return plan, nil
}

// Reachable returns the area reachable from center within minutes using the
// wheelchair profile.
func (s *RouteService) Reachable(ctx context.Context, center domain.Coordinate, minutes int) (*domain.Isochrone, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("%w: center %v out of range", domain.ErrInvalidRequest, center)
	}
	if minutes < minReachableMinutes || minutes > maxReachableMinutes {
		return nil, fmt.Errorf("%w: minutes must be %d-%d, got %d", domain.ErrInvalidRequest, minReachableMinutes, maxReachableMinutes, minutes)
	}

	key := fmt.Sprintf("routes:reachable:%.5f:%.5f:%d", center.Lat, center.Lon, minutes)
	return readThrough(ctx, s.cache, "reachable", key, planTTL, func() (*domain.Isochrone, error) {
		iso, err := s.isochrones.Isochrone(ctx, center, domain.ProfileWheelchair, minutes*60)
		if err != nil {
			return nil, providerError(domain.ErrRouteProviderUnavailable, err)
		}
		if iso.AreaSquareMeters == 0 && len(iso.Polygon) > 0 {
			iso.AreaSquareMeters = geospatial.PolygonArea(iso.Polygon)
		}
		return iso, nil
	})
}

// providerError makes sure a provider failure carries the given sentinel.
// Caller cancellation passes through untouched.
func providerError(sentinel, err error) error {
	if errors.Is(err, sentinel) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
