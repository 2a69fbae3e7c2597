package ports

import (
	"context"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// DirectionsProvider computes walking or wheelchair routes.
type DirectionsProvider interface {
	Directions(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResponse, error)
}

// IsochroneProvider computes the area reachable within a travel time.
type IsochroneProvider interface {
	Isochrone(ctx context.Context, center domain.Coordinate, profile domain.Profile, rangeSeconds int) (*domain.Isochrone, error)
}

// POIProvider answers Overpass QL queries with places.
type POIProvider interface {
	QueryPlaces(ctx context.Context, query string) ([]domain.Place, error)
}

// PlaceLookupProvider returns places inside a bounding box.
type PlaceLookupProvider interface {
	Nodes(ctx context.Context, q domain.POIQuery) ([]domain.Place, error)
}

// EventPublisher publishes community change events to a message broker.
type EventPublisher interface {
	PublishChange(ctx context.Context, event domain.ChangeEvent) error
}

// EventSubscriber delivers community change events.
type EventSubscriber interface {
	SubscribeChanges(ctx context.Context, handler func(ctx context.Context, event domain.ChangeEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, keys ...string) error
}

// HazardScheduler arranges the automatic expiry of a new hazard report.
type HazardScheduler interface {
	ScheduleExpiry(ctx context.Context, hazardID string) error
}
