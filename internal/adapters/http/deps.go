package http

import (
	"context"

	"github.com/samirrijal/accessroute/internal/core/usecases"
)

// Pinger is a backing service that can be health-checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connection reports the state of a long-lived broker connection.
type Connection interface {
	Connected() bool
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes  *usecases.RouteService
	Places  *usecases.PlaceService
	Hazards *usecases.HazardService
	Forum   *usecases.ForumService

	// Backing services for readiness checks; nil means not configured.
	DB    Pinger
	NATS  Connection
	Cache Pinger

	// Offline is true when the routing and place providers are fixtures.
	Offline bool
	Version string
}
