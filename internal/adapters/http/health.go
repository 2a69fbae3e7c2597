package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyTimeout = 3 * time.Second

// HealthHandler returns a basic liveness check and reports whether the
// providers are live or fixtures.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	providers := "live"
	if deps.Offline {
		providers = "offline"
	}

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"uptime":    time.Since(startedAt).Round(time.Second).String(),
			"version":   version,
			"providers": providers,
		})
	}
}

// probe reports the state of one backing service and whether it blocks
// readiness. A missing optional service is fine.
func probe(ctx context.Context, p Pinger, required bool) (string, bool) {
	if p == nil {
		return "not configured", !required
	}
	if err := p.Ping(ctx); err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

// ReadyHandler checks the database (required), NATS and the cache (optional).
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		checks := make(map[string]string, 3)
		ready := true

		var ok bool
		checks["database"], ok = probe(ctx, deps.DB, true)
		ready = ready && ok
		checks["cache"], ok = probe(ctx, deps.Cache, false)
		ready = ready && ok

		switch {
		case deps.NATS == nil:
			checks["nats"] = "not configured"
		case deps.NATS.Connected():
			checks["nats"] = "ok"
		default:
			checks["nats"] = "disconnected"
			ready = false
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": checks})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": checks})
	}
}
