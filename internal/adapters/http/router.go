package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/accessroute/internal/pkg/metrics"
)

// requestTimeout bounds every /v1 request; provider calls time out earlier.
const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST and GraphQL routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(recover.New())

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(DeprecationMiddleware(deprecatedRoutes))
	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	v1 := app.Group("/v1")

	// Routing
	v1.Post("/routes/plan", withTimeout(PlanRouteHandler(deps)))
	v1.Get("/routes/reachable", withTimeout(ReachableHandler(deps)))

	// Places
	v1.Get("/places/nearby", withTimeout(NearbyPlacesHandler(deps)))
	v1.Get("/places/pois", withTimeout(AccessiblePOIsHandler(deps)))
	v1.Get("/places/toilets", withTimeout(AccessibleToiletsHandler(deps)))
	v1.Get("/places/bbox", BoundingBoxHandler(deps))

	// Community
	v1.Get("/hazards", withTimeout(ListHazardsHandler(deps)))
	v1.Post("/hazards", withTimeout(CreateHazardHandler(deps)))
	v1.Patch("/hazards/:id/status", withTimeout(UpdateHazardStatusHandler(deps)))
	v1.Post("/hazards/:id/upvotes", withTimeout(UpvoteHazardHandler(deps)))
	v1.Post("/hazards/:id/upvote", withTimeout(UpvoteHazardHandler(deps))) // deprecated
	v1.Get("/forum/posts", withTimeout(ListForumPostsHandler(deps)))
	v1.Post("/forum/posts", withTimeout(CreateForumPostHandler(deps)))
	v1.Post("/forum/posts/:id/likes", withTimeout(LikeForumPostHandler(deps)))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	SetupDocs(app)
}
