package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint,
// unless the handler already set one. Error responses are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if c.Response().StatusCode() >= 400 {
			c.Set("Cache-Control", "no-store")
			return err
		}
		if existing := c.GetRespHeader("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/hazards"), strings.HasPrefix(path, "/v1/forum"):
			ttl = "public, max-age=60" // community lists change often

		case strings.HasPrefix(path, "/v1/places/bbox"):
			ttl = "public, max-age=86400" // pure computation

		case strings.HasPrefix(path, "/v1/places/"), path == "/v1/routes/reachable":
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
