package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with sunset date.
type DeprecatedRoute struct {
	Method      string    // empty matches any method
	Path        string    // Route pattern, e.g. /v1/hazards/:id/upvote
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Recommended alternative endpoint (optional)
}

// httpDate is the IMF-fixdate layout of RFC 9110.
const httpDate = "Mon, 02 Jan 2006 15:04:05 GMT"

// deprecatedRoutes lists the legacy endpoints still being served.
var deprecatedRoutes = []DeprecatedRoute{
	{
		Method:      fiber.MethodPost,
		Path:        "/v1/hazards/:id/upvote",
		SunsetDate:  time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
		Alternative: "/v1/hazards/{id}/upvotes",
	},
}

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if d.Method != "" && d.Method != c.Method() {
				continue
			}
			if !matchPattern(c.Path(), d.Path) {
				continue
			}

			// RFC 8594
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(httpDate))
			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}

			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}

		return c.Next()
	}
}

// matchPattern matches a request path against a route pattern in which
// segments starting with ':' match any single non-empty segment.
func matchPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}
	ps := strings.Split(strings.Trim(path, "/"), "/")
	qs := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(qs) {
		return false
	}
	for i, q := range qs {
		if strings.HasPrefix(q, ":") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != q {
			return false
		}
	}
	return true
}
