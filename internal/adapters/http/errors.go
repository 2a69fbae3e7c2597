package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, provider_unavailable, internal_error
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnavailable returns a 503 error for an upstream provider outage.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "provider_unavailable", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// respondError maps a service error onto the matching status code.
// Internal details are logged, not returned.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "resource not found")
	case errors.Is(err, domain.ErrRouteProviderUnavailable):
		LoggerFromCtx(c.UserContext()).Warn("route provider unavailable", "path", c.Path(), "error", err)
		return errUnavailable(c, "the routing provider is currently unavailable")
	case errors.Is(err, domain.ErrPOIProviderUnavailable):
		LoggerFromCtx(c.UserContext()).Warn("place provider unavailable", "path", c.Path(), "error", err)
		return errUnavailable(c, "the place provider is currently unavailable")
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal error")
}
