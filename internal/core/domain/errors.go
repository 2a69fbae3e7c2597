package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks malformed or degenerate input. Never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidRadius is returned for non-positive search radii.
	ErrInvalidRadius = fmt.Errorf("%w: radius must be positive", ErrInvalidRequest)

	// ErrRouteProviderUnavailable covers network failures, non-2xx responses
	// and timeouts from the directions/isochrone provider.
	ErrRouteProviderUnavailable = errors.New("route provider unavailable")

	// ErrPOIProviderUnavailable is the place/POI provider counterpart.
	ErrPOIProviderUnavailable = errors.New("poi provider unavailable")

	// ErrNotFound is returned by repositories for missing rows.
	ErrNotFound = errors.New("not found")
)
