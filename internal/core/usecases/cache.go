package usecases

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/samirrijal/accessroute/internal/core/ports"
	"github.com/samirrijal/accessroute/internal/pkg/metrics"
)

// Cache TTLs in seconds.
const (
	planTTL      = 300
	placesTTL    = 300
	communityTTL = 60
)

// readThrough returns the cached value under key or loads, stores and returns
// a fresh one. Cache failures never fail the request.
func readThrough[T any](ctx context.Context, cache ports.CacheService, op, key string, ttl int, load func() (T, error)) (T, error) {
	if cache != nil {
		if data, err := cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				metrics.CacheHits.WithLabelValues(op).Inc()
				return v, nil
			}
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if cache != nil {
		if data, err := json.Marshal(v); err == nil {
			if err := cache.Set(ctx, key, data, ttl); err != nil {
				slog.DebugContext(ctx, "cache set failed", "key", key, "error", err)
			}
		}
	}
	return v, nil
}

func invalidate(ctx context.Context, cache ports.CacheService, keys ...string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}
