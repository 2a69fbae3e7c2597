package usecases

import (
	"context"
	"log/slog"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/ports"
	"github.com/samirrijal/accessroute/internal/pkg/metrics"
)

// ChangeInvalidator returns an event handler that drops the cached lists of
// the table named by each change event. Other API instances receive the same
// events, so every cache stays in step with the store.
func ChangeInvalidator(hazards *HazardService, forum *ForumService) func(ctx context.Context, ev domain.ChangeEvent) error {
	return func(ctx context.Context, ev domain.ChangeEvent) error {
		switch ev.Table {
		case domain.TableHazardReports:
			hazards.Invalidate(ctx)
		case domain.TableForumPosts:
			forum.Invalidate(ctx)
		default:
			slog.DebugContext(ctx, "ignoring change event", "table", ev.Table)
		}
		return nil
	}
}

// publishChange announces a committed write. Failures are logged and counted.
func publishChange(ctx context.Context, events ports.EventPublisher, ev domain.ChangeEvent) {
	if events == nil {
		return
	}
	if err := events.PublishChange(ctx, ev); err != nil {
		metrics.CommunitySideEffectFailures.WithLabelValues(ev.Table, "publish").Inc()
		slog.WarnContext(ctx, "change event not published",
			"table", ev.Table, "action", ev.Action, "id", ev.ID, "error", err)
		return
	}
	metrics.CommunityEvents.WithLabelValues(ev.Table, string(ev.Action)).Inc()
}
