package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// HazardExpirer resolves stale hazard reports.
type HazardExpirer interface {
	Expire(ctx context.Context, id string, minUpvotes int) (bool, error)
}

// HazardActivities holds the activity implementations for the expiry workflow.
type HazardActivities struct {
	Hazards HazardExpirer
}

// ExpireHazard resolves the hazard if it is still unconfirmed. A report that
// has been deleted in the meantime counts as nothing to do.
func (a *HazardActivities) ExpireHazard(ctx context.Context, hazardID string, minUpvotes int) (bool, error) {
	expired, err := a.Hazards.Expire(ctx, hazardID, minUpvotes)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("expire hazard %s: %w", hazardID, err)
	}
	return expired, nil
}
