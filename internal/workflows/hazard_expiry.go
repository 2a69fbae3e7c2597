package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ExpireHazardActivity is the registered name of HazardActivities.ExpireHazard.
const ExpireHazardActivity = "ExpireHazard"

// HazardExpiryInput is the input for the hazard expiry workflow.
type HazardExpiryInput struct {
	HazardID   string
	Window     time.Duration
	MinUpvotes int
}

// HazardExpiryWorkflow waits out the expiry window and then resolves the
// report unless the community confirmed it in the meantime. The result
// reports whether the hazard was resolved.
func HazardExpiryWorkflow(ctx workflow.Context, input HazardExpiryInput) (bool, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Scheduling hazard expiry", "hazardID", input.HazardID, "window", input.Window)

	if err := workflow.Sleep(ctx, input.Window); err != nil {
		return false, err
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var expired bool
	err := workflow.ExecuteActivity(ctx, ExpireHazardActivity, input.HazardID, input.MinUpvotes).Get(ctx, &expired)
	if err != nil {
		return false, err
	}

	logger.Info("Hazard expiry finished", "hazardID", input.HazardID, "expired", expired)
	return expired, nil
}
