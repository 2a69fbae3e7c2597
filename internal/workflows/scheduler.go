package workflows

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

// WorkflowStarter is the subset of client.Client the scheduler uses.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// Scheduler implements ports.HazardScheduler by starting one expiry
// workflow per hazard.
type Scheduler struct {
	client     WorkflowStarter
	taskQueue  string
	window     time.Duration
	minUpvotes int
}

// NewScheduler creates a Scheduler.
func NewScheduler(c WorkflowStarter, taskQueue string, window time.Duration, minUpvotes int) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue, window: window, minUpvotes: minUpvotes}
}

// WorkflowID returns the deterministic workflow ID for a hazard.
func WorkflowID(hazardID string) string {
	return "hazard-expiry-" + hazardID
}

// ScheduleExpiry starts the expiry workflow for hazardID.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, hazardID string) error {
	_, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    WorkflowID(hazardID),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}, HazardExpiryWorkflow, HazardExpiryInput{
		HazardID:   hazardID,
		Window:     s.window,
		MinUpvotes: s.minUpvotes,
	})
	if err != nil {
		return fmt.Errorf("start hazard expiry workflow: %w", err)
	}
	return nil
}
