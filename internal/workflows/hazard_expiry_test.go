package workflows_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/workflows"
)

type fakeExpirer struct {
	expired bool
	err     error
	gotID   string
	gotMin  int
}

func (f *fakeExpirer) Expire(_ context.Context, id string, minUpvotes int) (bool, error) {
	f.gotID, f.gotMin = id, minUpvotes
	return f.expired, f.err
}

func TestHazardExpiryWorkflow_ResolvesAfterWindow(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	expirer := &fakeExpirer{expired: true}
	env.RegisterActivity(&workflows.HazardActivities{Hazards: expirer})

	start := env.Now()
	env.ExecuteWorkflow(workflows.HazardExpiryWorkflow, workflows.HazardExpiryInput{
		HazardID:   "hazard-1",
		Window:     72 * time.Hour,
		MinUpvotes: 3,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var expired bool
	require.NoError(t, env.GetWorkflowResult(&expired))
	assert.True(t, expired)
	assert.Equal(t, "hazard-1", expirer.gotID)
	assert.Equal(t, 3, expirer.gotMin)
	assert.GreaterOrEqual(t, env.Now().Sub(start), 72*time.Hour)
}

func TestHazardExpiryWorkflow_ActivityFailure(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&workflows.HazardActivities{Hazards: &fakeExpirer{}})
	env.OnActivity(workflows.ExpireHazardActivity, mock.Anything, "hazard-2", 3).
		Return(false, errors.New("database down"))

	env.ExecuteWorkflow(workflows.HazardExpiryWorkflow, workflows.HazardExpiryInput{
		HazardID: "hazard-2", Window: time.Hour, MinUpvotes: 3,
	})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}

func TestExpireHazard_MissingReportIsNoop(t *testing.T) {
	a := &workflows.HazardActivities{Hazards: &fakeExpirer{err: domain.ErrNotFound}}
	expired, err := a.ExpireHazard(context.Background(), "gone", 3)
	require.NoError(t, err)
	assert.False(t, expired)
}

type fakeStarter struct {
	opts client.StartWorkflowOptions
	args []interface{}
	err  error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, opts client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.opts, f.args = opts, args
	return nil, f.err
}

func TestScheduler_ScheduleExpiry(t *testing.T) {
	starter := &fakeStarter{}
	s := workflows.NewScheduler(starter, "accessroute-community", 48*time.Hour, 5)

	require.NoError(t, s.ScheduleExpiry(context.Background(), "hazard-9"))
	assert.Equal(t, "hazard-expiry-hazard-9", starter.opts.ID)
	assert.Equal(t, "accessroute-community", starter.opts.TaskQueue)
	require.Len(t, starter.args, 1)
	assert.Equal(t, workflows.HazardExpiryInput{HazardID: "hazard-9", Window: 48 * time.Hour, MinUpvotes: 5}, starter.args[0])

	starter.err = errors.New("temporal unavailable")
	assert.Error(t, s.ScheduleExpiry(context.Background(), "hazard-10"))
}
