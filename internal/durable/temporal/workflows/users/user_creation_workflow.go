package users

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	useractivities "github.com/Apurer/go-gin-user-api/internal/platform/temporal/activities/users"
)

const (
	// UserCreationWorkflowName is the public identifier for registering the workflow.
	UserCreationWorkflowName = "users.workflows.Creation"
	// UserCreationTaskQueue is the queue consumed by the worker processing user workflows.
	UserCreationTaskQueue = "USER_CREATION"
)

// UserCreationWorkflowInput captures the payload required to provision a new user.
type UserCreationWorkflowInput struct {
	Command userports.CreateUserInput
	TraceID string
}

// UserCreationWorkflow orchestrates the activities needed to persist a user.
func UserCreationWorkflow(ctx workflow.Context, input UserCreationWorkflowInput) (*userdomain.User, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("UserCreationWorkflow started", withTraceID(input.TraceID, "login", input.Command.Login)...)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{useractivities.ErrTypeIdempotencyConflict},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var created *userdomain.User
	if err := workflow.ExecuteActivity(ctx, useractivities.PersistUserActivityName, input.Command).Get(ctx, &created); err != nil {
		logger.Error("UserCreationWorkflow failed", withTraceID(input.TraceID, "login", input.Command.Login, "error", err)...)
		return nil, err
	}
	if created != nil {
		logger.Info("UserCreationWorkflow completed", withTraceID(input.TraceID, "userId", created.ID)...)
	} else {
		logger.Info("UserCreationWorkflow completed", withTraceID(input.TraceID)...)
	}
	return created, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
