package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	userworkflows "github.com/Apurer/go-gin-user-api/internal/durable/temporal/workflows/users"
)

var (
	_ userports.WorkflowOrchestrator = (*TemporalUserWorkflows)(nil)
	_ userports.WorkflowOrchestrator = (*InlineUserWorkflows)(nil)
)

// TemporalUserWorkflows starts user workflows on a Temporal cluster.
type TemporalUserWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalUserWorkflows wires a Temporal client into the orchestrator.
func NewTemporalUserWorkflows(c client.Client) *TemporalUserWorkflows {
	return &TemporalUserWorkflows{client: c, taskQueue: userworkflows.UserCreationTaskQueue}
}

// CreateUser starts the Temporal workflow that persists a user.
func (o *TemporalUserWorkflows) CreateUser(ctx context.Context, input userports.CreateUserInput) (*userdomain.User, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal user workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildUserCreationWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		userworkflows.UserCreationWorkflowName,
		userworkflows.UserCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var created userdomain.User
			if err := existingRun.Get(ctx, &created); err != nil {
				return nil, err
			}
			return &created, nil
		}
		return nil, err
	}
	var created userdomain.User
	if err := run.Get(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// InlineUserWorkflows executes the service directly without Temporal, useful
// for tests or dev fallbacks.
type InlineUserWorkflows struct {
	service userports.Service
}

// NewInlineUserWorkflows wraps the users service for synchronous execution.
func NewInlineUserWorkflows(service userports.Service) *InlineUserWorkflows {
	return &InlineUserWorkflows{service: service}
}

// CreateUser delegates to the application service without durable orchestration.
func (o *InlineUserWorkflows) CreateUser(ctx context.Context, input userports.CreateUserInput) (*userdomain.User, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline user workflows not configured")
	}
	return o.service.Create(ctx, input)
}

// buildUserCreationWorkflowID keys durable runs by the idempotency key when
// present so client retries converge on one execution.
func buildUserCreationWorkflowID(input userports.CreateUserInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		sum := sha256.Sum256([]byte(key))
		return "user-creation-key-" + hex.EncodeToString(sum[:8])
	}
	// Without a client key each request is its own execution.
	return fmt.Sprintf("user-creation-%s", uuid.NewString())
}

func workflowTraceComponent(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
