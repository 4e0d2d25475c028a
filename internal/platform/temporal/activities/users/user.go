package users

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	userdomain "github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
)

const (
	// PersistUserActivityName persists a user through the application service.
	PersistUserActivityName = "users.activities.PersistUser"
	// ErrTypeIdempotencyConflict marks conflicts that must not be retried.
	ErrTypeIdempotencyConflict = "IdempotencyConflict"
)

// Activities groups activities that operate on the users bounded context.
type Activities struct {
	service userports.Service
}

// NewActivities wires the users service into the Temporal activities bundle.
func NewActivities(service userports.Service) *Activities {
	return &Activities{service: service}
}

// PersistUser stores a new user and returns the created entity.
func (a *Activities) PersistUser(ctx context.Context, input userports.CreateUserInput) (*userdomain.User, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("user persist activity not initialized", "login", input.Login)
		return nil, errors.New("user persist activity not initialized")
	}
	logger.Info("PersistUser activity started", "login", input.Login)
	created, err := a.service.Create(ctx, input)
	if err != nil {
		if errors.Is(err, userports.ErrIdempotencyConflict) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, err)
		}
		logger.Error("PersistUser activity failed", "login", input.Login, "error", err)
		return nil, err
	}
	logger.Info("PersistUser activity completed", "userId", created.ID)
	return created, nil
}
