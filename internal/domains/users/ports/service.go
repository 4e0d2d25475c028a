package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
)

// CreateUserInput carries the fields needed to provision a new user. The
// idempotency key is optional and comes from the Idempotency-Key header.
type CreateUserInput struct {
	Login          string
	FirstName      string
	LastName       string
	IdempotencyKey string
}

// Service exposes the users bounded context use cases.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, pageNumber, pageSize int) (pagination.Page[domain.User], error)
	Upsert(ctx context.Context, user *domain.User) (*domain.User, bool, error)
	Replace(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkflowOrchestrator starts the user-creation flow, either inline or on a
// durable workflow engine.
type WorkflowOrchestrator interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
}
