package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
)

// ErrNotFound is returned when no user exists for the given identifier.
var ErrNotFound = errors.New("user not found")

// Repository is the persistence port for the users bounded context.
//
// Mutating operations must appear atomic to concurrent callers: two
// concurrent Inserts never share a generated identifier, and readers never
// observe a partially written entity.
type Repository interface {
	// FindByID returns the stored user or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// Insert assigns a fresh identifier, stores the entity, and returns the
	// stored copy.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update replaces the stored fields of an existing entity. Callers must
	// have verified existence via FindByID; ErrNotFound is returned otherwise.
	Update(ctx context.Context, user *domain.User) error
	// Upsert replaces the entity when its identifier is present and inserts
	// it under that identifier otherwise, reporting which occurred.
	Upsert(ctx context.Context, user *domain.User) (inserted bool, err error)
	// Delete removes the entity if present. Deleting an absent identifier is
	// a no-op at this level; callers produce not-found handling themselves.
	Delete(ctx context.Context, id uuid.UUID) error
	// GetPage enumerates users in stable insertion order. pageNumber is
	// 1-based; windows past the end are empty but keep correct counters.
	GetPage(ctx context.Context, pageNumber, pageSize int) (pagination.Page[domain.User], error)
}
