// Package application implements the users bounded context use cases.
package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
}

// NewService wires the persistence port and an optional idempotency store.
func NewService(repo ports.Repository, idempotency ports.IdempotencyStore) *Service {
	return &Service{repo: repo, idempotency: idempotency}
}

// Create inserts a new user. When an idempotency key accompanies the request,
// replays with the same key and payload return the originally created user.
func (s *Service) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Login, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	key := normalizedKey(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.repo.Insert(ctx, user)
	}

	hash, err := FingerprintCreateUser(input)
	if err != nil {
		return nil, err
	}
	record, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil {
		if record.RequestHash != hash {
			return nil, ports.ErrIdempotencyConflict
		}
		return s.repo.FindByID(ctx, record.UserID)
	}

	saved, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: hash,
		UserID:      saved.ID,
	})
	if err != nil {
		if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil && stored.RequestHash == hash {
			// A concurrent retry won the race; discard our duplicate and
			// serve the recorded user.
			_ = s.repo.Delete(ctx, saved.ID)
			return s.repo.FindByID(ctx, stored.UserID)
		}
		return nil, err
	}
	return saved, nil
}

// GetByID returns the stored user or ports.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// List enumerates one page of users in stable order.
func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (pagination.Page[domain.User], error) {
	return s.repo.GetPage(ctx, pageNumber, pageSize)
}

// Upsert replaces the user stored under its identifier, inserting when
// absent, and reports which occurred.
func (s *Service) Upsert(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	if user == nil {
		return nil, false, errors.New("user is nil")
	}
	inserted, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return nil, false, err
	}
	return user, inserted, nil
}

// Replace updates an existing user in place. The entity must have been
// loaded via GetByID beforehand.
func (s *Service) Replace(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user, reporting ports.ErrNotFound when no user is
// stored under the identifier.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
