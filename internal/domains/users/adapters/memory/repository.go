package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter. Entries are kept in
// insertion order so page enumeration stays stable across calls.
type Repository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
	newID func() uuid.UUID
}

func NewRepository() *Repository {
	return &Repository{
		users: map[uuid.UUID]*domain.User{},
		newID: uuid.New,
	}
}

// WithIDGenerator overrides identifier generation for deterministic testing.
func (r *Repository) WithIDGenerator(newID func() uuid.UUID) {
	if newID != nil {
		r.newID = newID
	}
}

func (r *Repository) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	clone.ID = r.newID()
	if _, exists := r.users[clone.ID]; exists {
		return nil, errors.New("generated identifier already in use")
	}
	r.users[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	stored := clone
	return &stored, nil
}

func (r *Repository) Update(_ context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return ports.ErrNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *Repository) Upsert(_ context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	_, exists := r.users[clone.ID]
	r.users[clone.ID] = &clone
	if !exists {
		r.order = append(r.order, clone.ID)
	}
	return !exists, nil
}

func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return nil
	}
	delete(r.users, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) GetPage(_ context.Context, pageNumber, pageSize int) (pagination.Page[domain.User], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, *r.users[id])
	}
	return pagination.Window(all, pageNumber, pageSize), nil
}
