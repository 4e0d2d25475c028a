package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	clone.ID = uuid.New()
	f.users[clone.ID] = &clone
	f.order = append(f.order, clone.ID)
	stored := clone
	return &stored, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return ports.ErrNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *domain.User) (bool, error) {
	clone := *user
	_, exists := f.users[clone.ID]
	f.users[clone.ID] = &clone
	if !exists {
		f.order = append(f.order, clone.ID)
	}
	return !exists, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return nil
	}
	delete(f.users, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeUserRepo) GetPage(_ context.Context, pageNumber, pageSize int) (pagination.Page[domain.User], error) {
	all := make([]domain.User, 0, len(f.order))
	for _, id := range f.order {
		all = append(all, *f.users[id])
	}
	return pagination.Window(all, pageNumber, pageSize), nil
}

type fakeIdempotencyStore struct {
	records map[string]ports.IdempotencyRecord
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]ports.IdempotencyRecord{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	record, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	clone := record
	return &clone, nil
}

func (f *fakeIdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if existing, ok := f.records[record.Key]; ok {
		clone := existing
		if existing.RequestHash != record.RequestHash || existing.UserID != record.UserID {
			return &clone, ports.ErrIdempotencyConflict
		}
		return &clone, nil
	}
	f.records[record.Key] = record
	clone := record
	return &clone, nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeIdempotencyStore) {
	repo := newFakeUserRepo()
	store := newFakeIdempotencyStore()
	return NewService(repo, store), repo, store
}

func TestCreate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.UUID{}, created.ID)
	require.Len(t, repo.users, 1)
}

func TestCreate_InvalidLogin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), ports.CreateUserInput{Login: "j doe"})
	require.ErrorIs(t, err, domain.ErrLoginCharset)

	_, err = svc.Create(context.Background(), ports.CreateUserInput{Login: "  "})
	require.ErrorIs(t, err, domain.ErrEmptyLogin)
}

func TestCreate_IdempotentReplay(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	input := ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe", IdempotencyKey: "key-1"}

	first, err := svc.Create(ctx, input)
	require.NoError(t, err)

	second, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, repo.users, 1)
}

func TestCreate_IdempotencyConflict(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe", IdempotencyKey: "key-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ports.CreateUserInput{Login: "other", FirstName: "Jane", LastName: "Poe", IdempotencyKey: "key-1"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestCreate_WithoutKeySkipsStore(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)

	require.Len(t, repo.users, 2)
	require.Empty(t, store.records)
}

func TestUpsert(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Login: "jdoe", FirstName: "John", LastName: "Doe"}
	_, inserted, err := svc.Upsert(ctx, user)
	require.NoError(t, err)
	require.True(t, inserted)

	user.FirstName = "Jane"
	saved, inserted, err := svc.Upsert(ctx, user)
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, "Jane", saved.FirstName)
}

func TestReplace(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	stored, err := svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)

	stored.FirstName = "Jane"
	updated, err := svc.Replace(ctx, stored)
	require.NoError(t, err)
	require.Equal(t, "Jane", updated.FirstName)
	require.Equal(t, "Jane", repo.users[stored.ID].FirstName)
}

func TestReplace_RejectsInvalidState(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	stored, err := svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)

	stored.Login = ""
	_, err = svc.Replace(ctx, stored)
	require.ErrorIs(t, err, domain.ErrEmptyLogin)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	stored, err := svc.Create(ctx, ports.CreateUserInput{Login: "jdoe", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, stored.ID))
	require.ErrorIs(t, svc.Delete(ctx, stored.ID), ports.ErrNotFound)
}

func TestList(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	logins := []string{"alpha", "bravo", "charlie"}
	for _, login := range logins {
		_, err := svc.Create(ctx, ports.CreateUserInput{Login: login, FirstName: "A", LastName: "B"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, "alpha", page.Items[0].Login)
	require.Equal(t, 3, page.TotalCount)
	require.Equal(t, 2, page.TotalPages)
}

func TestFingerprintCreateUser_Normalizes(t *testing.T) {
	a, err := FingerprintCreateUser(ports.CreateUserInput{Login: " jdoe ", FirstName: "John", LastName: "Doe", IdempotencyKey: "k1"})
	require.NoError(t, err)
	b, err := FingerprintCreateUser(ports.CreateUserInput{Login: "jdoe", FirstName: " John ", LastName: "Doe", IdempotencyKey: "k2"})
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := FingerprintCreateUser(ports.CreateUserInput{Login: "other", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}
