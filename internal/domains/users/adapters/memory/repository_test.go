package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
)

func mustUser(t *testing.T, login string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(login, "John", "Doe")
	require.NoError(t, err)
	return user
}

func TestInsertAssignsFreshID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	requested := mustUser(t, "jdoe")
	requested.ID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

	stored, err := repo.Insert(ctx, requested)
	require.NoError(t, err)
	require.NotEqual(t, requested.ID, stored.ID)
	require.NotEqual(t, uuid.UUID{}, stored.ID)

	found, err := repo.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, "jdoe", found.Login)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := NewRepository()
	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestInsert_PreservesInsertionOrder(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Insert(ctx, mustUser(t, fmt.Sprintf("user%d", i)))
		require.NoError(t, err)
	}

	page, err := repo.GetPage(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	for i, item := range page.Items {
		require.Equal(t, fmt.Sprintf("user%d", i), item.Login)
	}
}

func TestGetPage_Windows(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := repo.Insert(ctx, mustUser(t, fmt.Sprintf("user%02d", i)))
		require.NoError(t, err)
	}

	page, err := repo.GetPage(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	require.Equal(t, "user05", page.Items[0].Login)
	require.Equal(t, 12, page.TotalCount)
	require.Equal(t, 3, page.TotalPages)

	past, err := repo.GetPage(ctx, 9, 5)
	require.NoError(t, err)
	require.Empty(t, past.Items)
	require.Equal(t, 12, past.TotalCount)
}

func TestUpdate(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	stored, err := repo.Insert(ctx, mustUser(t, "jdoe"))
	require.NoError(t, err)

	stored.FirstName = "Jane"
	require.NoError(t, repo.Update(ctx, stored))

	found, err := repo.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane", found.FirstName)

	missing := mustUser(t, "ghost")
	missing.ID = uuid.New()
	require.ErrorIs(t, repo.Update(ctx, missing), ports.ErrNotFound)
}

func TestUpsert(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	user := mustUser(t, "jdoe")
	user.ID = uuid.New()

	inserted, err := repo.Upsert(ctx, user)
	require.NoError(t, err)
	require.True(t, inserted)

	user.FirstName = "Jane"
	inserted, err = repo.Upsert(ctx, user)
	require.NoError(t, err)
	require.False(t, inserted)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane", found.FirstName)

	page, err := repo.GetPage(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}

func TestDelete_SilentWhenMissing(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, uuid.New()))

	stored, err := repo.Insert(ctx, mustUser(t, "jdoe"))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, stored.ID))
	_, err = repo.FindByID(ctx, stored.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestInsert_ConcurrentIDsAreUnique(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	const workers = 16
	users := make([]*domain.User, workers)
	for i := range users {
		users[i] = mustUser(t, fmt.Sprintf("user%d", i))
	}

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, err := repo.Insert(ctx, users[i])
			if err != nil {
				errs <- err
				return
			}
			ids <- stored.ID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[uuid.UUID]bool{}
	for id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	require.Len(t, seen, workers)
}

func TestIdempotencyStore(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	userID := uuid.New()

	record, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.Nil(t, record)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "abc", UserID: userID})
	require.NoError(t, err)
	require.False(t, saved.CreatedAt.IsZero())

	replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "abc", UserID: userID})
	require.NoError(t, err)
	require.Equal(t, saved.UserID, replayed.UserID)

	conflicting, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "other", UserID: uuid.New()})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, userID, conflicting.UserID)
}
