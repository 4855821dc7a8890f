package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotify-desktop/quotify/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "quotify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.True(t, domain.IsStorage(err))
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotify.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "alice", &domain.Quote{ID: 1, Text: "a", Author: "a"}))
	require.NoError(t, store.Close())

	// Reopening replays no migrations and keeps the data.
	store, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	count, err := store.Count(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_PutAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := &domain.Quote{ID: 42, Text: "Be curious.", Author: "Ada Lovelace", Tags: []string{"science"}}
	require.NoError(t, store.Put(ctx, "alice", in))

	out, err := store.GetByID(ctx, "alice", 42)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStore_PutReplacesByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "alice", &domain.Quote{ID: 1, Text: "old", Author: "a"}))
	require.NoError(t, store.Put(ctx, "alice", &domain.Quote{ID: 1, Text: "new", Author: "a"}))

	out, err := store.GetByID(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "new", out.Text)

	count, err := store.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_GetByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetByID(context.Background(), "alice", 404)

	assert.True(t, domain.IsNotFound(err))
}

func TestStore_UserIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "alice", &domain.Quote{ID: 1, Text: "hers", Author: "a"}))

	_, err := store.GetByID(ctx, "bob", 1)
	assert.True(t, domain.IsNotFound(err))

	count, err := store.Count(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_PutManyAndGetAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	batch := []domain.Quote{
		{ID: 3, Text: "c", Author: "c"},
		{ID: 1, Text: "a", Author: "a"},
		{ID: 2, Text: "b", Author: "b"},
	}
	require.NoError(t, store.PutMany(ctx, "alice", batch))

	all, err := store.GetAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Ordered by ID.
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)
}

func TestStore_GetRandom(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.GetRandom(ctx, "alice")
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, store.PutMany(ctx, "alice", []domain.Quote{
		{ID: 1, Text: "a", Author: "a"},
		{ID: 2, Text: "b", Author: "b"},
	}))

	q, err := store.GetRandom(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, []int64{1, 2}, q.ID)
}

func TestStore_Favorites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Add twice: idempotent.
	require.NoError(t, store.AddFavorite(ctx, "alice", 7))
	require.NoError(t, store.AddFavorite(ctx, "alice", 7))
	require.NoError(t, store.AddFavorite(ctx, "alice", 3))

	ids, err := store.FavoriteIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)

	marked, err := store.IsFavorite(ctx, "alice", 7)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = store.IsFavorite(ctx, "bob", 7)
	require.NoError(t, err)
	assert.False(t, marked)

	require.NoError(t, store.RemoveFavorite(ctx, "alice", 7))
	// Removing again is a no-op.
	require.NoError(t, store.RemoveFavorite(ctx, "alice", 7))

	ids, err = store.FavoriteIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)
}

func TestStore_HealthCheck(t *testing.T) {
	store := openTestStore(t)

	assert.Equal(t, "sqlite", store.Name())
	assert.NoError(t, store.Check(context.Background()))
}
