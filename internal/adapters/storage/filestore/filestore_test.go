package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotify-desktop/quotify/internal/domain"
)

func TestOpen_StartsEmptyWhenFileAbsent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nested", "cache.json"))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	assert.True(t, domain.IsStorage(err))
}

func TestStore_RoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "alice\x1frandomQuote", []byte(`{"id":1}`)))

	got, err := store.Get(ctx, "alice\x1frandomQuote")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(got))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte(`"v"`)))

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(got))
}

func TestStore_Delete(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Get(ctx, "k")
	assert.True(t, domain.IsNotFound(err))

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	err = store.Set(context.Background(), "k", []byte("{not json"))
	assert.True(t, domain.IsStorage(err))
}

func TestStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, err := Open(path)
	assert.True(t, domain.IsStorage(err))
}

func TestStore_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "cache.json"))
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "k", []byte(`1`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
}
