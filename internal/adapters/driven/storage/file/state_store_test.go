package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

func TestSyncStateStore_Load_MissingIsEmptyState(t *testing.T) {
	store := NewSyncStateStore(filepath.Join(t.TempDir(), "sync_state.json"))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count())
	assert.Equal(t, domain.SyncStateVersion, state.Version)
}

func TestSyncStateStore_SaveAndLoad(t *testing.T) {
	store := NewSyncStateStore(filepath.Join(t.TempDir(), "sync_state.json"))
	ctx := context.Background()

	state := domain.NewSyncState()
	state.MarkSynced("d1")
	state.MarkSynced("d2")
	state.LastSync = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Count())
	assert.True(t, loaded.IsSynced("d1"))
	assert.True(t, loaded.IsSynced("d2"))
	assert.False(t, loaded.IsSynced("d3"))
	assert.True(t, state.LastSync.Equal(loaded.LastSync))
	assert.Equal(t, domain.SyncStateVersion, loaded.Version)
}

func TestSyncStateStore_Load_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	store := NewSyncStateStore(path)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestSyncStateStore_Reset(t *testing.T) {
	store := NewSyncStateStore(filepath.Join(t.TempDir(), "sync_state.json"))
	ctx := context.Background()

	state := domain.NewSyncState()
	state.MarkSynced("d1")
	require.NoError(t, store.Save(ctx, state))

	require.NoError(t, store.Reset(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Count())
}

func TestSyncStateStore_Reset_MissingFileIsNoop(t *testing.T) {
	store := NewSyncStateStore(filepath.Join(t.TempDir(), "sync_state.json"))
	assert.NoError(t, store.Reset(context.Background()))
}

func TestSyncStateStore_Save_GrowsAcrossRuns(t *testing.T) {
	store := NewSyncStateStore(filepath.Join(t.TempDir(), "sync_state.json"))
	ctx := context.Background()

	first := domain.NewSyncState()
	first.MarkSynced("d1")
	require.NoError(t, store.Save(ctx, first))

	second, err := store.Load(ctx)
	require.NoError(t, err)
	second.MarkSynced("d2")
	require.NoError(t, store.Save(ctx, second))

	final, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, final.IsSynced("d1"))
	assert.True(t, final.IsSynced("d2"))
}
