package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

func TestSyncStateStore_Load_EmptyByDefault(t *testing.T) {
	store := NewSyncStateStore()

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count())
	assert.Equal(t, 0, store.SaveCount())
}

func TestSyncStateStore_SaveAndLoad_Snapshots(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	state := domain.NewSyncState()
	state.MarkSynced("d1")
	require.NoError(t, store.Save(ctx, state))

	// Mutating the saved state after Save must not leak into the store.
	state.MarkSynced("d2")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.IsSynced("d1"))
	assert.False(t, loaded.IsSynced("d2"))
	assert.Equal(t, 1, store.SaveCount())

	// Nor must mutating a loaded state.
	loaded.MarkSynced("d3")
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, again.IsSynced("d3"))
}

func TestSyncStateStore_Reset(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	state := domain.NewSyncState()
	state.MarkSynced("d1")
	require.NoError(t, store.Save(ctx, state))

	require.NoError(t, store.Reset(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Count())
}
