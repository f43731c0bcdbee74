// Package memory provides in-memory store implementations, used by
// tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
type SyncStateStore struct {
	mu    sync.RWMutex
	state *domain.SyncState
	saves int
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{}
}

// Load returns the stored state, or a fresh empty state when nothing
// has been saved yet.
func (s *SyncStateStore) Load(_ context.Context) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return domain.NewSyncState(), nil
	}
	snapshot := domain.NewSyncStateFromIDs(s.state.SyncedIDs())
	snapshot.LastSync = s.state.LastSync
	snapshot.Version = s.state.Version
	return snapshot, nil
}

// Save stores the state.
func (s *SyncStateStore) Save(_ context.Context, state *domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := domain.NewSyncStateFromIDs(state.SyncedIDs())
	snapshot.LastSync = state.LastSync
	snapshot.Version = state.Version
	s.state = snapshot
	s.saves++
	return nil
}

// Reset clears the stored state.
func (s *SyncStateStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}

// SaveCount reports how many times Save has been called. Used by tests
// to assert that dry runs never persist.
func (s *SyncStateStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
