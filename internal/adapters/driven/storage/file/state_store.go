package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore persists sync state as a JSON file.
type SyncStateStore struct {
	path string
}

// NewSyncStateStore creates a state store at the given path.
func NewSyncStateStore(path string) *SyncStateStore {
	return &SyncStateStore{path: path}
}

// Path returns the state file path.
func (s *SyncStateStore) Path() string {
	return s.path
}

// stateFile is the on-disk shape of the sync state.
type stateFile struct {
	SyncedIDs []string  `json:"synced_ids"`
	LastSync  time.Time `json:"last_sync"`
	Version   string    `json:"version"`
}

// Load reads the state file. A missing file yields a fresh empty
// state, which makes the very first run a full sync without any setup
// step.
func (s *SyncStateStore) Load(ctx context.Context) (*domain.SyncState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewSyncState(), nil
		}
		return nil, fmt.Errorf("read sync state: %w", err)
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse sync state: %w", err)
	}

	state := domain.NewSyncStateFromIDs(sf.SyncedIDs)
	state.LastSync = sf.LastSync
	if sf.Version != "" {
		state.Version = sf.Version
	}

	return state, nil
}

// Save writes the state atomically.
func (s *SyncStateStore) Save(ctx context.Context, state *domain.SyncState) error {
	sf := stateFile{
		SyncedIDs: state.SyncedIDs(),
		LastSync:  state.LastSync,
		Version:   state.Version,
	}

	out, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sync state: %w", err)
	}

	return writeAtomic(s.path, out, 0644)
}

// Reset deletes the state file. Deleting an absent file is not an
// error.
func (s *SyncStateStore) Reset(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove sync state: %w", err)
	}
	return nil
}
