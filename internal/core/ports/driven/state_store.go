package driven

import (
	"context"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// SyncStateStore persists sync progress between runs.
type SyncStateStore interface {
	// Load reads the persisted state. Returns an empty state (not an
	// error) when nothing has been persisted yet.
	Load(ctx context.Context) (*domain.SyncState, error)

	// Save persists the state. Called once per run, after all
	// candidate documents have been processed.
	Save(ctx context.Context, state *domain.SyncState) error

	// Reset discards all persisted state. Explicit user action only;
	// every document becomes new again on the next run.
	Reset(ctx context.Context) error
}
