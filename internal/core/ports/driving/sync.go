package driving

import "context"

// SyncRunner drives one synchronisation run.
type SyncRunner interface {
	// Sync fetches candidate documents, delivers the new ones and
	// persists updated state. Per-document delivery failures are
	// counted in Stats, not returned; the returned error is reserved
	// for run-fatal conditions (no valid token, state persistence).
	Sync(ctx context.Context, opts SyncOptions) (*SyncStats, error)
}

// SyncOptions selects the time window and run mode.
type SyncOptions struct {
	// SinceHours is the fetch window: documents created within the
	// last SinceHours hours are candidates.
	SinceHours int

	// ForceAll treats every fetched document as new, ignoring the
	// persisted synced set.
	ForceAll bool

	// DryRun performs all fetch and extraction work but suppresses
	// webhook delivery and state persistence entirely.
	DryRun bool
}

// SyncStats aggregates one run.
type SyncStats struct {
	// Total is the number of documents fetched within the window.
	Total int
	// New is how many of those were not yet synced (or all, under
	// ForceAll).
	New int
	// Synced is how many new documents were delivered successfully.
	Synced int
	// Failed is how many deliveries failed after retries.
	Failed int
}
