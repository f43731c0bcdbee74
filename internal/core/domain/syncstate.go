package domain

import (
	"sort"
	"time"
)

// SyncStateVersion is the current sync-state format version.
const SyncStateVersion = "1"

// SyncState records which documents have already been delivered.
//
// The synced set only grows: IDs are added on confirmed delivery
// success and removed only by an explicit user reset. State is
// persisted once per run, after all candidates are processed, so a
// mid-run crash re-delivers documents from earlier in that run on the
// next invocation. Delivery is therefore at-least-once.
type SyncState struct {
	syncedIDs map[string]struct{}

	// LastSync is when the state was last persisted.
	LastSync time.Time

	// Version is the state format version.
	Version string
}

// NewSyncState creates an empty sync state.
func NewSyncState() *SyncState {
	return &SyncState{
		syncedIDs: make(map[string]struct{}),
		Version:   SyncStateVersion,
	}
}

// NewSyncStateFromIDs creates a sync state seeded with already-synced IDs.
func NewSyncStateFromIDs(ids []string) *SyncState {
	s := NewSyncState()
	for _, id := range ids {
		s.syncedIDs[id] = struct{}{}
	}
	return s
}

// IsSynced reports whether the document was delivered in a prior run.
func (s *SyncState) IsSynced(id string) bool {
	_, ok := s.syncedIDs[id]
	return ok
}

// MarkSynced records a confirmed delivery.
func (s *SyncState) MarkSynced(id string) {
	if s.syncedIDs == nil {
		s.syncedIDs = make(map[string]struct{})
	}
	s.syncedIDs[id] = struct{}{}
}

// SyncedIDs returns the synced IDs, sorted so the persisted state file
// does not churn between runs with identical content.
func (s *SyncState) SyncedIDs() []string {
	ids := make([]string, 0, len(s.syncedIDs))
	for id := range s.syncedIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of synced documents.
func (s *SyncState) Count() int {
	return len(s.syncedIDs)
}
