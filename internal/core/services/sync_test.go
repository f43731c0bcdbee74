package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/granola-sync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driving"
)

// fakeTokenProvider returns a fixed token or error.
type fakeTokenProvider struct {
	token string
	err   error
}

func (f *fakeTokenProvider) GetToken(_ context.Context) (string, error) {
	return f.token, f.err
}

func (f *fakeTokenProvider) Invalidate() {}

// fakeSource serves canned documents and transcripts.
type fakeSource struct {
	docs        []domain.Document
	docsErr     error
	transcripts map[string]*domain.Transcript
}

func (f *fakeSource) FetchDocuments(_ context.Context, _ int) ([]domain.Document, error) {
	return f.docs, f.docsErr
}

func (f *fakeSource) FetchTranscript(_ context.Context, id string) (*domain.Transcript, json.RawMessage, error) {
	tr, ok := f.transcripts[id]
	if !ok {
		return nil, nil, nil
	}
	raw, _ := json.Marshal(tr.Segments)
	return tr, raw, nil
}

// fakeSink records deliveries and can fail specific documents.
type fakeSink struct {
	delivered []*domain.Payload
	failIDs   map[string]bool
}

func (f *fakeSink) Deliver(_ context.Context, p *domain.Payload) error {
	if f.failIDs[p.DocumentID] {
		return domain.ErrDeliveryFailed
	}
	f.delivered = append(f.delivered, p)
	return nil
}

func newEngine(source *fakeSource, sink *fakeSink, store *memory.SyncStateStore) *SyncEngine {
	return NewSyncEngine(
		&fakeTokenProvider{token: "tok"},
		source,
		store,
		sink,
		NewClassifier(nil),
		nil,
	)
}

func TestSyncEngine_Sync_DeliversNewDocuments(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{
			{ID: "d1", Title: "Call with Acme", CreatedAt: "2026-08-28T09:00:00Z"},
			{ID: "d2", Title: "Standup", CreatedAt: "2026-08-28T10:00:00Z"},
		},
		transcripts: map[string]*domain.Transcript{
			"d1": {Segments: []domain.Segment{{Speaker: "Ana", Text: "hi"}}},
		},
	}
	sink := &fakeSink{}
	store := memory.NewSyncStateStore()

	stats, err := newEngine(source, sink, store).Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.New)
	assert.Equal(t, 2, stats.Synced)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, sink.delivered, 2)

	// Enriched payload fields.
	p := sink.delivered[0]
	assert.Equal(t, domain.PayloadSource, p.Source)
	assert.Equal(t, "d1", p.DocumentID)
	assert.Equal(t, "[00:00] Ana: hi", p.Transcript)
	assert.Equal(t, "Acme", p.Customer)
	assert.NotEmpty(t, p.SyncRunID)
	assert.Equal(t, p.SyncRunID, sink.delivered[1].SyncRunID)

	// State persisted with both IDs.
	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsSynced("d1"))
	assert.True(t, state.IsSynced("d2"))
	assert.False(t, state.LastSync.IsZero())
}

func TestSyncEngine_Sync_SkipsAlreadySynced(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{
			{ID: "d1", Title: "Old"},
			{ID: "d2", Title: "New"},
		},
	}
	sink := &fakeSink{}
	store := memory.NewSyncStateStore()

	seeded := domain.NewSyncStateFromIDs([]string{"d1"})
	require.NoError(t, store.Save(context.Background(), seeded))

	stats, err := newEngine(source, sink, store).Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Synced)
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, "d2", sink.delivered[0].DocumentID)
}

func TestSyncEngine_Sync_ForceAllRedelivers(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{{ID: "d1", Title: "Old"}},
	}
	sink := &fakeSink{}
	store := memory.NewSyncStateStore()

	seeded := domain.NewSyncStateFromIDs([]string{"d1"})
	require.NoError(t, store.Save(context.Background(), seeded))

	stats, err := newEngine(source, sink, store).Sync(context.Background(),
		driving.SyncOptions{SinceHours: 24, ForceAll: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Synced)
	require.Len(t, sink.delivered, 1)
}

func TestSyncEngine_Sync_DeliveryFailureContinuesRun(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{
			{ID: "d1", Title: "First"},
			{ID: "d2", Title: "Broken"},
			{ID: "d3", Title: "Last"},
		},
	}
	sink := &fakeSink{failIDs: map[string]bool{"d2": true}}
	store := memory.NewSyncStateStore()

	stats, err := newEngine(source, sink, store).Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Synced)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, sink.delivered, 2)

	// The failed document is not marked synced, so the next run retries it.
	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsSynced("d1"))
	assert.False(t, state.IsSynced("d2"))
	assert.True(t, state.IsSynced("d3"))
}

func TestSyncEngine_Sync_TokenFailureIsFatal(t *testing.T) {
	engine := NewSyncEngine(
		&fakeTokenProvider{err: domain.ErrRefreshTokenInvalid},
		&fakeSource{},
		memory.NewSyncStateStore(),
		&fakeSink{},
		nil,
		nil,
	)

	_, err := engine.Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid)
}

func TestSyncEngine_Sync_PartialListingStillProcessed(t *testing.T) {
	source := &fakeSource{
		docs:    []domain.Document{{ID: "d1", Title: "Partial"}},
		docsErr: errors.New("connection reset mid-pagination"),
	}
	sink := &fakeSink{}
	store := memory.NewSyncStateStore()

	stats, err := newEngine(source, sink, store).Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Synced)
	require.Len(t, sink.delivered, 1)
}

func TestSyncEngine_Sync_DryRunDeliversNothing(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{
			{ID: "d1", Title: "Would send"},
		},
	}
	sink := &fakeSink{}
	store := memory.NewSyncStateStore()

	stats, err := newEngine(source, sink, store).Sync(context.Background(),
		driving.SyncOptions{SinceHours: 24, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 0, stats.Synced)
	assert.Empty(t, sink.delivered)

	// Dry run never persists.
	assert.Equal(t, 0, store.SaveCount())
	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsSynced("d1"))
}

func TestSyncEngine_Sync_NoClassifier(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{{ID: "d1", Title: "Call with Acme"}},
	}
	sink := &fakeSink{}
	store := memory.NewSyncStateStore()

	engine := NewSyncEngine(&fakeTokenProvider{token: "tok"}, source, store, sink, nil, nil)
	_, err := engine.Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	require.Len(t, sink.delivered, 1)
	assert.Empty(t, sink.delivered[0].Customer)
	assert.Empty(t, sink.delivered[0].MeetingType)
}

func TestSyncEngine_Sync_AttendeeFlattening(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{{
			ID:    "d1",
			Title: "Mixed attendees",
			People: []domain.Attendee{
				{Name: "Ana", Email: "ana@acme.com"},
				{Name: "No Address"},
				{Email: "bare@acme.com"},
				{},
			},
		}},
	}
	sink := &fakeSink{}

	_, err := newEngine(source, sink, memory.NewSyncStateStore()).
		Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	require.Len(t, sink.delivered, 1)
	assert.Equal(t, []string{"ana@acme.com", "No Address", "bare@acme.com"}, sink.delivered[0].Attendees)
}

func TestSyncEngine_Sync_UntitledFallback(t *testing.T) {
	source := &fakeSource{docs: []domain.Document{{ID: "d1"}}}
	sink := &fakeSink{}

	_, err := newEngine(source, sink, memory.NewSyncStateStore()).
		Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	require.Len(t, sink.delivered, 1)
	assert.Equal(t, "Untitled Meeting", sink.delivered[0].Title)
}

func TestSyncEngine_Sync_StatePersistedOncePerRun(t *testing.T) {
	source := &fakeSource{
		docs: []domain.Document{
			{ID: "d1"}, {ID: "d2"}, {ID: "d3"},
		},
	}
	store := memory.NewSyncStateStore()

	_, err := newEngine(source, &fakeSink{}, store).
		Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	assert.Equal(t, 1, store.SaveCount())
}

func TestSyncEngine_Sync_LastSyncUsesEngineClock(t *testing.T) {
	source := &fakeSource{docs: []domain.Document{{ID: "d1"}}}
	store := memory.NewSyncStateStore()
	engine := newEngine(source, &fakeSink{}, store)

	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	_, err := engine.Sync(context.Background(), driving.SyncOptions{SinceHours: 24})
	require.NoError(t, err)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, state.LastSync.Equal(fixed))
}
