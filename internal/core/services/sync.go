package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driving"
	"github.com/custodia-labs/granola-sync/internal/logger"
	"github.com/custodia-labs/granola-sync/internal/normalisers/prosemirror"
	"github.com/custodia-labs/granola-sync/internal/normalisers/transcript"
)

// Ensure SyncEngine implements the interface.
var _ driving.SyncRunner = (*SyncEngine)(nil)

// SyncEngine drives one synchronisation run: token check, fetch,
// dedup filter, per-document enrichment and delivery, then a single
// state persist at the end.
//
// Processing is strictly sequential. That keeps relative log ordering
// deterministic and rules out concurrent token-refresh races; the
// state file is read once at start and written once at end, which is
// only safe because nothing else runs concurrently.
type SyncEngine struct {
	tokens     driven.TokenProvider
	source     driven.DocumentSource
	stateStore driven.SyncStateStore
	sink       driven.DeliverySink
	classifier *Classifier

	// archive is optional; nil disables journaling.
	archive driven.DeliveryArchive

	// now is a clock hook for tests.
	now func() time.Time
}

// NewSyncEngine creates a sync engine. The archive may be nil.
func NewSyncEngine(
	tokens driven.TokenProvider,
	source driven.DocumentSource,
	stateStore driven.SyncStateStore,
	sink driven.DeliverySink,
	classifier *Classifier,
	archive driven.DeliveryArchive,
) *SyncEngine {
	return &SyncEngine{
		tokens:     tokens,
		source:     source,
		stateStore: stateStore,
		sink:       sink,
		classifier: classifier,
		archive:    archive,
		now:        time.Now,
	}
}

// Sync runs one synchronisation pass.
//
// A token failure aborts before any fetch (run-fatal, wrapped
// domain.ErrTokenUnavailable). Per-document delivery failures are
// counted and the run continues; they surface only through
// Stats.Failed. DryRun performs all fetch and extraction work but
// never delivers and never persists state.
func (e *SyncEngine) Sync(ctx context.Context, opts driving.SyncOptions) (*driving.SyncStats, error) {
	stats := &driving.SyncStats{}

	logger.Section("Authenticating")
	if _, err := e.tokens.GetToken(ctx); err != nil {
		return stats, fmt.Errorf("authenticate: %w", err)
	}

	logger.Section("Fetching")
	docs, err := e.source.FetchDocuments(ctx, opts.SinceHours)
	if err != nil {
		// Listing errors terminate pagination early; whatever was
		// gathered is still processed.
		logger.Warn("Document listing incomplete: %v", err)
	}
	stats.Total = len(docs)
	logger.Info("Found %d documents in window", stats.Total)

	state, err := e.stateStore.Load(ctx)
	if err != nil {
		return stats, fmt.Errorf("load sync state: %w", err)
	}

	var newDocs []domain.Document
	for _, doc := range docs {
		if !opts.ForceAll && state.IsSynced(doc.ID) {
			continue
		}
		newDocs = append(newDocs, doc)
	}
	stats.New = len(newDocs)
	logger.Info("New documents to sync: %d", stats.New)

	runID := uuid.New().String()

	for i := range newDocs {
		doc := &newDocs[i]
		logger.Debug("Processing: %s", doc.DisplayTitle())

		payload := e.buildPayload(ctx, doc, runID)

		if opts.DryRun {
			logger.Info("[DRY RUN] Would send: %s", doc.DisplayTitle())
			if data, err := json.MarshalIndent(payload, "", "  "); err == nil {
				logger.Debug("%s", data)
			}
			continue
		}

		if err := e.sink.Deliver(ctx, payload); err != nil {
			stats.Failed++
			logger.Error("Delivery failed for %q: %v", doc.DisplayTitle(), err)
			continue
		}

		state.MarkSynced(doc.ID)
		stats.Synced++
		e.recordDelivery(ctx, payload)
	}

	if !opts.DryRun {
		logger.Section("Persisting")
		state.LastSync = e.now()
		state.Version = domain.SyncStateVersion
		if err := e.stateStore.Save(ctx, state); err != nil {
			return stats, fmt.Errorf("save sync state: %w", err)
		}
	}

	logger.Info("Sync complete: %d synced, %d failed (%d new of %d total)",
		stats.Synced, stats.Failed, stats.New, stats.Total)
	return stats, nil
}

// buildPayload fetches the transcript and assembles the outbound
// record for one document. Enrichment is fail-open throughout: a
// missing transcript or malformed notes tree produces empty text, not
// an error.
func (e *SyncEngine) buildPayload(ctx context.Context, doc *domain.Document, runID string) *domain.Payload {
	var (
		transcriptText string
		rawTranscript  json.RawMessage
	)
	tr, raw, err := e.source.FetchTranscript(ctx, doc.ID)
	if err != nil {
		logger.Debug("No transcript for %s: %v", doc.ID, err)
	} else if tr != nil {
		transcriptText = transcript.Render(tr.Segments)
		rawTranscript = raw
	}

	notes := prosemirror.ExtractPanelText(doc.LastViewedPanel)

	payload := &domain.Payload{
		Source:        domain.PayloadSource,
		DocumentID:    doc.ID,
		Title:         doc.DisplayTitle(),
		CreatedAt:     doc.CreatedAt,
		Transcript:    transcriptText,
		Notes:         notes,
		Attendees:     attendeeList(doc.People),
		RawTranscript: rawTranscript,
		RawNotes:      doc.LastViewedPanel,
		SyncedAt:      e.now(),
		SyncRunID:     runID,
	}

	if e.classifier != nil {
		c := e.classifier.Classify(doc.Title, doc.People)
		payload.Customer = c.Customer
		payload.MeetingType = string(c.Type)
	}

	return payload
}

// recordDelivery journals a confirmed delivery. Best-effort: the
// archive never fails a run.
func (e *SyncEngine) recordDelivery(ctx context.Context, payload *domain.Payload) {
	if e.archive == nil {
		return
	}
	if err := e.archive.Record(ctx, payload); err != nil {
		logger.Warn("Could not archive delivery of %s: %v", payload.DocumentID, err)
	}
}

// attendeeList flattens attendees to e-mail addresses, falling back to
// names where no address is known.
func attendeeList(people []domain.Attendee) []string {
	if len(people) == 0 {
		return nil
	}
	out := make([]string, 0, len(people))
	for _, p := range people {
		switch {
		case p.Email != "":
			out = append(out, p.Email)
		case p.Name != "":
			out = append(out, p.Name)
		}
	}
	return out
}
