package driven

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// DocumentSource fetches meeting documents and transcripts from the
// vendor API. Implementations handle pagination, rate limiting and
// transient-error retry internally.
type DocumentSource interface {
	// FetchDocuments returns documents created within the last
	// sinceHours hours, in API page order. Documents with a missing or
	// unparseable timestamp are always included (fail-open). A listing
	// failure terminates pagination early: the documents gathered so
	// far are returned together with the error.
	FetchDocuments(ctx context.Context, sinceHours int) ([]domain.Document, error)

	// FetchTranscript returns the transcript for a document, along
	// with the raw bytes for passthrough. A (nil, nil, nil) return
	// means the document has no transcript yet.
	FetchTranscript(ctx context.Context, documentID string) (*domain.Transcript, json.RawMessage, error)
}
