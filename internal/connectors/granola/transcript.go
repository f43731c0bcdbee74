package granola

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// transcriptRequest is the body of POST /v1/get-document-transcript.
type transcriptRequest struct {
	DocumentID string `json:"document_id"`
}

// FetchTranscript returns the transcript for a document plus the raw
// response bytes for payload passthrough. A 404 means the document has
// no transcript yet and yields (nil, nil, nil).
func (c *Client) FetchTranscript(ctx context.Context, documentID string) (*domain.Transcript, json.RawMessage, error) {
	data, err := c.post(ctx, transcriptPath, transcriptRequest{DocumentID: documentID})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("fetch transcript %s: %w", documentID, err)
	}

	var tr domain.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, nil, fmt.Errorf("decode transcript %s: %w", documentID, err)
	}

	return &tr, json.RawMessage(data), nil
}
