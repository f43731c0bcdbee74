package granola

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

// DefaultPageSize is the listing page size.
const DefaultPageSize = 100

// listRequest is the body of POST /v2/get-documents.
type listRequest struct {
	Limit                 int  `json:"limit"`
	Offset                int  `json:"offset"`
	IncludeLastViewedPanel bool `json:"include_last_viewed_panel"`
}

// listResponse is the listing envelope. Documents are kept raw so the
// unmodelled vendor fields survive into Document.Raw.
type listResponse struct {
	Docs []json.RawMessage `json:"docs"`
}

// FetchDocuments pages through the document listing and returns the
// documents created within the last sinceHours hours, in API page
// order.
//
// Pagination stops exactly when a page comes back shorter than the
// page size (or empty). A transport error also stops pagination, but
// the documents gathered so far are returned alongside the error
// rather than discarded. The window filter fails open: a document
// whose created_at is missing or unparseable is always kept.
func (c *Client) FetchDocuments(ctx context.Context, sinceHours int) ([]domain.Document, error) {
	cutoff := c.now().Add(-time.Duration(sinceHours) * time.Hour)

	var all []domain.Document
	offset := 0

	for {
		logger.Debug("Fetching documents: offset=%d", offset)
		data, err := c.post(ctx, documentsPath, listRequest{
			Limit:                  c.pageSize,
			Offset:                 offset,
			IncludeLastViewedPanel: true,
		})
		if err != nil {
			return all, fmt.Errorf("list documents: %w", err)
		}

		var page listResponse
		if err := json.Unmarshal(data, &page); err != nil {
			return all, fmt.Errorf("decode document page: %w", err)
		}
		if len(page.Docs) == 0 {
			break
		}

		for _, raw := range page.Docs {
			doc, err := decodeDocument(raw)
			if err != nil {
				// Fail open: an undecodable entry is logged, never
				// silently dropped with the rest of the page intact.
				logger.Warn("Skipping undecodable document entry: %v", err)
				continue
			}
			if inWindow(&doc, cutoff) {
				all = append(all, doc)
			}
		}

		if len(page.Docs) < c.pageSize {
			break
		}
		offset += c.pageSize
	}

	return all, nil
}

// inWindow applies the time filter. Documents without a parseable
// created_at are always retained.
func inWindow(doc *domain.Document, cutoff time.Time) bool {
	created, ok := doc.CreatedTime()
	if !ok {
		return true
	}
	return !created.Before(cutoff)
}

// decodeDocument parses one listing entry, preserving unmodelled
// fields in Raw for payload passthrough.
func decodeDocument(raw json.RawMessage) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Document{}, err
	}
	for _, known := range []string{"id", "title", "created_at", "people", "last_viewed_panel"} {
		delete(fields, known)
	}
	if len(fields) > 0 {
		doc.Raw = fields
	}

	return doc, nil
}
