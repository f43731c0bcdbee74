// Package webhook delivers meeting payloads to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

const (
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxAttempts bounds delivery retries per payload.
	MaxAttempts = 3

	// RetryDelay is the initial delay between attempts; it doubles per
	// attempt.
	RetryDelay = time.Second
)

// Ensure Sink implements the interface.
var _ driven.DeliverySink = (*Sink)(nil)

// Sink posts payloads as JSON to a webhook URL. Transient failures
// (connection errors, 429 and 5xx responses) are retried with
// exponential backoff; anything else fails the delivery immediately.
type Sink struct {
	http *http.Client
	url  string

	// retryDelay is the initial backoff; overridable in tests.
	retryDelay time.Duration
}

// NewSink creates a webhook sink for the given URL.
func NewSink(url string) *Sink {
	return &Sink{
		http:       &http.Client{Timeout: DefaultTimeout},
		url:        url,
		retryDelay: RetryDelay,
	}
}

// Deliver posts one payload. Errors wrap domain.ErrDeliveryFailed so
// callers can count failures without string matching.
func (s *Sink) Deliver(ctx context.Context, payload *domain.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload for %q: %v", domain.ErrDeliveryFailed, payload.Title, err)
	}

	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.retryDelay << (attempt - 1)
			logger.Debug("Retrying delivery of %q in %s (attempt %d/%d)", payload.Title, delay, attempt+1, MaxAttempts)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, ctx.Err())
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: create request: %v", domain.ErrDeliveryFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: post %q: %v", domain.ErrDeliveryFailed, payload.Title, err)
			continue
		}

		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: webhook returned %d for %q", domain.ErrDeliveryFailed, resp.StatusCode, payload.Title)
			continue
		default:
			return fmt.Errorf("%w: webhook returned %d for %q", domain.ErrDeliveryFailed, resp.StatusCode, payload.Title)
		}
	}

	return lastErr
}
