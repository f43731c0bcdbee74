package granola

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

const (
	// DefaultBaseURL is the production Granola API endpoint.
	DefaultBaseURL = "https://api.granola.ai"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of attempts for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries; it doubles per
	// attempt.
	RetryDelay = time.Second

	// clientVersion mirrors the desktop app build the API expects to
	// see in client-identification headers.
	clientVersion = "5.354.0"

	documentsPath  = "/v2/get-documents"
	transcriptPath = "/v1/get-document-transcript"
)

// Client talks to the Granola API. It implements driven.DocumentSource.
type Client struct {
	http     *http.Client
	baseURL  string
	tokens   driven.TokenProvider
	limiter  *RateLimiter
	pageSize int

	// retryDelay is the initial backoff; overridable in tests.
	retryDelay time.Duration

	// now is a clock hook for tests.
	now func() time.Time
}

var _ driven.DocumentSource = (*Client)(nil)

// NewClient creates a Granola API client. The oauth2 transport over
// the token provider injects Authorization headers, so a mid-run token
// refresh is picked up transparently.
func NewClient(ctx context.Context, tokens driven.TokenProvider) *Client {
	hc := oauth2.NewClient(ctx, NewTokenSource(ctx, tokens))
	hc.Timeout = DefaultTimeout

	return &Client{
		http:       hc,
		baseURL:    DefaultBaseURL,
		tokens:     tokens,
		limiter:    NewRateLimiter(),
		pageSize:   DefaultPageSize,
		retryDelay: RetryDelay,
		now:        time.Now,
	}
}

// NewClientWithBaseURL creates a client against a non-production
// endpoint. Used in tests.
func NewClientWithBaseURL(ctx context.Context, tokens driven.TokenProvider, baseURL string) *Client {
	c := NewClient(ctx, tokens)
	c.baseURL = baseURL
	return c
}

// post performs one logical POST with bounded retry on transient
// failures. The request body is rebuilt per attempt. A 401 invalidates
// the cached token once so the next attempt runs with a fresh one.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + path
	var lastErr error
	invalidated := false

	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			logger.Debug("Retrying %s in %s (attempt %d/%d)", path, delay, attempt+1, MaxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("User-Agent", "Granola/"+clientVersion)
		req.Header.Set("X-Client-Version", clientVersion)

		resp, err := c.http.Do(req)
		if err != nil {
			// Connection-level failure: retryable.
			lastErr = fmt.Errorf("post %s: %w", path, err)
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				return nil, fmt.Errorf("read response: %w", readErr)
			}
			return data, nil

		case resp.StatusCode == http.StatusUnauthorized && !invalidated:
			// Stale cached token; refresh and retry once.
			c.tokens.Invalidate()
			invalidated = true
			lastErr = apiError(resp.StatusCode, data, url)
			continue

		case isRetryable(resp.StatusCode):
			if resp.StatusCode == http.StatusTooManyRequests {
				retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
				c.limiter.RecordRateLimitError(retryAfter)
			}
			lastErr = apiError(resp.StatusCode, data, url)
			continue

		default:
			return nil, apiError(resp.StatusCode, data, url)
		}
	}

	return nil, lastErr
}

// apiError builds an APIError from a response body, which may or may
// not carry a JSON message field.
func apiError(status int, body []byte, url string) *APIError {
	msg := http.StatusText(status)
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			msg = parsed.Message
		} else if parsed.Error != "" {
			msg = parsed.Error
		}
	}
	return &APIError{StatusCode: status, Message: msg, URL: url}
}
