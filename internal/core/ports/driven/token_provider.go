package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle refresh (and refresh-token rotation)
// transparently.
type TokenProvider interface {
	// GetToken returns a valid, non-expired access token, refreshing
	// first if needed. A returned error wraps
	// domain.ErrTokenUnavailable and is a hard stop for the run.
	GetToken(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next GetToken refreshes.
	// Called after the vendor API rejects a token mid-run.
	Invalidate()
}
