package granola

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
)

// TokenSourceAdapter adapts our TokenProvider interface to
// oauth2.TokenSource, so the vendor client can be built with
// oauth2.NewClient and get Authorization headers injected by the
// oauth2 transport.
type TokenSourceAdapter struct {
	provider driven.TokenProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource from a TokenProvider.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
// Called by the oauth2 transport whenever it needs an access token.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx)
	if err != nil {
		return nil, err
	}

	// Short expiry keeps oauth2's reuse layer from caching the token
	// past our provider's own refresh decisions; asking the provider
	// again is cheap because it caches internally.
	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Minute),
	}, nil
}
