package domain

import "time"

// TokenBuffer is the safety margin before the recorded expiry at which
// an access token is already treated as expired, so a refresh happens
// before the token actually lapses mid-run.
const TokenBuffer = 5 * time.Minute

// Credential is the OAuth session against the identity provider.
//
// RefreshToken and ClientID are the durable half: both must be present
// for any refresh attempt. AccessToken and TokenExpiry are a cache and
// are always reconstructable by refreshing. The identity provider
// rotates refresh tokens on every use, so RefreshToken is replaced
// after each successful refresh and must be persisted immediately.
type Credential struct {
	// RefreshToken is exchanged for new access tokens. Rotated on use.
	RefreshToken string `json:"refresh_token"`
	// ClientID identifies the OAuth client at the identity provider.
	ClientID string `json:"client_id"`
	// AccessToken is the cached bearer token, possibly stale.
	AccessToken string `json:"access_token,omitempty"`
	// TokenExpiry is when AccessToken lapses. Zero means unknown.
	TokenExpiry time.Time `json:"token_expiry,omitempty"`
}

// CanRefresh reports whether the credential carries everything a
// refresh attempt needs.
func (c *Credential) CanRefresh() bool {
	return c.RefreshToken != "" && c.ClientID != ""
}

// Expired reports whether the cached access token is unusable.
// A missing token or unknown expiry counts as expired; otherwise the
// token is expired once now reaches expiry minus the buffer.
func (c *Credential) Expired(now time.Time, buffer time.Duration) bool {
	if c.AccessToken == "" || c.TokenExpiry.IsZero() {
		return true
	}
	return !now.Before(c.TokenExpiry.Add(-buffer))
}
