// Package auth provides access tokens for the Granola API, refreshing
// them against WorkOS when they approach expiry.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

const (
	// DefaultTokenURL is the WorkOS user-management token endpoint
	// Granola authenticates against.
	DefaultTokenURL = "https://api.workos.com/user_management/authenticate"

	// refreshTimeout bounds a single refresh round trip.
	refreshTimeout = 30 * time.Second

	// defaultExpiresIn is assumed when the token response omits
	// expires_in.
	defaultExpiresIn = 3600
)

// Ensure TokenManager implements the TokenProvider interface.
var _ driven.TokenProvider = (*TokenManager)(nil)

// TokenManager provides OAuth access tokens with automatic refresh and
// refresh-token rotation. WorkOS issues a new refresh token on every
// refresh and invalidates the old one, so the rotated credential is
// persisted before anything else happens: losing it means the user has
// to re-authenticate from scratch.
type TokenManager struct {
	store     driven.CredentialStore
	observers []driven.CredentialObserver
	http      *http.Client
	tokenURL  string

	mu          sync.RWMutex
	cachedToken string
	cacheExpiry time.Time
	buffer      time.Duration
	now         func() time.Time
}

// NewTokenManager creates a token manager backed by the given
// credential store. Observers are notified after every successful
// rotation; their failures are logged and swallowed.
func NewTokenManager(store driven.CredentialStore, observers ...driven.CredentialObserver) *TokenManager {
	return &TokenManager{
		store:     store,
		observers: observers,
		http:      &http.Client{Timeout: refreshTimeout},
		tokenURL:  DefaultTokenURL,
		buffer:    domain.TokenBuffer,
		now:       time.Now,
	}
}

// NewTokenManagerWithURL creates a token manager against a
// non-production token endpoint. Used in tests.
func NewTokenManagerWithURL(store driven.CredentialStore, tokenURL string, observers ...driven.CredentialObserver) *TokenManager {
	m := NewTokenManager(store, observers...)
	m.tokenURL = tokenURL
	return m
}

// GetToken returns a valid access token, refreshing if necessary.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock
	m.mu.RLock()
	if m.cachedToken != "" && m.now().Before(m.cacheExpiry) {
		token := m.cachedToken
		m.mu.RUnlock()
		return token, nil
	}
	m.mu.RUnlock()

	// Slow path: need refresh, acquire write lock
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if m.cachedToken != "" && m.now().Before(m.cacheExpiry) {
		return m.cachedToken, nil
	}

	cred, err := m.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if !cred.CanRefresh() {
		return "", fmt.Errorf("%w: no refresh token on file, run 'granola-sync auth set'", domain.ErrCredentialMissing)
	}

	if cred.Expired(m.now(), m.buffer) {
		cred, err = m.refresh(ctx, cred)
		if err != nil {
			return "", err
		}
	}

	m.cachedToken = cred.AccessToken
	m.cacheExpiry = cred.TokenExpiry.Add(-m.buffer)

	return m.cachedToken, nil
}

// ForceRefresh refreshes the token unconditionally, bypassing the
// expiry check. Backs the 'auth refresh' command.
func (m *TokenManager) ForceRefresh(ctx context.Context) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if !cred.CanRefresh() {
		return nil, fmt.Errorf("%w: no refresh token on file, run 'granola-sync auth set'", domain.ErrCredentialMissing)
	}

	cred, err = m.refresh(ctx, cred)
	if err != nil {
		return nil, err
	}

	m.cachedToken = cred.AccessToken
	m.cacheExpiry = cred.TokenExpiry.Add(-m.buffer)

	return cred, nil
}

// Invalidate clears the cached token so the next GetToken re-evaluates
// the stored credential.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachedToken = ""
	m.cacheExpiry = time.Time{}
}

// tokenResponse is the WorkOS authenticate response. Unlike classic
// OAuth endpoints WorkOS takes and returns JSON bodies.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// refresh performs the WorkOS token refresh and persists the rotated
// credential. Callers must hold the write lock.
func (m *TokenManager) refresh(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	logger.Debug("Refreshing access token")

	body, err := json.Marshal(map[string]string{
		"client_id":     cred.ClientID,
		"grant_type":    "refresh_token",
		"refresh_token": cred.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read refresh response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		// The refresh token was rejected. Retrying cannot help; the
		// user has to capture a fresh one from the desktop app.
		return nil, fmt.Errorf("%w: token endpoint returned %d", domain.ErrRefreshTokenInvalid, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: token endpoint returned %d", domain.ErrTokenUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("%w: token endpoint returned no access token", domain.ErrTokenUnavailable)
	}
	if tr.ExpiresIn <= 0 {
		tr.ExpiresIn = defaultExpiresIn
	}

	rotated := *cred
	rotated.AccessToken = tr.AccessToken
	rotated.TokenExpiry = m.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	if tr.RefreshToken != "" {
		rotated.RefreshToken = tr.RefreshToken
	}

	// Persist the rotation before anything else. The old refresh token
	// is already dead server-side.
	if err := m.store.Save(ctx, &rotated); err != nil {
		return nil, fmt.Errorf("save rotated credentials: %w", err)
	}

	for _, obs := range m.observers {
		if err := obs.CredentialRotated(ctx, &rotated); err != nil {
			logger.Warn("Credential observer failed: %v", err)
		}
	}

	return &rotated, nil
}
