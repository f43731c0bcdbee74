package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of
// driven.CredentialStore.
type CredentialStore struct {
	mu   sync.RWMutex
	cred *domain.Credential
}

// NewCredentialStore creates an in-memory credential store, optionally
// seeded with a credential.
func NewCredentialStore(cred *domain.Credential) *CredentialStore {
	return &CredentialStore{cred: cred}
}

// Load returns the stored credential.
func (s *CredentialStore) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, domain.ErrCredentialMissing
	}
	cred := *s.cred
	return &cred, nil
}

// Save stores the credential.
func (s *CredentialStore) Save(_ context.Context, cred *domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cred
	s.cred = &copied
	return nil
}
