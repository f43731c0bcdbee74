package driven

import (
	"context"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// CredentialStore persists the OAuth credential.
type CredentialStore interface {
	// Load reads the credential. Returns domain.ErrCredentialMissing
	// when no credential has been stored yet.
	Load(ctx context.Context) (*domain.Credential, error)

	// Save durably persists the credential. Implementations must write
	// atomically: a rotated refresh token that is lost before reaching
	// disk invalidates the session permanently.
	Save(ctx context.Context, cred *domain.Credential) error
}

// CredentialObserver is notified after a successful token rotation has
// been persisted locally. Observers are best-effort side channels: an
// observer's failure is logged by the caller and never propagated.
//
// The shipped observer mirrors rotated tokens into the Granola desktop
// app's own credential file so the app is not logged out by rotation.
type CredentialObserver interface {
	// CredentialRotated receives the freshly persisted credential.
	CredentialRotated(ctx context.Context, cred *domain.Credential) error
}
