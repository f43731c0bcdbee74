package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore persists the WorkOS credential as a JSON file.
// Fields the tool does not model are carried through a raw map so that
// hand-edited extras in the file survive a save.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a credential store at the given path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Path returns the credential file path.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load reads the credential file. A missing file returns
// domain.ErrCredentialMissing.
func (s *CredentialStore) Load(ctx context.Context) (*domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCredentialMissing, s.path)
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s has no refresh_token", domain.ErrCredentialMissing, s.path)
	}

	return &cred, nil
}

// Save writes the credential atomically with 0600 permissions and
// stamps last_refresh. Unmodelled fields already present in the file
// are preserved.
func (s *CredentialStore) Save(ctx context.Context, cred *domain.Credential) error {
	fields := map[string]json.RawMessage{}
	if existing, err := os.ReadFile(s.path); err == nil {
		// Best effort: a corrupt existing file just loses its extras.
		_ = json.Unmarshal(existing, &fields)
	}

	credJSON, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	var credFields map[string]json.RawMessage
	if err := json.Unmarshal(credJSON, &credFields); err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	for k, v := range credFields {
		fields[k] = v
	}

	stamp, err := json.Marshal(time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("encode timestamp: %w", err)
	}
	fields["last_refresh"] = stamp

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	return writeAtomic(s.path, out, 0600)
}

// writeAtomic writes data to path via a temp file in the same
// directory followed by a rename.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
