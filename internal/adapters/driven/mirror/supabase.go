// Package mirror keeps the Granola desktop app's credential cache in
// step with rotated tokens, so the app and this tool do not race each
// other with stale refresh tokens.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
	"github.com/custodia-labs/granola-sync/internal/logger"
)

// Ensure SupabaseMirror implements the CredentialObserver interface.
var _ driven.CredentialObserver = (*SupabaseMirror)(nil)

// SupabaseMirror writes rotated tokens back into the desktop app's
// supabase.json cache. The file's workos_tokens field holds a
// JSON-encoded string (JSON inside JSON); only refresh_token and
// access_token inside it are touched, every other field in both layers
// is preserved verbatim.
//
// The mirror is strictly best effort: a missing file means the desktop
// app is not installed on this machine and is skipped silently, and
// every other failure is logged rather than returned so a cosmetic
// mirror problem can never abort a rotation that already succeeded.
type SupabaseMirror struct {
	path string
}

// NewSupabaseMirror creates a mirror for the given supabase.json path.
func NewSupabaseMirror(path string) *SupabaseMirror {
	return &SupabaseMirror{path: path}
}

// CredentialRotated implements driven.CredentialObserver.
func (m *SupabaseMirror) CredentialRotated(_ context.Context, cred *domain.Credential) error {
	if err := m.update(cred); err != nil {
		logger.Warn("Could not mirror tokens to %s: %v", m.path, err)
	}
	return nil
}

func (m *SupabaseMirror) update(cred *domain.Credential) error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No supabase.json at %s, skipping mirror", m.path)
			return nil
		}
		return err
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return err
	}

	rawTokens, ok := outer["workos_tokens"]
	if !ok {
		return errors.New("no workos_tokens field")
	}

	// workos_tokens is a JSON string whose value is itself JSON.
	var inner string
	if err := json.Unmarshal(rawTokens, &inner); err != nil {
		return err
	}

	var tokens map[string]json.RawMessage
	if err := json.Unmarshal([]byte(inner), &tokens); err != nil {
		return err
	}

	refreshJSON, err := json.Marshal(cred.RefreshToken)
	if err != nil {
		return err
	}
	accessJSON, err := json.Marshal(cred.AccessToken)
	if err != nil {
		return err
	}
	tokens["refresh_token"] = refreshJSON
	tokens["access_token"] = accessJSON

	innerOut, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	rawOut, err := json.Marshal(string(innerOut))
	if err != nil {
		return err
	}
	outer["workos_tokens"] = rawOut

	out, err := json.Marshal(outer)
	if err != nil {
		return err
	}

	info, err := os.Stat(m.path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, out, info.Mode().Perm()); err != nil {
		return err
	}

	logger.Debug("Mirrored rotated tokens to %s", m.path)
	return nil
}
