package mirror

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

func writeSupabaseFile(t *testing.T, tokens map[string]any, extra map[string]any) string {
	t.Helper()

	inner, err := json.Marshal(tokens)
	require.NoError(t, err)

	outer := map[string]any{"workos_tokens": string(inner)}
	for k, v := range extra {
		outer[k] = v
	}
	data, err := json.Marshal(outer)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "supabase.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func readSupabaseFile(t *testing.T, path string) (map[string]json.RawMessage, map[string]json.RawMessage) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var outer map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &outer))

	var inner string
	require.NoError(t, json.Unmarshal(outer["workos_tokens"], &inner))

	var tokens map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(inner), &tokens))

	return outer, tokens
}

func TestSupabaseMirror_CredentialRotated_UpdatesTokens(t *testing.T) {
	path := writeSupabaseFile(t,
		map[string]any{
			"refresh_token": "rt-old",
			"access_token":  "at-old",
			"user_id":       "user-1",
		},
		map[string]any{"theme": "dark"},
	)

	m := NewSupabaseMirror(path)
	err := m.CredentialRotated(context.Background(), &domain.Credential{
		RefreshToken: "rt-new",
		AccessToken:  "at-new",
	})
	require.NoError(t, err)

	outer, tokens := readSupabaseFile(t, path)

	assert.JSONEq(t, `"rt-new"`, string(tokens["refresh_token"]))
	assert.JSONEq(t, `"at-new"`, string(tokens["access_token"]))

	// Untouched fields survive in both layers.
	assert.JSONEq(t, `"user-1"`, string(tokens["user_id"]))
	assert.JSONEq(t, `"dark"`, string(outer["theme"]))
}

func TestSupabaseMirror_CredentialRotated_MissingFileIsSilent(t *testing.T) {
	m := NewSupabaseMirror(filepath.Join(t.TempDir(), "does-not-exist.json"))

	err := m.CredentialRotated(context.Background(), &domain.Credential{RefreshToken: "rt"})
	assert.NoError(t, err)
}

func TestSupabaseMirror_CredentialRotated_MalformedFileNeverErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supabase.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	m := NewSupabaseMirror(path)
	err := m.CredentialRotated(context.Background(), &domain.Credential{RefreshToken: "rt"})
	assert.NoError(t, err)

	// File left as it was.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestSupabaseMirror_CredentialRotated_NoTokensFieldNeverErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supabase.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0600))

	m := NewSupabaseMirror(path)
	err := m.CredentialRotated(context.Background(), &domain.Credential{RefreshToken: "rt"})
	assert.NoError(t, err)
}
