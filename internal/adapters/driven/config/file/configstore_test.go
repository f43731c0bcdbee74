package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString(KeyWebhookURL))
	assert.Equal(t, 0, store.GetInt(KeySyncHours))
	assert.Nil(t, store.GetStringSlice(KeyInternalDomains))
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyWebhookURL, "https://hooks.example.com/granola"))
	require.NoError(t, store.Set(KeySyncHours, int64(48)))
	require.NoError(t, store.Set(KeyInternalDomains, []string{"acme.com", "acme.io"}))

	assert.Equal(t, "https://hooks.example.com/granola", store.GetString(KeyWebhookURL))
	assert.Equal(t, 48, store.GetInt(KeySyncHours))
	assert.Equal(t, []string{"acme.com", "acme.io"}, store.GetStringSlice(KeyInternalDomains))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyWebhookURL, "https://hooks.example.com/a"))
	require.NoError(t, first.Set(KeySyncHours, int64(12)))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/a", second.GetString(KeyWebhookURL))
	assert.Equal(t, 12, second.GetInt(KeySyncHours))
}

func TestConfigStore_LoadsNestedTables(t *testing.T) {
	dir := t.TempDir()
	raw := "[webhook]\nurl = \"https://hooks.example.com/t\"\n\n[sync]\nhours = 6\n\n[classification]\ninternal_domains = [\"acme.com\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(raw), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com/t", store.GetString(KeyWebhookURL))
	assert.Equal(t, 6, store.GetInt(KeySyncHours))
	assert.Equal(t, []string{"acme.com"}, store.GetStringSlice(KeyInternalDomains))
}

func TestConfigStore_WrongTypeReturnsZeroValue(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeySyncHours, "not a number"))

	assert.Equal(t, 0, store.GetInt(KeySyncHours))
	assert.Equal(t, "not a number", store.GetString(KeySyncHours))
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"top": "value",
		"a": map[string]any{
			"b": int64(1),
			"c": map[string]any{
				"d": true,
			},
		},
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, "value", flat["top"])
	assert.Equal(t, int64(1), flat["a.b"])
	assert.Equal(t, true, flat["a.c.d"])
}
