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

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("youtube.api_key", "test-key"))
	assert.Equal(t, "test-key", store.GetString("youtube.api_key"))

	val, ok := store.Get("youtube.api_key")
	assert.True(t, ok)
	assert.Equal(t, "test-key", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("discovery.method_timeout_seconds", 45))
	require.NoError(t, store.Set("discovery.verbose", true))
	require.NoError(t, store.Set("discovery.min_confidence", 0.5))
	require.NoError(t, store.Set("discovery.keywords", []string{"resultado", "webcast"}))

	assert.Equal(t, 45, store.GetInt("discovery.method_timeout_seconds"))
	assert.True(t, store.GetBool("discovery.verbose"))
	assert.Equal(t, 0.5, store.GetFloat("discovery.min_confidence"))
	assert.Equal(t, []string{"resultado", "webcast"}, store.GetStringSlice("discovery.keywords"))
}

func TestConfigStore_MistypedKeysYieldZeroValues(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("key", "not a number"))

	assert.Equal(t, 0, store.GetInt("key"))
	assert.Equal(t, 0.0, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
}

func TestConfigStore_GetFloatConvertsIntegers(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("limit", 3))
	assert.Equal(t, 3.0, store.GetFloat("limit"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("youtube.api_key", "persisted"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "persisted", reopened.GetString("youtube.api_key"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[youtube]
api_key = "from-file"

[discovery]
batch_delay_seconds = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-file", store.GetString("youtube.api_key"))
	assert.Equal(t, 3, store.GetInt("discovery.batch_delay_seconds"))
}

func TestConfigStore_LoadMissingFileStartsEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Load())
	assert.Equal(t, "", store.GetString("anything"))
}
