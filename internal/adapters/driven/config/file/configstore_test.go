package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	t.Run("missing config file starts empty", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		_, ok := store.Get("output.file")
		assert.False(t, ok)
	})

	t.Run("loads nested tables as dotted keys", func(t *testing.T) {
		dir := t.TempDir()
		cfg := "verbose = true\n\n[output]\nfile = \"Browser.html\"\n\n[scan]\nexclude = [\"Anomaly\"]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(cfg), 0o644))

		store, err := NewConfigStore(dir)
		require.NoError(t, err)

		assert.Equal(t, "Browser.html", store.GetString("output.file"))
		assert.Equal(t, []string{"Anomaly"}, store.GetStringSlice("scan.exclude"))
		assert.True(t, store.GetBool("verbose"))
	})

	t.Run("malformed toml is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[broken"), 0o644))

		_, err := NewConfigStore(dir)
		assert.Error(t, err)
	})
}

func TestConfigStore_SetPersists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("output.file", "Custom.html"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "Custom.html", reloaded.GetString("output.file"))
}

func TestConfigStore_TypeMismatches(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("key", 42))

	assert.Equal(t, "", store.GetString("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
}
