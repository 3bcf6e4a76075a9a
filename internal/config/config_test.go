package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.DebounceWindow())
	assert.Empty(t, cfg.Remote.URL)
	assert.NotEmpty(t, cfg.Cache.Path)
}

func TestLoad_FullDocument(t *testing.T) {
	path := writeConfig(t, `
remote:
  url: https://store.example.com
  api_key: secret
sync:
  debounce_ms: 250
cache:
  path: /tmp/journal.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://store.example.com", cfg.Remote.URL)
	assert.Equal(t, "secret", cfg.Remote.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceWindow())
	assert.Equal(t, "/tmp/journal.db", cfg.Cache.Path)
}

func TestLoad_OmittedFieldsKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
remote:
  url: https://store.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Sync.DebounceMS)
	assert.NotEmpty(t, cfg.Cache.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "remote: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveDebounce(t *testing.T) {
	path := writeConfig(t, `
sync:
  debounce_ms: -5
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "debounce_ms")
}
