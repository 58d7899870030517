package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MODELCAST_CONFIG_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "openai", cfg.DefaultProvider)
	assert.Empty(t, cfg.DefaultModel)
	assert.Equal(t, 10*time.Second, cfg.DiscoveryTimeout)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
default_provider: anthropic
default_model: claude-sonnet-4-5
discovery_timeout: 30s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "anthropic", cfg.DefaultProvider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.DiscoveryTimeout)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("MODELCAST_CONFIG_DIR", t.TempDir())
	t.Setenv("MODELCAST_DEFAULT_PROVIDER", "ollama")
	t.Setenv("MODELCAST_DISCOVERY_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.DefaultProvider)
	assert.Equal(t, 5*time.Second, cfg.DiscoveryTimeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discovery_timeout: -1s\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "discovery_timeout must be positive")
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
