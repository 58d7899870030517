package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelcast/pkg/types"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestUserConfigService_Name(t *testing.T) {
	assert.Equal(t, "user_config", NewUserConfigService().Name())
}

func TestUserConfigService_MissingFilesAreValid(t *testing.T) {
	svc := NewUserConfigServiceWithDir(t.TempDir())
	require.NoError(t, svc.Initialize())

	providers, err := svc.UserProviders()
	require.NoError(t, err)
	assert.Empty(t, providers)

	_, ok := svc.SecretForProvider("openai")
	assert.False(t, ok)
}

func TestUserConfigService_LoadsProviders(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "providers.toml", `
[providers.MyCorp]
base_url = "https://llm.mycorp.example/v1"
models_endpoint = "/models"
models_response_path = "data"
model_id_key = "id"
auth_required = true
auth_header_prefix = "Bearer"
client_type = "openai-compatible"

[providers.anthropic]
base_url = "https://anthropic-proxy.mycorp.example/v1"
models_endpoint = "/models"
model_id_key = "id"
`)

	svc := NewUserConfigServiceWithDir(dir)
	require.NoError(t, svc.Initialize())

	providers, err := svc.UserProviders()
	require.NoError(t, err)
	require.Len(t, providers, 2)

	// Lexical order by table key, case preserved.
	assert.Equal(t, "MyCorp", providers[0].Name)
	assert.Equal(t, "anthropic", providers[1].Name)
	assert.Equal(t, "https://llm.mycorp.example/v1", providers[0].BaseURL)
	assert.True(t, providers[0].AuthRequired)
	assert.Equal(t, "Bearer", providers[0].AuthHeaderPrefix)
}

func TestUserConfigService_TableKeyWinsOverInlineName(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "providers.toml", `
[providers.alpha]
name = "something-else"
base_url = "https://alpha.example/v1"
models_endpoint = "/models"
model_id_key = "id"
`)

	svc := NewUserConfigServiceWithDir(dir)
	require.NoError(t, svc.Initialize())

	providers, err := svc.UserProviders()
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "alpha", providers[0].Name)
}

func TestUserConfigService_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "providers.toml", `[providers.broken`)

	svc := NewUserConfigServiceWithDir(dir)
	err := svc.Initialize()

	var valErr types.ConfigValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Message, "cannot parse")
}

func TestUserConfigService_Secrets(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, ".secrets.toml", `
[providers.openai]
api_key = "sk-from-secrets"

[providers.empty]
api_key = ""
`)

	svc := NewUserConfigServiceWithDir(dir)
	require.NoError(t, svc.Initialize())

	secret, ok := svc.SecretForProvider("openai")
	assert.True(t, ok)
	assert.Equal(t, "sk-from-secrets", secret)

	_, ok = svc.SecretForProvider("empty")
	assert.False(t, ok, "empty api_key should not count as a configured secret")

	_, ok = svc.SecretForProvider("missing")
	assert.False(t, ok)
}

func TestUserConfigService_ConfigDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MODELCAST_CONFIG_DIR", dir)

	svc := NewUserConfigService()
	require.NoError(t, svc.Initialize())
	assert.Equal(t, dir, svc.ConfigDir())
	assert.Equal(t, filepath.Join(dir, "providers.toml"), svc.ProvidersPath())
	assert.Equal(t, filepath.Join(dir, ".secrets.toml"), svc.SecretsPath())
}

func TestUserConfigService_NotInitialized(t *testing.T) {
	svc := NewUserConfigService()
	_, err := svc.UserProviders()
	assert.ErrorContains(t, err, "not initialized")
}
