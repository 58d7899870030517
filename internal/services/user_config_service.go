package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

const (
	configDirName     = ".modelcast"
	providersFileName = "providers.toml"
	secretsFileName   = ".secrets.toml"
)

// userProvidersFile mirrors the on-disk providers.toml layout: a top-level
// "providers" table whose keys are provider names.
type userProvidersFile struct {
	Providers map[string]types.ProviderSpec `toml:"providers"`
}

// userSecretsFile mirrors the on-disk .secrets.toml layout.
type userSecretsFile struct {
	Providers map[string]struct {
		APIKey string `toml:"api_key"`
	} `toml:"providers"`
}

// UserConfigService reads the user's provider overrides and secrets from the
// modelcast configuration directory. File contents are parsed once at
// initialization; a missing file is a valid empty override set.
//
// providers.toml is parsed with go-toml rather than viper: provider names are
// case-sensitive registry keys and viper lowercases map keys.
type UserConfigService struct {
	initialized bool
	configDir   string
	providers   []types.ProviderSpec
	secrets     map[string]string
}

// NewUserConfigService creates a service reading from the default
// configuration directory (~/.modelcast, overridable with
// MODELCAST_CONFIG_DIR).
func NewUserConfigService() *UserConfigService {
	return &UserConfigService{}
}

// NewUserConfigServiceWithDir creates a service reading from an explicit
// configuration directory. Used by tests.
func NewUserConfigServiceWithDir(dir string) *UserConfigService {
	return &UserConfigService{configDir: dir}
}

// Name returns the service name "user_config" for registration.
func (u *UserConfigService) Name() string {
	return "user_config"
}

// Initialize locates the configuration directory and parses both files.
func (u *UserConfigService) Initialize() error {
	if u.configDir == "" {
		dir, err := defaultConfigDir()
		if err != nil {
			return err
		}
		u.configDir = dir
	}

	providers, err := u.loadProviders()
	if err != nil {
		return err
	}

	secrets, err := u.loadSecrets()
	if err != nil {
		return err
	}

	u.providers = providers
	u.secrets = secrets
	u.initialized = true
	logger.Debug("User configuration loaded", "dir", u.configDir, "providers", len(providers))
	return nil
}

// ConfigDir returns the resolved configuration directory.
func (u *UserConfigService) ConfigDir() string {
	return u.configDir
}

// ProvidersPath returns the path of the user provider-overrides file.
func (u *UserConfigService) ProvidersPath() string {
	return filepath.Join(u.configDir, providersFileName)
}

// SecretsPath returns the path of the user secrets file.
func (u *UserConfigService) SecretsPath() string {
	return filepath.Join(u.configDir, secretsFileName)
}

// UserProviders returns the user's provider descriptors in lexical name
// order. TOML tables carry no declaration order through parsing, so lexical
// order keeps registry resolution deterministic.
func (u *UserConfigService) UserProviders() ([]types.ProviderSpec, error) {
	if !u.initialized {
		return nil, fmt.Errorf("user config service not initialized")
	}

	out := make([]types.ProviderSpec, len(u.providers))
	copy(out, u.providers)
	return out, nil
}

// SecretForProvider returns the api_key stored for the named provider in the
// secrets file, if any.
func (u *UserConfigService) SecretForProvider(name string) (string, bool) {
	if !u.initialized {
		return "", false
	}
	secret, ok := u.secrets[name]
	return secret, ok && secret != ""
}

func (u *UserConfigService) loadProviders() ([]types.ProviderSpec, error) {
	data, err := os.ReadFile(u.ProvidersPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u.ProvidersPath(), err)
	}

	var file userProvidersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, types.ConfigValidationError{
			Message: fmt.Sprintf("cannot parse %s: %v", u.ProvidersPath(), err),
		}
	}

	names := make([]string, 0, len(file.Providers))
	for name := range file.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]types.ProviderSpec, 0, len(names))
	for _, name := range names {
		spec := file.Providers[name]
		// The table key is the registry key; an inline name field
		// cannot contradict it.
		spec.Name = name
		specs = append(specs, spec)
	}

	return specs, nil
}

func (u *UserConfigService) loadSecrets() (map[string]string, error) {
	secrets := make(map[string]string)

	data, err := os.ReadFile(u.SecretsPath())
	if os.IsNotExist(err) {
		return secrets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u.SecretsPath(), err)
	}

	var file userSecretsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, types.ConfigValidationError{
			Message: fmt.Sprintf("cannot parse %s: %v", u.SecretsPath(), err),
		}
	}

	for name, entry := range file.Providers {
		secrets[name] = entry.APIKey
	}

	return secrets, nil
}

// defaultConfigDir resolves the user-writable configuration location.
func defaultConfigDir() (string, error) {
	if dir := os.Getenv("MODELCAST_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}
