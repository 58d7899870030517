package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"modelcast/internal/logger"
)

// ConfigurationService resolves credentials and configuration values for the
// CLI layer. The discovery subsystem itself never reads environment variables
// or prompts; it receives an opaque credential string from here.
//
// Credential precedence (highest to lowest): process environment variables >
// .env in the working directory > .env in the config directory > the user
// secrets file.
type ConfigurationService struct {
	initialized bool
	userConfig  *UserConfigService
	configEnv   map[string]string // values from <config dir>/.env
	localEnv    map[string]string // values from ./.env
}

// NewConfigurationService creates a new ConfigurationService instance.
func NewConfigurationService(userConfig *UserConfigService) *ConfigurationService {
	return &ConfigurationService{
		initialized: false,
		userConfig:  userConfig,
	}
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Initialize loads the optional .env files. A missing file is not an error.
func (c *ConfigurationService) Initialize() error {
	c.configEnv = map[string]string{}
	c.localEnv = map[string]string{}

	if c.userConfig != nil && c.userConfig.ConfigDir() != "" {
		path := filepath.Join(c.userConfig.ConfigDir(), ".env")
		if env, err := godotenv.Read(path); err == nil {
			c.configEnv = env
			logger.Debug("Loaded config .env", "path", path, "entries", len(env))
		}
	}

	if workDir, err := os.Getwd(); err == nil {
		path := filepath.Join(workDir, ".env")
		if env, err := godotenv.Read(path); err == nil {
			c.localEnv = env
			logger.Debug("Loaded local .env", "path", path, "entries", len(env))
		}
	}

	c.initialized = true
	return nil
}

// GetCredential resolves the API credential for the named provider, trying
// MODELCAST_<NAME>_API_KEY then <NAME>_API_KEY across each source in
// precedence order, then the secrets file.
func (c *ConfigurationService) GetCredential(provider string) (string, bool) {
	if !c.initialized {
		return "", false
	}

	keys := []string{
		fmt.Sprintf("MODELCAST_%s_API_KEY", envSegment(provider)),
		fmt.Sprintf("%s_API_KEY", envSegment(provider)),
	}

	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, true
		}
	}
	for _, key := range keys {
		if value := c.localEnv[key]; value != "" {
			return value, true
		}
	}
	for _, key := range keys {
		if value := c.configEnv[key]; value != "" {
			return value, true
		}
	}

	if c.userConfig != nil {
		if secret, ok := c.userConfig.SecretForProvider(provider); ok {
			return secret, true
		}
	}

	return "", false
}

// envSegment turns a provider name into its environment-variable segment:
// uppercased, with every non-alphanumeric rune collapsed to an underscore.
func envSegment(provider string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(provider) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
