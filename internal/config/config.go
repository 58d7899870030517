// Package config loads application-level settings for modelcast.
//
// Provider descriptors and credentials live in the user config directory and
// are handled by the services layer; this package covers the remaining knobs
// (logging, default model selection, discovery timeout) sourced from an
// optional config file and MODELCAST_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application settings for modelcast.
type Config struct {
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	DefaultProvider  string        `mapstructure:"default_provider"`
	DefaultModel     string        `mapstructure:"default_model"`
	DiscoveryTimeout time.Duration `mapstructure:"discovery_timeout"`
	SystemPrompt     string        `mapstructure:"system_prompt"`
}

// Load reads settings from file, environment, and defaults. An empty cfgFile
// falls back to config.yaml in the working directory or the modelcast config
// directory; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("default_provider", "openai")
	v.SetDefault("default_model", "")
	v.SetDefault("discovery_timeout", "10s")
	v.SetDefault("system_prompt", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultConfigDir())
	}

	v.SetEnvPrefix("MODELCAST")
	v.AutomaticEnv()

	_ = v.BindEnv("log_level", "MODELCAST_LOG_LEVEL")
	_ = v.BindEnv("log_file", "MODELCAST_LOG_FILE")
	_ = v.BindEnv("default_provider", "MODELCAST_DEFAULT_PROVIDER")
	_ = v.BindEnv("default_model", "MODELCAST_DEFAULT_MODEL")
	_ = v.BindEnv("discovery_timeout", "MODELCAST_DISCOVERY_TIMEOUT")
	_ = v.BindEnv("system_prompt", "MODELCAST_SYSTEM_PROMPT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DiscoveryTimeout <= 0 {
		return nil, fmt.Errorf("discovery_timeout must be positive, got %s", cfg.DiscoveryTimeout)
	}

	return &cfg, nil
}

func defaultConfigDir() string {
	if dir := os.Getenv("MODELCAST_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".modelcast")
}
