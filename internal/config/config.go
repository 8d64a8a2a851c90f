// Package config provides Viper-based hierarchical configuration: defaults,
// then an optional config.yaml, then FINRECON_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// EnvPrefix prefixes every environment override, e.g. FINRECON_LOG_LEVEL.
const EnvPrefix = "FINRECON"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Remote struct {
		BaseURL          string        `mapstructure:"base_url" yaml:"base_url"`
		Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
		AnalyticsTimeout time.Duration `mapstructure:"analytics_timeout" yaml:"analytics_timeout"`
	} `mapstructure:"remote" yaml:"remote"`

	Store struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		Path   string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Categorization struct {
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Import struct {
		DefaultDescription string `mapstructure:"default_description" yaml:"default_description"`
	} `mapstructure:"import" yaml:"import"`

	User struct {
		ID string `mapstructure:"id" yaml:"id"`
	} `mapstructure:"user" yaml:"user"`
}

// InitializeConfig loads the configuration. When configFile is empty the
// standard locations are searched and a missing file is not an error.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finrecon")
		v.AddConfigPath(".finrecon")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultStorePath is the SQLite file used when store.path is not set.
func DefaultStorePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".finrecon", "finrecon.db")
	}
	return filepath.Join(".finrecon", "finrecon.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("remote.base_url", "http://127.0.0.1:8000")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("remote.analytics_timeout", 15*time.Second)

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", DefaultStorePath())

	v.SetDefault("categorization.rules_file", "rules.yaml")

	v.SetDefault("import.default_description", "Imported Expense")

	v.SetDefault("user.id", "default")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if !strings.HasPrefix(config.Remote.BaseURL, "http://") && !strings.HasPrefix(config.Remote.BaseURL, "https://") {
		return fmt.Errorf("remote.base_url must be an http(s) URL, got: %s", config.Remote.BaseURL)
	}

	if config.Remote.Timeout <= 0 || config.Remote.AnalyticsTimeout <= 0 {
		return fmt.Errorf("remote timeouts must be positive, got: %s and %s", config.Remote.Timeout, config.Remote.AnalyticsTimeout)
	}

	switch config.Store.Driver {
	case DriverSQLite:
		if config.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %s (must be '%s' or '%s')", config.Store.Driver, DriverSQLite, DriverMemory)
	}

	if strings.TrimSpace(config.Import.DefaultDescription) == "" {
		return fmt.Errorf("import.default_description must not be empty")
	}

	return nil
}
