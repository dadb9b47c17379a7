// Package config loads wgdash settings from a YAML file, following the
// usual search order: explicit --config path, then WGDASH_CONFIG, then
// ~/.config/wgdash/config.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rhalstead/wgdash/internal/errors"
)

const (
	// ConfigDir is the directory under the home directory for config.
	ConfigDir = ".config/wgdash"
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "WGDASH_CONFIG"
)

// Config is the complete wgdash configuration.
type Config struct {
	// ServerURL is the base URL of the panel, e.g. https://vpn.example.com.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`

	// PollInterval is the dashboard's stats refresh cadence.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// RequestTimeout bounds each individual API request.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// InsecureSkipVerify disables TLS certificate verification. Only for
	// panels behind self-signed certificates on trusted networks.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PollInterval:   10 * time.Second,
		RequestTimeout: 15 * time.Second,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set HOME, or pass --config explicitly")
	}
	return filepath.Join(home, ConfigDir, ConfigFileName), nil
}

// Find locates the config file: explicit path, then $WGDASH_CONFIG, then the
// default location. Returns "" when none exists.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	if env := os.Getenv(EnvConfigPath); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
	}

	path, err := DefaultPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'wgdash init' to create one, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config file: "+path,
			"Check field names and value types")
	}
	return cfg, nil
}

// LoadOrDefault loads the found config file, or returns defaults when none
// exists. Commands that can work from flags alone use this.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Write saves the config as YAML at path, creating parent directories.
func Write(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory",
			"Check directory permissions")
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode config", "")
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file: "+path,
			"Check file permissions")
	}
	return nil
}
