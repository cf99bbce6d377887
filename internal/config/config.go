package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL points at a locally running POS API.
	DefaultServerURL = "http://localhost:3001/api/v1"

	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 30 * time.Second

	configFileName = "config.yaml"
)

// Config holds CLI profile settings loaded from ~/.cloudpos/config.yaml.
// Flags and environment variables override file values.
type Config struct {
	ServerURL string        `yaml:"server_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Cache     bool          `yaml:"cache"`
	Debug     bool          `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL: DefaultServerURL,
		Timeout:   DefaultTimeout,
	}
}

// BaseDir returns the CLI state directory, creating it with 0700
// permissions if needed. An empty baseDir selects ~/.cloudpos.
func BaseDir(baseDir string) (string, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".cloudpos")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	return baseDir, nil
}

// Load reads the profile config from baseDir, falling back to defaults
// when the file does not exist. Unset fields are filled with defaults.
func Load(baseDir string) (Config, error) {
	cfg := Default()

	dir, err := BaseDir(baseDir)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

// Save writes the profile config to baseDir with 0600 permissions.
func Save(baseDir string, cfg Config) error {
	dir, err := BaseDir(baseDir)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, configFileName), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
