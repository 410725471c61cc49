package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds engine settings read from an optional YAML file, with
// environment variable overrides applied on top.
type Config struct {
	// SessionsRoot is the directory session folders live under.
	SessionsRoot string `yaml:"sessions_root"`

	// RenameRetryAttempts bounds retries of renames that hit contention.
	RenameRetryAttempts int `yaml:"rename_retry_attempts"`

	// RenameRetryBackoffMS is the pause between rename attempts.
	RenameRetryBackoffMS int `yaml:"rename_retry_backoff_ms"`

	// CompNames extends the built-in comp list for status classification.
	CompNames []string `yaml:"comp_names"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		SessionsRoot:         filepath.Join(home, "anklebreaker-sessions"),
		RenameRetryAttempts:  3,
		RenameRetryBackoffMS: 150,
	}
}

// Load reads configuration from the given YAML file. A missing file is not
// an error; defaults apply. Environment overrides win over both.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if uerr := yaml.Unmarshal(data, &cfg); uerr != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, uerr)
			}
		}
	}

	cfg.applyEnv()
	if cfg.RenameRetryAttempts < 1 {
		cfg.RenameRetryAttempts = 1
	}
	if cfg.RenameRetryBackoffMS < 0 {
		cfg.RenameRetryBackoffMS = 0
	}
	return cfg, nil
}

// RenameRetryBackoff returns the backoff as a duration.
func (c Config) RenameRetryBackoff() time.Duration {
	return time.Duration(c.RenameRetryBackoffMS) * time.Millisecond
}

// applyEnv applies ANKLEBREAKER_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("ANKLEBREAKER_ROOT"); v != "" {
		c.SessionsRoot = v
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "anklebreaker.yaml"
	}
	return filepath.Join(home, ".anklebreaker.yaml")
}
