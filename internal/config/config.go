package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	ServerURL string // OTQ_SERVER (default "http://localhost:8080")
	NATSURL   string // OTQ_NATS_URL (optional, empty = poll for queue updates)
	StateDir  string // OTQ_STATE_DIR (default "~/.local/state/otq")
	LogLevel  string // OTQ_LOG_LEVEL (default "info")

	// PollInterval controls how often queue admission status is checked
	// while waiting. OTQ_POLL_INTERVAL (default 2s).
	PollInterval time.Duration
}

func Load() (*Config, error) {
	c := &Config{
		ServerURL: envOrDefault("OTQ_SERVER", "http://localhost:8080"),
		NATSURL:   os.Getenv("OTQ_NATS_URL"),
		StateDir:  os.Getenv("OTQ_STATE_DIR"),
		LogLevel:  envOrDefault("OTQ_LOG_LEVEL", "info"),
	}

	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.StateDir = filepath.Join(home, ".local", "state", "otq")
	}

	intervalStr := envOrDefault("OTQ_POLL_INTERVAL", "2s")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("OTQ_POLL_INTERVAL: %w", err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("OTQ_POLL_INTERVAL must be positive, got %s", d)
	}
	c.PollInterval = d

	return c, nil
}

// TokensPath returns the location of the persisted token file.
func (c *Config) TokensPath() string {
	return filepath.Join(c.StateDir, "tokens.toml")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
