package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the application configuration, loaded from environment
// variables.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// OsascriptPath is the script interpreter binary used to reach Mail.app.
	OsascriptPath string `env:"OSASCRIPT_PATH" envDefault:"osascript"`

	// MailboxFetchCap bounds how many recently indexed messages a single
	// per-mailbox bridge call may return.
	MailboxFetchCap int `env:"MAILBOX_FETCH_CAP" envDefault:"200"`

	// DefaultListLimit applies when a list request carries no explicit limit.
	DefaultListLimit int `env:"DEFAULT_LIST_LIMIT" envDefault:"25"`

	// FuzzyThreshold is the minimum similarity for a search match, in (0, 1].
	FuzzyThreshold float64 `env:"FUZZY_THRESHOLD" envDefault:"0.72"`

	// ReplyReadAttempts and ReplyReadDelay bound the poll for reply content
	// the mail application populates asynchronously.
	ReplyReadAttempts int           `env:"REPLY_READ_ATTEMPTS" envDefault:"5"`
	ReplyReadDelay    time.Duration `env:"REPLY_READ_DELAY" envDefault:"300ms"`

	// InitTimeout bounds the startup connectivity check; on expiry the
	// server starts in degraded mode instead of blocking.
	InitTimeout time.Duration `env:"INIT_TIMEOUT" envDefault:"5s"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.OsascriptPath == "" {
		return fmt.Errorf("OSASCRIPT_PATH is required")
	}
	if c.MailboxFetchCap < 1 || c.MailboxFetchCap > 1000 {
		return fmt.Errorf("MAILBOX_FETCH_CAP must be between 1 and 1000")
	}
	if c.DefaultListLimit < 1 {
		return fmt.Errorf("DEFAULT_LIST_LIMIT must be at least 1")
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("FUZZY_THRESHOLD must be in (0, 1]")
	}
	if c.ReplyReadAttempts < 1 {
		return fmt.Errorf("REPLY_READ_ATTEMPTS must be at least 1")
	}
	if c.ReplyReadDelay < 0 {
		return fmt.Errorf("REPLY_READ_DELAY must not be negative")
	}
	if c.InitTimeout < time.Second {
		return fmt.Errorf("INIT_TIMEOUT must be at least 1s")
	}
	return nil
}
