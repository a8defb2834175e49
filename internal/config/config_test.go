package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "info", cfg.LogLevel)
		require.Equal(t, "osascript", cfg.OsascriptPath)
		require.Equal(t, 200, cfg.MailboxFetchCap)
		require.Equal(t, 25, cfg.DefaultListLimit)
		require.Equal(t, 0.72, cfg.FuzzyThreshold)
		require.Equal(t, 5, cfg.ReplyReadAttempts)
		require.Equal(t, 300*time.Millisecond, cfg.ReplyReadDelay)
		require.Equal(t, 5*time.Second, cfg.InitTimeout)
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("MAILBOX_FETCH_CAP", "50")
		t.Setenv("FUZZY_THRESHOLD", "0.9")
		t.Setenv("INIT_TIMEOUT", "10s")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, 50, cfg.MailboxFetchCap)
		require.Equal(t, 0.9, cfg.FuzzyThreshold)
		require.Equal(t, 10*time.Second, cfg.InitTimeout)
	})

	t.Run("malformed values are load errors", func(t *testing.T) {
		t.Setenv("MAILBOX_FETCH_CAP", "lots")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogLevel:          "info",
			OsascriptPath:     "osascript",
			MailboxFetchCap:   200,
			DefaultListLimit:  25,
			FuzzyThreshold:    0.72,
			ReplyReadAttempts: 5,
			ReplyReadDelay:    300 * time.Millisecond,
			InitTimeout:       5 * time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty osascript path", func(c *Config) { c.OsascriptPath = "" }},
		{"fetch cap too small", func(c *Config) { c.MailboxFetchCap = 0 }},
		{"fetch cap too large", func(c *Config) { c.MailboxFetchCap = 1001 }},
		{"list limit zero", func(c *Config) { c.DefaultListLimit = 0 }},
		{"threshold zero", func(c *Config) { c.FuzzyThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.FuzzyThreshold = 1.2 }},
		{"no read attempts", func(c *Config) { c.ReplyReadAttempts = 0 }},
		{"negative read delay", func(c *Config) { c.ReplyReadDelay = -time.Second }},
		{"init timeout too short", func(c *Config) { c.InitTimeout = 500 * time.Millisecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})
}
