// Package config reads dsm settings from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// FileName is the contexts file created under the config directory.
const FileName = "discord_send_message.json"

type Config struct {
	ConfigDir string `env:"XDG_CONFIG_DIR"` // falls back to $HOME/.config
	Home      string `env:"HOME"`
	File      string `env:"DSM_CONFIG"` // full path override

	Timeout  time.Duration `env:"DSM_TIMEOUT" envDefault:"15s"`
	LogLevel string        `env:"DSM_LOG_LEVEL" envDefault:"warn"`

	// Webhook display overrides (optional)
	Username  string `env:"DSM_USERNAME"`
	AvatarURL string `env:"DSM_AVATAR_URL"`
}

func Load() (*Config, error) {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if c.Timeout < 0 {
		return nil, fmt.Errorf("DSM_TIMEOUT: must not be negative, got %s", c.Timeout)
	}
	return c, nil
}

// Path returns the contexts file location.
func (c *Config) Path() string {
	if c.File != "" {
		return c.File
	}
	dir := c.ConfigDir
	if dir == "" {
		home := c.Home
		if home == "" {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, FileName)
}
