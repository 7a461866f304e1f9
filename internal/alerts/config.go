package alerts

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds alert side-effect settings. Empty NtfyTopic disables push
// alerts; empty audio files disable playback.
type Config struct {
	NtfyTopic   string `toml:"ntfy_topic"`
	ToxicFile   string `toml:"toxic_file"`
	SafeFile    string `toml:"safe_file"`
	Player      string `toml:"player"`
	Timeout     string `toml:"timeout"`
	MaxInFlight int    `toml:"max_in_flight"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	NtfyTopic   string
	ToxicFile   string
	SafeFile    string
	Player      string
	Timeout     string
	MaxInFlight string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.NtfyTopic != "" {
		c.NtfyTopic = overlay.NtfyTopic
	}
	if overlay.ToxicFile != "" {
		c.ToxicFile = overlay.ToxicFile
	}
	if overlay.SafeFile != "" {
		c.SafeFile = overlay.SafeFile
	}
	if overlay.Player != "" {
		c.Player = overlay.Player
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxInFlight != 0 {
		c.MaxInFlight = overlay.MaxInFlight
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.MaxInFlight == 0 {
		c.MaxInFlight = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.NtfyTopic != "" {
		if v := os.Getenv(env.NtfyTopic); v != "" {
			c.NtfyTopic = v
		}
	}
	if env.ToxicFile != "" {
		if v := os.Getenv(env.ToxicFile); v != "" {
			c.ToxicFile = v
		}
	}
	if env.SafeFile != "" {
		if v := os.Getenv(env.SafeFile); v != "" {
			c.SafeFile = v
		}
	}
	if env.Player != "" {
		if v := os.Getenv(env.Player); v != "" {
			c.Player = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxInFlight != "" {
		if v := os.Getenv(env.MaxInFlight); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxInFlight = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MaxInFlight < 1 {
		return fmt.Errorf("max_in_flight must be positive")
	}
	return nil
}
