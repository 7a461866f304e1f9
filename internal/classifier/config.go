package classifier

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds model serving parameters.
type Config struct {
	Endpoint    string `toml:"endpoint"`
	Model       string `toml:"model"`
	ClassesFile string `toml:"classes_file"`
	InputSize   int    `toml:"input_size"`
	MaxPixels   int64  `toml:"max_pixels"`
	Timeout     string `toml:"timeout"`
}

// DefaultMaxPixels bounds the declared dimensions of an upload.
const DefaultMaxPixels = 50_000_000

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint    string
	Model       string
	ClassesFile string
	InputSize   string
	MaxPixels   string
	Timeout     string
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
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.ClassesFile != "" {
		c.ClassesFile = overlay.ClassesFile
	}
	if overlay.InputSize != 0 {
		c.InputSize = overlay.InputSize
	}
	if overlay.MaxPixels != 0 {
		c.MaxPixels = overlay.MaxPixels
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8501"
	}
	if c.Model == "" {
		c.Model = "floraguard"
	}
	if c.InputSize == 0 {
		c.InputSize = 224
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = DefaultMaxPixels
	}
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.ClassesFile != "" {
		if v := os.Getenv(env.ClassesFile); v != "" {
			c.ClassesFile = v
		}
	}
	if env.InputSize != "" {
		if v := os.Getenv(env.InputSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.InputSize = n
			}
		}
	}
	if env.MaxPixels != "" {
		if v := os.Getenv(env.MaxPixels); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.MaxPixels = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.InputSize < 1 {
		return fmt.Errorf("input_size must be positive")
	}
	if c.MaxPixels < int64(c.InputSize)*int64(c.InputSize) {
		return fmt.Errorf("max_pixels %d below input_size %d squared", c.MaxPixels, c.InputSize)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
