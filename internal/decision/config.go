package decision

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultThreshold is the local confidence below which identification is
// escalated to the secondary identifier.
const DefaultThreshold = 0.70

// Config holds decision policy parameters.
type Config struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ConfidenceThreshold string
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
	if overlay.ConfidenceThreshold != 0 {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
}

func (c *Config) loadDefaults() {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = DefaultThreshold
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ConfidenceThreshold != "" {
		if v := os.Getenv(env.ConfidenceThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.ConfidenceThreshold = f
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in (0,1], got %v", c.ConfidenceThreshold)
	}
	return nil
}
