package middleware

import (
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds the cross-origin policy for browser clients.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	ExposedHeaders   []string `toml:"exposed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig fields.
// List values are comma separated.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	ExposedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites fields from overlay. Boolean fields always apply; list and
// int fields only apply when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.ExposedHeaders != nil {
		c.ExposedHeaders = overlay.ExposedHeaders
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", RequestIDHeader}
	}
	if len(c.ExposedHeaders) == 0 {
		c.ExposedHeaders = []string{RequestIDHeader}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	if v, ok := envBool(env.Enabled); ok {
		c.Enabled = v
	}
	if v := envList(env.Origins); v != nil {
		c.Origins = v
	}
	if v := envList(env.AllowedMethods); v != nil {
		c.AllowedMethods = v
	}
	if v := envList(env.AllowedHeaders); v != nil {
		c.AllowedHeaders = v
	}
	if v := envList(env.ExposedHeaders); v != nil {
		c.ExposedHeaders = v
	}
	if v, ok := envBool(env.AllowCredentials); ok {
		c.AllowCredentials = v
	}
	if env.MaxAge != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MaxAge)); err == nil {
			c.MaxAge = n
		}
	}
}

func envBool(name string) (bool, bool) {
	if name == "" {
		return false, false
	}
	v, err := strconv.ParseBool(os.Getenv(name))
	return v, err == nil
}

// envList splits a comma separated variable, dropping blank entries.
// Returns nil when the variable is unset or holds no entries.
func envList(name string) []string {
	if name == "" {
		return nil
	}

	var out []string
	for part := range strings.SplitSeq(os.Getenv(name), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
