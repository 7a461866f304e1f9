package openapi

import (
	"cmp"
	"os"
	"strings"
)

const (
	defaultTitle       = "FloraGuard API"
	defaultDescription = "Toxic plant identification from photos, backed by a curated toxicity database."
)

// Config holds document metadata. Servers lists public origins the API is
// reachable at; when empty the document advertises the base path alone.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is read as a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.Title = cmp.Or(c.Title, defaultTitle)
	c.Description = cmp.Or(c.Description, defaultDescription)

	if env == nil {
		return nil
	}
	c.Title = cmp.Or(getenv(env.Title), c.Title)
	c.Description = cmp.Or(getenv(env.Description), c.Description)
	if v := getenv(env.Servers); v != "" {
		c.Servers = c.Servers[:0]
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	c.Title = cmp.Or(overlay.Title, c.Title)
	c.Description = cmp.Or(overlay.Description, c.Description)
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

// Apply writes the configured metadata into spec. Each server origin is
// joined with basePath.
func (c *Config) Apply(spec *Spec, basePath string) {
	spec.Info.Title = c.Title
	spec.SetDescription(c.Description)

	if len(c.Servers) == 0 {
		spec.AddServer(basePath)
		return
	}
	for _, origin := range c.Servers {
		spec.AddServer(strings.TrimSuffix(origin, "/") + basePath)
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
