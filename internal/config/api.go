package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/floraguard/pkg/formatting"
	"github.com/JaimeStill/floraguard/pkg/middleware"
	"github.com/JaimeStill/floraguard/pkg/openapi"
	"github.com/JaimeStill/floraguard/pkg/pagination"
)

const defaultMaxUploadSize = 16 * 1024 * 1024

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FLORAGUARD_CORS_ENABLED",
	Origins:          "FLORAGUARD_CORS_ORIGINS",
	AllowedMethods:   "FLORAGUARD_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FLORAGUARD_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "FLORAGUARD_CORS_EXPOSED_HEADERS",
	AllowCredentials: "FLORAGUARD_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FLORAGUARD_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "FLORAGUARD_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "FLORAGUARD_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "FLORAGUARD_OPENAPI_TITLE",
	Description: "FLORAGUARD_OPENAPI_DESCRIPTION",
	Servers:     "FLORAGUARD_OPENAPI_SERVERS",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "FLORAGUARD_AUTH_ENABLED",
	Issuer:   "FLORAGUARD_AUTH_ISSUER",
	ClientID: "FLORAGUARD_AUTH_CLIENT_ID",
}

// APIConfig holds API routing, upload limits, and the nested middleware,
// pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Auth          middleware.AuthConfig `toml:"auth"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes, falling back to 16MB
// when the value cannot be parsed.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "16MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("FLORAGUARD_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("FLORAGUARD_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
