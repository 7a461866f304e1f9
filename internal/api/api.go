// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
	"github.com/JaimeStill/floraguard/pkg/middleware"
	"github.com/JaimeStill/floraguard/pkg/module"
	"github.com/JaimeStill/floraguard/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware,
// and registers the domain's lifecycle hooks.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	if err := domain.Start(runtime); err != nil {
		return nil, fmt.Errorf("domain start failed: %w", err)
	}

	spec, err := openapi.MarshalJSON(BuildSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime, newGuard(&cfg.API.Auth, runtime.Logger), spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m, nil
}

// newGuard returns the bearer token guard for write endpoints, or nil when
// auth is disabled.
func newGuard(cfg *middleware.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return nil
	}
	return middleware.Auth(middleware.NewOIDCVerifier(cfg), logger)
}
