package main

import (
	"net/http"

	"github.com/JaimeStill/floraguard/internal/api"
	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
	"github.com/JaimeStill/floraguard/pkg/handlers"
	"github.com/JaimeStill/floraguard/pkg/module"
)

// Modules are the prefixed sub-applications mounted on the router.
type Modules []*module.Module

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	return Modules{apiModule}, nil
}

func (m Modules) Mount(router *module.Router) {
	for _, mod := range m {
		router.Mount(mod)
	}
}

// buildRouter creates the root router with the liveness and readiness
// probes. /healthz answers as soon as the process serves; /readyz follows
// the lifecycle coordinator.
func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		probe(w, true, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if infra.Lifecycle.Ready() {
			probe(w, true, "ready")
			return
		}
		probe(w, false, "not ready")
	})

	return router
}

func probe(w http.ResponseWriter, ok bool, status string) {
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	handlers.RespondJSON(w, code, map[string]string{"status": status})
}
