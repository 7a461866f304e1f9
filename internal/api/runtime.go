package api

import (
	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
	"github.com/JaimeStill/floraguard/pkg/pagination"
)

// Runtime is the infrastructure as seen by the API module: the shared
// systems with a module-scoped logger, plus the API settings handlers need.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxUploadSize int64
	StoragePath   string
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
		StoragePath:    cfg.API.BasePath + "/storage",
	}
}
