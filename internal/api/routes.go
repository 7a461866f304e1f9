package api

import (
	"net/http"

	"github.com/JaimeStill/floraguard/internal/languages"
	"github.com/JaimeStill/floraguard/internal/predictions"
	"github.com/JaimeStill/floraguard/pkg/openapi"
	"github.com/JaimeStill/floraguard/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
	guard func(http.Handler) http.Handler,
	spec []byte,
) {
	routes.Register(mux, routes.Group{
		Guard: guard,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(spec)},
		},
		Children: []routes.Group{
			predictions.NewHandler(
				domain.Classifier,
				domain.Decision,
				domain.Alerts,
				runtime.Logger,
				runtime.MaxUploadSize,
			).Routes(),
			languages.NewHandler(domain.Texts, runtime.Logger).Routes(),
			domain.Plants.Handler().Routes(),
			newStorageHandler(
				runtime.Storage,
				runtime.Logger,
				runtime.MaxUploadSize,
				domain.Texts.Invalidate,
			).routes(),
		},
	})
}
