package languages

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/floraguard/pkg/handlers"
	"github.com/JaimeStill/floraguard/pkg/routes"
)

// Handler provides HTTP endpoints for the language list and text bundles.
type Handler struct {
	texts  *Texts
	logger *slog.Logger
}

// NewHandler creates a Handler serving bundles from texts.
func NewHandler(texts *Texts, logger *slog.Logger) *Handler {
	return &Handler{
		texts:  texts,
		logger: logger.With("handler", "languages"),
	}
}

// Routes returns the route group definition for language endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/languages",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{code}", Handler: h.Bundle},
		},
	}
}

// List returns the fixed set of supported languages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Supported())
}

// Bundle returns the raw text bundle for a locale code.
func (h *Handler) Bundle(w http.ResponseWriter, r *http.Request) {
	data, err := h.texts.Raw(r.Context(), r.PathValue("code"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
