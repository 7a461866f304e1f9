package plants

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/floraguard/internal/toxicity"
	"github.com/JaimeStill/floraguard/pkg/handlers"
	"github.com/JaimeStill/floraguard/pkg/pagination"
	"github.com/JaimeStill/floraguard/pkg/routes"
)

// Handler provides HTTP endpoints for browsing and curating plant records.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler. Upsert and Delete are marked guarded.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "plants"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for plant endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/plants",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{name}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{name}", Handler: h.Upsert, Guarded: true},
			{Method: "DELETE", Pattern: "/{name}", Handler: h.Delete, Guarded: true},
		},
	}
}

// List returns a paginated list of plants with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find normalizes the name path parameter and returns the stored record
// exactly as curated, including untranslated fields and overrides.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	key := toxicity.Normalize(r.PathValue("name"))
	if key == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidKey)
		return
	}

	p, err := h.sys.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Upsert creates or replaces the record keyed by the normalized name.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	key := toxicity.Normalize(r.PathValue("name"))
	if key == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidKey)
		return
	}

	var cmd UpsertCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	cmd.ID = key

	p, err := h.sys.Upsert(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Delete removes the record keyed by the normalized name.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key := toxicity.Normalize(r.PathValue("name"))
	if key == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidKey)
		return
	}

	if err := h.sys.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

