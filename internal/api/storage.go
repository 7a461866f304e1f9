package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/floraguard/pkg/handlers"
	"github.com/JaimeStill/floraguard/pkg/routes"
	"github.com/JaimeStill/floraguard/pkg/storage"
)

var errEmptyBody = errors.New("request body is empty")

// storageHandler serves blobs such as record reference images and locale
// bundles. Reads are public; writes are guarded. changed runs with the key
// after every successful write or delete.
type storageHandler struct {
	store   storage.System
	logger  *slog.Logger
	maxSize int64
	changed func(key string)
}

func newStorageHandler(store storage.System, logger *slog.Logger, maxSize int64, changed func(key string)) *storageHandler {
	if changed == nil {
		changed = func(string) {}
	}
	return &storageHandler{
		store:   store,
		logger:  logger.With("handler", "storage"),
		maxSize: maxSize,
		changed: changed,
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.download},
			{Method: "PUT", Pattern: "/{key...}", Handler: h.upload, Guarded: true},
			{Method: "DELETE", Pattern: "/{key...}", Handler: h.remove, Guarded: true},
		},
	}
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("blob stream interrupted", "key", key, "error", err)
	}
}

func (h *storageHandler) upload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if r.ContentLength == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errEmptyBody)
		return
	}
	if h.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = storage.ContentTypeFor(key)
	}

	if err := h.store.Upload(r.Context(), key, r.Body, contentType); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return
		}
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	h.changed(key)
	h.logger.Info("blob uploaded", "key", key, "content_type", contentType)
	w.WriteHeader(http.StatusNoContent)
}

func (h *storageHandler) remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	h.changed(key)
	w.WriteHeader(http.StatusNoContent)
}
