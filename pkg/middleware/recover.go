package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/floraguard/pkg/handlers"
)

// Recover returns middleware that converts a handler panic into a 500
// response carrying the panic message and a non-toxic default.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error(
					"handler panic",
					"uri", r.URL.RequestURI(),
					"request_id", RequestIDFrom(r.Context()),
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				handlers.RespondJSON(w, http.StatusInternalServerError, handlers.SafeError{
					Error:   fmt.Sprint(rec),
					IsToxic: false,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
