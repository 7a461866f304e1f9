// Package handlers provides shared HTTP response helpers for domain handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// PublicError pairs an error with the text clients see for it.
type PublicError struct {
	Err  error
	Text string
}

func (e *PublicError) Error() string { return e.Err.Error() }

func (e *PublicError) Unwrap() error { return e.Err }

// Public wraps err so response bodies carry text in place of err.Error().
func Public(err error, text string) error {
	return &PublicError{Err: err, Text: text}
}

// Message returns the client text for err: the outermost PublicError text
// in its chain, otherwise err.Error().
func Message(err error) string {
	var pe *PublicError
	if errors.As(err, &pe) {
		return pe.Text
	}
	return err.Error()
}

// RespondError logs err and writes it as a JSON error body.
// Server errors log at error level; client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": Message(err)})
}

// SafeError is the error body returned by toxicity endpoints. It always
// carries a non-toxic default so clients never have to special-case errors.
type SafeError struct {
	Error   string `json:"error"`
	IsToxic bool   `json:"is_toxic"`
}

// RespondSafeError logs err and writes a SafeError body.
func RespondSafeError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, SafeError{Error: Message(err), IsToxic: false})
}
