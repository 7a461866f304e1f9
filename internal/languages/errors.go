package languages

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/floraguard/pkg/handlers"
)

// ErrNotFound indicates no bundle exists for the requested locale.
var ErrNotFound = handlers.Public(errors.New("bundle not found"), "File not found")

// MapHTTPStatus maps language errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
