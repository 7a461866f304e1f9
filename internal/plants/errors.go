package plants

import (
	"errors"
	"net/http"
)

// Domain errors for plant operations.
var (
	ErrNotFound    = errors.New("plant not found")
	ErrDuplicate   = errors.New("plant already exists")
	ErrInvalidKey  = errors.New("invalid plant key")
	ErrInvalidBody = errors.New("invalid plant body")
)

// MapHTTPStatus maps plant domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrInvalidBody) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
