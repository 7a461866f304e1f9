package predictions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/floraguard/internal/classifier"
	"github.com/JaimeStill/floraguard/pkg/handlers"
)

const invalidTypeText = "Invalid file type. Please upload a JPEG or PNG image."

var errModelFailed = classifier.ErrUnavailable

var (
	ErrNoFile       = handlers.Public(errors.New("no file in upload"), "No file")
	ErrInvalidType  = handlers.Public(errors.New("unsupported file type"), invalidTypeText)
	ErrFileTooLarge = errors.New("file too large")
)

// MapHTTPStatus maps prediction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return classifier.MapHTTPStatus(err)
	}
}
