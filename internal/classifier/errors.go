package classifier

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/floraguard/pkg/handlers"
)

var (
	ErrUnavailable  = handlers.Public(errors.New("model unavailable"), "Model failed")
	ErrInvalidImage = errors.New("invalid image")
	ErrPrediction   = errors.New("prediction failed")
)

// MapHTTPStatus maps classifier errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidImage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
