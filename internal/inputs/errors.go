package inputs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/triage/internal/classify"
	"github.com/JaimeStill/triage/pkg/handlers"
	"github.com/JaimeStill/triage/pkg/storage"
)

// Domain errors for input operations.
var (
	ErrNotFound        = errors.New("input not found")
	ErrInvalidText     = errors.New("text must not be empty")
	ErrInvalidOrder    = errors.New("invalid order")
	ErrInvalidInput    = errors.New("invalid input")
	ErrExportsDisabled = errors.New("export storage is not configured")
)

// MapHTTPStatus maps input domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidText),
		errors.Is(err, ErrInvalidOrder),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, classify.ErrInvalidValue),
		errors.Is(err, handlers.ErrInvalidBody),
		errors.Is(err, storage.ErrInvalidKey),
		errors.Is(err, storage.ErrEmptyKey):
		return http.StatusBadRequest
	case errors.Is(err, ErrExportsDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
