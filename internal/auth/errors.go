package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/triage/pkg/handlers"
)

// Authentication errors.
var (
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrInvalidToken = errors.New("invalid token")
)

// Challenge answers 401 with a bearer challenge.
func Challenge(w http.ResponseWriter, logger *slog.Logger, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	handlers.RespondError(w, logger, http.StatusUnauthorized, err)
}
