package users

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/JaimeStill/triage/internal/auth"
	"github.com/JaimeStill/triage/pkg/handlers"
	"github.com/JaimeStill/triage/pkg/routes"
)

// Handler provides HTTP endpoints for registration, login and the current user.
type Handler struct {
	sys    System
	authn  *auth.Authenticator
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, authn *auth.Authenticator, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		authn:  authn,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the route group definition for user endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/users",
		Tags:    []string{"Users"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register, OpenAPI: specRegister},
			{Method: "POST", Pattern: "/login", Handler: h.Login, OpenAPI: specLogin},
		},
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{h.authn.Middleware()},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/me", Handler: h.Me, OpenAPI: specMe},
				},
			},
		},
	}
}

// Register creates a password user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := handlers.DecodeJSON[Credentials](r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	u, err := h.sys.Register(r.Context(), creds)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, u)
}

// Login exchanges credentials for an access token. It accepts the OAuth2
// password form (username, password) or a JSON body (email, password).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := credentials(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	u, err := h.sys.Login(r.Context(), creds)
	if err != nil {
		if MapHTTPStatus(err) == http.StatusUnauthorized {
			auth.Challenge(w, h.logger, ErrInvalidCredentials)
			return
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	token, err := h.authn.Issue(u.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, token)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		auth.Challenge(w, h.logger, auth.ErrUnauthorized)
		return
	}

	u, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, u)
}

func credentials(r *http.Request) (Credentials, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return Credentials{}, handlers.ErrInvalidBody
		}
		return Credentials{
			Email:    r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	return handlers.DecodeJSON[Credentials](r)
}
