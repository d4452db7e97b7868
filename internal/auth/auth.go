// Package auth authenticates bearer tokens and carries the requesting user
// through the request context.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/JaimeStill/triage/pkg/lifecycle"
)

// Directory resolves token subjects to users.
type Directory interface {
	// Exists reports whether a user with id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Provision returns the user registered under email, creating a
	// passwordless user when none exists.
	Provision(ctx context.Context, email string) (uuid.UUID, error)
}

type contextKey struct{}

// WithUserID returns a copy of ctx carrying id as the requesting user.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// UserID returns the requesting user set by the authentication middleware.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}

// Authenticator verifies bearer tokens against local access tokens and,
// when configured, an OIDC issuer.
type Authenticator struct {
	cfg       *Config
	tokens    *Tokens
	directory Directory
	verifier  *oidc.IDTokenVerifier
	logger    *slog.Logger
}

// New creates an Authenticator. Without a configured secret a random signing
// key is generated, so issued tokens do not survive a restart.
func New(cfg *Config, directory Directory, logger *slog.Logger) (*Authenticator, error) {
	logger = logger.With("system", "auth")

	key := []byte(cfg.Secret)
	if len(key) == 0 {
		key = make([]byte, minSecretLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		logger.Warn("no token secret configured, using an ephemeral signing key")
	}

	return &Authenticator{
		cfg:       cfg,
		tokens:    NewTokens(key, cfg.Issuer, cfg.ExpiryDuration()),
		directory: directory,
		logger:    logger,
	}, nil
}

// Start registers a startup hook that discovers the OIDC issuer when one is configured.
func (a *Authenticator) Start(lc *lifecycle.Coordinator) error {
	if !a.cfg.OIDCEnabled() {
		return nil
	}

	a.logger.Info("starting oidc discovery", "issuer", a.cfg.OIDCIssuer)

	lc.OnStartup("oidc", func(ctx context.Context) error {
		provider, err := oidc.NewProvider(oidc.ClientContext(lc.Context(), http.DefaultClient), a.cfg.OIDCIssuer)
		if err != nil {
			return fmt.Errorf("oidc discovery: %w", err)
		}

		a.verifier = provider.Verifier(&oidc.Config{ClientID: a.cfg.OIDCClientID})
		a.logger.Info("oidc verifier ready", "issuer", a.cfg.OIDCIssuer)
		return nil
	})

	return nil
}

// Issue signs an access token for userID.
func (a *Authenticator) Issue(userID uuid.UUID) (Token, error) {
	return a.tokens.Issue(userID)
}

// Authenticate resolves raw to an existing user ID.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := a.tokens.Verify(raw)
	if err != nil {
		if a.verifier == nil {
			return uuid.Nil, err
		}
		return a.authenticateOIDC(ctx, raw)
	}

	ok, err := a.directory.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}

	return id, nil
}

func (a *Authenticator) authenticateOIDC(ctx context.Context, raw string) (uuid.UUID, error) {
	token, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := token.Claims(&claims); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" || (claims.EmailVerified != nil && !*claims.EmailVerified) {
		return uuid.Nil, fmt.Errorf("%w: missing verified email claim", ErrInvalidToken)
	}

	id, err := a.directory.Provision(ctx, claims.Email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("provision user: %w", err)
	}
	return id, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// requesting user ID in the request context.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				Challenge(w, a.logger, ErrUnauthorized)
				return
			}

			id, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrUnauthorized) {
					a.logger.Error("authentication failed", "error", err)
				}
				Challenge(w, a.logger, ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
