package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/auth"
)

// System defines the public contract for user operations. It satisfies
// auth.Directory.
type System interface {
	Handler(authn *auth.Authenticator) *Handler

	Register(ctx context.Context, creds Credentials) (*User, error)
	// Login returns ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, creds Credentials) (*User, error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Provision(ctx context.Context, email string) (uuid.UUID, error)
}
