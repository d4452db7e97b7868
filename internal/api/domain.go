package api

import (
	"fmt"

	"github.com/JaimeStill/triage/internal/auth"
	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/inputs"
	"github.com/JaimeStill/triage/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Auth   *auth.Authenticator
	Inputs inputs.System
	Users  users.System
}

// NewDomain creates all domain systems from the API runtime and registers the
// authenticator's startup hooks.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	usersSystem := users.New(db, runtime.Logger)

	authn, err := auth.New(&cfg.Auth, usersSystem, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}
	if err := authn.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("auth start failed: %w", err)
	}

	inputsSystem := inputs.New(
		inputs.NewStore(db),
		runtime.Classifier,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Auth:   authn,
		Inputs: inputsSystem,
		Users:  usersSystem,
	}, nil
}
