package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/pkg/openapi"
	"github.com/JaimeStill/triage/pkg/routes"
)

func groups(domain *Domain) []routes.Group {
	inputsGroup := domain.Inputs.Handler().Routes()
	inputsGroup.Middleware = append(inputsGroup.Middleware, domain.Auth.Middleware())

	return []routes.Group{
		domain.Users.Handler(domain.Auth).Routes(),
		inputsGroup,
	}
}

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) error {
	all := groups(domain)
	routes.Register(mux, all...)

	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	routes.Describe(spec, "", all...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
