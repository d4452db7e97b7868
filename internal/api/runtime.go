package api

import (
	"fmt"

	"github.com/JaimeStill/triage/internal/classify"
	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/infrastructure"
	"github.com/JaimeStill/triage/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// classifier shared by the domain systems.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Classifier classify.Classifier
}

// NewRuntime creates an API runtime with a module-scoped logger. The remote
// classifier is engaged only when an agent token is configured.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	var backend classify.Backend
	if config.AgentToken(&cfg.Agent) != "" {
		b, err := classify.NewAgentBackend(cfg.Agent)
		if err != nil {
			return nil, fmt.Errorf("classifier agent: %w", err)
		}
		backend = b
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Classifier: classify.New(&cfg.Classifier, backend, logger),
	}, nil
}
