package config

import (
	"fmt"
	"os"
	"slices"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/providers"

	"github.com/JaimeStill/triage/pkg/envvar"
)

const (
	EnvAgentName         = "TRIAGE_AGENT_NAME"
	EnvAgentProviderName = "TRIAGE_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "TRIAGE_AGENT_BASE_URL"
	EnvAgentToken        = "TRIAGE_AGENT_TOKEN"
	EnvAgentDeployment   = "TRIAGE_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "TRIAGE_AGENT_API_VERSION"
	EnvAgentAuthType     = "TRIAGE_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "TRIAGE_AGENT_MODEL_NAME"
)

// FinalizeAgent finalizes a go-agents AgentConfig: go-agents defaults, then
// TRIAGE_AGENT_* overrides, then validation.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

// AgentToken returns the provider credential, or "" when none is configured.
// Without a credential the remote classifier is never engaged.
func AgentToken(c *gaconfig.AgentConfig) string {
	if c.Provider == nil || c.Provider.Options == nil {
		return ""
	}
	token, _ := c.Provider.Options["token"].(string)
	return token
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if c.Name == "" {
		c.Name = "triage-classifier"
	}
	if c.Model.Name == "" {
		c.Model.Name = "gpt-4o-mini"
	}
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	envvar.String(&c.Name, EnvAgentName)
	envvar.String(&c.Provider.Name, EnvAgentProviderName)
	envvar.String(&c.Provider.BaseURL, EnvAgentBaseURL)
	envvar.String(&c.Model.Name, EnvAgentModelName)

	for env, key := range map[string]string{
		EnvAgentToken:      "token",
		EnvAgentDeployment: "deployment",
		EnvAgentAPIVersion: "api_version",
		EnvAgentAuthType:   "auth_type",
	} {
		if v := os.Getenv(env); v != "" {
			c.Provider.Options[key] = v
		}
	}
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if !slices.Contains(providers.ListProviders(), c.Provider.Name) {
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}
