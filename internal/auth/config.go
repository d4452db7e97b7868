package auth

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/triage/pkg/envvar"
)

const minSecretLength = 32

// Config configures access tokens and optional OIDC bearer verification.
// An empty Secret makes the authenticator generate a per-process key.
type Config struct {
	Secret       string `toml:"secret"`
	Expiry       string `toml:"expiry"`
	Issuer       string `toml:"issuer"`
	OIDCIssuer   string `toml:"oidc_issuer"`
	OIDCClientID string `toml:"oidc_client_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Secret       string
	Expiry       string
	Issuer       string
	OIDCIssuer   string
	OIDCClientID string
}

// ExpiryDuration returns Expiry as a time.Duration.
func (c *Config) ExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(c.Expiry)
	return d
}

// OIDCEnabled reports whether an OIDC issuer is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Expiry != "" {
		c.Expiry = overlay.Expiry
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.OIDCIssuer != "" {
		c.OIDCIssuer = overlay.OIDCIssuer
	}
	if overlay.OIDCClientID != "" {
		c.OIDCClientID = overlay.OIDCClientID
	}
}

func (c *Config) loadDefaults() {
	if c.Expiry == "" {
		c.Expiry = "60m"
	}
	if c.Issuer == "" {
		c.Issuer = "triage"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Secret, env.Secret)
	envvar.String(&c.Expiry, env.Expiry)
	envvar.String(&c.Issuer, env.Issuer)
	envvar.String(&c.OIDCIssuer, env.OIDCIssuer)
	envvar.String(&c.OIDCClientID, env.OIDCClientID)
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Expiry)
	if err != nil {
		return fmt.Errorf("invalid expiry: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("expiry must be positive")
	}
	if c.Secret != "" && len(c.Secret) < minSecretLength {
		return fmt.Errorf("secret must be at least %d bytes", minSecretLength)
	}
	if c.OIDCEnabled() {
		u, err := url.Parse(c.OIDCIssuer)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("oidc_issuer must be an https URL")
		}
		if c.OIDCClientID == "" {
			return fmt.Errorf("oidc_client_id is required when oidc_issuer is set")
		}
	}
	return nil
}
