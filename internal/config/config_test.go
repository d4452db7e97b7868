package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"
log_level = "debug"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
idle_timeout = "3m"

[database]
host = "localhost"
port = 5432
name = "triage"
user = "triage"
password = "triage"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "exports"
connection_string = "DefaultEndpointsProtocol=http;AccountName=triagestore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/triagestore;"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[classifier]
timeout = "5s"
rate_limit = 2.0
burst = 4

[auth]
expiry = "30m"
issuer = "triage-test"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[classifier]
timeout = "20s"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 3*time.Minute, cfg.Server.IdleTimeoutDuration())
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "exports", cfg.Storage.ContainerName)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.Equal(t, 25, cfg.API.Pagination.DefaultPageSize)
	assert.Equal(t, 50, cfg.API.Pagination.MaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.Classifier.TimeoutDuration())
	assert.Equal(t, 2.0, cfg.Classifier.RateLimit)
	assert.Equal(t, 4, cfg.Classifier.Burst)
	assert.Equal(t, 30*time.Minute, cfg.Auth.ExpiryDuration())
	assert.Equal(t, "triage-test", cfg.Auth.Issuer)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvTriageEnv, "staging")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "from overlay")
	assert.Equal(t, "prodhost", cfg.Database.Host, "from overlay")
	assert.Equal(t, 5432, cfg.Database.Port, "from base")
	assert.Equal(t, 20*time.Second, cfg.Classifier.TimeoutDuration(), "from overlay")
	assert.Equal(t, 4, cfg.Classifier.Burst, "from base")
}

func TestLoadMissingOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvTriageEnv, "production")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvTriageVersion, "2.0.0")
	t.Setenv(config.EnvServerPort, "3000")
	t.Setenv("TRIAGE_CLASSIFIER_TIMEOUT", "750ms")
	t.Setenv("TRIAGE_AUTH_ISSUER", "triage-env")
	t.Setenv(config.EnvTriageLogLevel, "warn")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.Version)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Classifier.TimeoutDuration())
	assert.Equal(t, "triage-env", cfg.Auth.Issuer)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("TRIAGE_DB_NAME", "testdb")
	t.Setenv("TRIAGE_DB_USER", "testuser")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "testdb", cfg.Database.Name)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.Classifier.TimeoutDuration())
	assert.Equal(t, time.Hour, cfg.Auth.ExpiryDuration())
	assert.NotEmpty(t, cfg.Agent.Name)
	assert.Equal(t, "ollama", cfg.Agent.Provider.Name)
	assert.Empty(t, config.AgentToken(&cfg.Agent))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{
			name:    "invalid toml",
			content: `[server`,
		},
		{
			name:    "missing database name",
			content: "[database]\nuser = \"triage\"\n",
		},
		{
			name:    "invalid log level",
			content: baseConfig,
			env:     map[string]string{config.EnvTriageLogLevel: "loud"},
		},
		{
			name:    "invalid server port",
			content: baseConfig,
			env:     map[string]string{config.EnvServerPort: "70000"},
		},
		{
			name:    "invalid write timeout",
			content: baseConfig,
			env:     map[string]string{config.EnvServerWriteTimeout: "forever"},
		},
		{
			name:    "invalid classifier timeout",
			content: baseConfig,
			env:     map[string]string{"TRIAGE_CLASSIFIER_TIMEOUT": "soon"},
		},
		{
			name:    "unknown agent provider",
			content: baseConfig,
			env:     map[string]string{config.EnvAgentProviderName: "openai"},
		},
		{
			name:    "short auth secret",
			content: baseConfig,
			env:     map[string]string{"TRIAGE_AUTH_SECRET": "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.content)
			chdir(t, dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}

	t.Run("default", func(t *testing.T) {
		t.Setenv(config.EnvTriageEnv, "")
		assert.Equal(t, "local", cfg.Env())
	})

	t.Run("from env var", func(t *testing.T) {
		t.Setenv(config.EnvTriageEnv, "production")
		assert.Equal(t, "production", cfg.Env())
	})
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: "45s"}
	assert.Equal(t, 45*time.Second, cfg.ShutdownTimeoutDuration())
}

func TestAgentToken(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvAgentToken, "sk-test")
	t.Setenv(config.EnvAgentModelName, "gpt-4o")
	t.Setenv(config.EnvAgentProviderName, "azure")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "azure", cfg.Agent.Provider.Name)
	assert.Equal(t, "sk-test", config.AgentToken(&cfg.Agent))
	assert.Equal(t, "gpt-4o", cfg.Agent.Model.Name)
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(overlayConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "prodhost", cfg.Database.Host)
	assert.Empty(t, cfg.Version, "parse does not finalize")
}
