package infrastructure_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/infrastructure"
)

func testConfig(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())
	return cfg
}

func TestNewWithoutStorage(t *testing.T) {
	cfg := testConfig(t, "[database]\nname = \"triage\"\nuser = \"triage\"\n")

	var buf bytes.Buffer
	infra, err := infrastructure.NewWithWriter(cfg, &buf)
	require.NoError(t, err)

	assert.NotNil(t, infra.Lifecycle)
	assert.NotNil(t, infra.Database)
	assert.Nil(t, infra.Storage)
	assert.Contains(t, buf.String(), "exports disabled")
	assert.False(t, infra.Database.Ready())
}

func TestNewWithStorage(t *testing.T) {
	cfg := testConfig(t, `
[database]
name = "triage"
user = "triage"

[storage]
container_name = "exports"
connection_string = "DefaultEndpointsProtocol=http;AccountName=triagestore;AccountKey=a2V5;BlobEndpoint=http://127.0.0.1:10000/triagestore;"
`)

	var buf bytes.Buffer
	infra, err := infrastructure.NewWithWriter(cfg, &buf)
	require.NoError(t, err)
	assert.NotNil(t, infra.Storage)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		debug bool
		info  bool
	}{
		{name: "debug", level: slog.LevelDebug, debug: true, info: true},
		{name: "info", level: slog.LevelInfo, debug: false, info: true},
		{name: "error", level: slog.LevelError, debug: false, info: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := infrastructure.NewLogger(&buf, tt.level)

			logger.Debug("debug line")
			logger.Info("info line")

			assert.Equal(t, tt.debug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Equal(t, tt.info, bytes.Contains(buf.Bytes(), []byte("info line")))
		})
	}
}
