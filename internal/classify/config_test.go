package classify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/internal/classify"
)

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &classify.Config{}
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, 10*time.Second, cfg.TimeoutDuration())
		assert.Equal(t, 5.0, cfg.RateLimit)
		assert.Equal(t, 10, cfg.Burst)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_CLASSIFY_TIMEOUT", "3s")
		t.Setenv("TEST_CLASSIFY_RATE", "0.5")
		t.Setenv("TEST_CLASSIFY_BURST", "2")

		cfg := &classify.Config{}
		require.NoError(t, cfg.Finalize(&classify.Env{
			Timeout:   "TEST_CLASSIFY_TIMEOUT",
			RateLimit: "TEST_CLASSIFY_RATE",
			Burst:     "TEST_CLASSIFY_BURST",
		}))
		assert.Equal(t, 3*time.Second, cfg.TimeoutDuration())
		assert.Equal(t, 0.5, cfg.RateLimit)
		assert.Equal(t, 2, cfg.Burst)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		cfg := &classify.Config{Timeout: "soon"}
		assert.Error(t, cfg.Finalize(nil))
	})

	t.Run("negative rate", func(t *testing.T) {
		cfg := &classify.Config{RateLimit: -1}
		assert.Error(t, cfg.Finalize(nil))
	})
}

func TestConfigMerge(t *testing.T) {
	cfg := &classify.Config{Timeout: "10s", RateLimit: 5, Burst: 10}
	cfg.Merge(&classify.Config{Timeout: "2s"})
	assert.Equal(t, "2s", cfg.Timeout)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 10, cfg.Burst)
}
