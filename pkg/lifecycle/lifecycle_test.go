package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/pkg/lifecycle"
)

func TestCoordinator_Startup(t *testing.T) {
	t.Run("not ready before startup completes", func(t *testing.T) {
		lc := lifecycle.New()
		assert.False(t, lc.Ready())
	})

	t.Run("ready when every hook succeeds", func(t *testing.T) {
		lc := lifecycle.New()

		var count atomic.Int32
		for range 3 {
			lc.OnStartup("counter", func(context.Context) error {
				count.Add(1)
				return nil
			})
		}

		require.NoError(t, lc.WaitForStartup())
		assert.Equal(t, int32(3), count.Load())
		assert.True(t, lc.Ready())
	})

	t.Run("failed hook keeps coordinator not ready", func(t *testing.T) {
		lc := lifecycle.New()
		boom := errors.New("ping failed")

		lc.OnStartup("ok", func(context.Context) error { return nil })
		lc.OnStartup("database", func(context.Context) error { return boom })

		err := lc.WaitForStartup()
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "database")
		assert.False(t, lc.Ready())
	})
}

func TestCoordinator_Shutdown(t *testing.T) {
	t.Run("runs hooks and cancels context", func(t *testing.T) {
		lc := lifecycle.New()

		var cleaned atomic.Bool
		lc.OnShutdown("cleanup", func(context.Context) error {
			cleaned.Store(true)
			return nil
		})

		require.NoError(t, lc.WaitForStartup())
		require.NoError(t, lc.Shutdown(5*time.Second))

		assert.True(t, cleaned.Load())
		assert.Error(t, lc.Context().Err())
		assert.False(t, lc.Ready())
	})

	t.Run("reports hook errors", func(t *testing.T) {
		lc := lifecycle.New()
		lc.OnShutdown("close", func(context.Context) error { return errors.New("close failed") })

		err := lc.Shutdown(time.Second)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "close: close failed")
	})

	t.Run("times out on slow hooks", func(t *testing.T) {
		lc := lifecycle.New()
		release := make(chan struct{})
		defer close(release)

		lc.OnShutdown("slow", func(context.Context) error {
			<-release
			return nil
		})

		err := lc.Shutdown(50 * time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shutdown timeout")
	})
}
