package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntime(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		rt, err := NewRuntime(config.Default(), logging.NewNop())
		require.NoError(t, err)
		defer rt.Close()

		assert.Nil(t, rt.Publisher)
		got := rt.Store.Dispatch(ctx, domain.Increment(4))
		assert.Equal(t, domain.State{Count: 4, OtherProperty: "someValue"}, got)

		count, err := testutil.GatherAndCount(rt.Registry, "tally_dispatch_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Legacy reducer and initial state", func(t *testing.T) {
		cfg := config.Default()
		cfg.Reducer = config.ReducerLegacy
		cfg.InitialState = &domain.State{Count: 5, OtherProperty: "x"}

		rt, err := NewRuntime(cfg, logging.NewNop())
		require.NoError(t, err)

		got := rt.Store.Dispatch(ctx, domain.Increment(10))
		assert.Equal(t, domain.State{Count: 4, OtherProperty: "Heloo Juhi"}, got)
	})

	t.Run("Metrics disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Metrics = false

		rt, err := NewRuntime(cfg, logging.NewNop())
		require.NoError(t, err)
		rt.Store.Dispatch(ctx, domain.Decrement())

		count, err := testutil.GatherAndCount(rt.Registry)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("Redis publisher", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cfg := config.Default()
		cfg.Redis.Addr = mr.Addr()
		cfg.Redis.Prefix = "test:"

		rt, err := NewRuntime(cfg, logging.NewNop())
		require.NoError(t, err)
		defer rt.Close()
		require.NotNil(t, rt.Publisher)
		assert.Equal(t, "test:state", rt.Publisher.Channel())

		watchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		msgs, err := rt.Publisher.Watch(watchCtx)
		require.NoError(t, err)

		rt.Store.Dispatch(ctx, domain.Increment(2))

		select {
		case msg := <-msgs:
			assert.Equal(t, 2, msg.State.Count)
			require.NotNil(t, msg.Diff.Count)
			assert.Equal(t, 2, *msg.Diff.Count)
		case <-watchCtx.Done():
			t.Fatal("no message published")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing default file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), config.DefaultPath), false, nil)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true, nil)
		assert.Error(t, err)
	})

	t.Run("Flags override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tally.json")
		data, _ := json.Marshal(map[string]any{"log_level": "debug", "hooks_step": 2})
		require.NoError(t, os.WriteFile(path, data, 0644))

		cfg, err := LoadConfig(path, true, map[string]any{"reducer": "legacy", "log_level": "warn"})
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 2, cfg.HooksStep)
		assert.True(t, cfg.Legacy())
	})

	t.Run("Invalid override", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), config.DefaultPath), false, map[string]any{"reducer": "fast"})
		assert.Error(t, err)
	})
}

func TestCreateLogger(t *testing.T) {
	logger, err := CreateLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = CreateLogger("loud")
	assert.Error(t, err)
}
