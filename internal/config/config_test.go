package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.InitialState(), cfg.State())

	_, err = Load(path, true)
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "tally.yaml", `
log_level: debug
reducer: legacy
hooks_step: 5
initial_state:
  count: 7
  otherProperty: fromFile
http:
  port: 9090
redis:
  addr: localhost:6379
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Legacy())
	assert.Equal(t, 5, cfg.HooksStep)
	assert.Equal(t, domain.State{Count: 7, OtherProperty: "fromFile"}, cfg.State())
	assert.Equal(t, "9090", cfg.HTTP.Port, "numeric port is weakly decoded into a string")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "tally:", cfg.Redis.Prefix, "defaults survive partial sections")
	assert.True(t, cfg.Metrics)
}

func TestLoad_ZeroHooksStep(t *testing.T) {
	cfg, err := Load(writeFile(t, "tally.yaml", "hooks_step: 0\n"), true)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.HooksStep, "an explicit zero step is kept")
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "tally.json", `{"initial_state": {"count": 3}, "metrics": false}`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.State().Count)
	assert.False(t, cfg.Metrics)
	assert.False(t, cfg.Legacy())
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colour: blue\n",
		"unknown reducer": "reducer: buggy\n",
		"bad level":       "log_level: loud\n",
		"bad yaml":        "reducer: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "tally.yaml", content), true)
			assert.Error(t, err)
		})
	}
}

func TestDecode_Overrides(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(map[string]any{"reducer": "legacy", "http": map[string]any{"port": "1234"}}, &cfg))
	assert.True(t, cfg.Legacy())
	assert.Equal(t, "1234", cfg.HTTP.Port)
}
