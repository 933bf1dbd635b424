// Package config loads the tally.yaml (or tally.json) configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "tally.yaml"

// Reducer modes.
const (
	ReducerDefault = "default"
	ReducerLegacy  = "legacy"
)

// Config represents the structure of tally.yaml.
type Config struct {
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`

	// Reducer selects the transition function: "default" or "legacy".
	Reducer string `yaml:"reducer" json:"reducer" mapstructure:"reducer"`

	// InitialState overrides domain.InitialState when set.
	InitialState *domain.State `yaml:"initial_state" json:"initial_state" mapstructure:"initial_state"`

	// HooksStep is the amount the hook-style counter view adds on Inc.
	HooksStep int `yaml:"hooks_step" json:"hooks_step" mapstructure:"hooks_step"`

	Metrics bool `yaml:"metrics" json:"metrics" mapstructure:"metrics"`

	HTTP  HTTPConfig  `yaml:"http" json:"http" mapstructure:"http"`
	Redis RedisConfig `yaml:"redis" json:"redis" mapstructure:"redis"`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	Port string `yaml:"port" json:"port" mapstructure:"port"`
}

// RedisConfig configures the state-change publisher. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr" mapstructure:"addr"`
	Password string `yaml:"password" json:"password" mapstructure:"password"`
	DB       int    `yaml:"db" json:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Reducer:   ReducerDefault,
		HooksStep: 1,
		Metrics:   true,
		HTTP:      HTTPConfig{Port: "8080"},
		Redis:     RedisConfig{Prefix: "tally:"},
	}
}

// Load reads a configuration file (YAML or JSON) on top of the defaults.
// A missing file is not an error unless required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode applies a generic map (file contents, flag overrides) onto cfg.
// Unknown keys are rejected so typos do not pass silently.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Reducer {
	case "", ReducerDefault, ReducerLegacy:
	default:
		return fmt.Errorf("invalid config: unknown reducer %q (want %q or %q)", c.Reducer, ReducerDefault, ReducerLegacy)
	}
	return nil
}

// State returns the configured initial state, or domain.InitialState.
func (c Config) State() domain.State {
	if c.InitialState != nil {
		return *c.InitialState
	}
	return domain.InitialState()
}

// Legacy reports whether the legacy reducer was selected.
func (c Config) Legacy() bool {
	return c.Reducer == ReducerLegacy
}
