package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	"golang.org/x/term"
)

// LoadConfig reads the configuration file and applies flag overrides on top of it.
// explicit marks a path the user asked for, which must then exist.
func LoadConfig(path string, explicit bool, overrides map[string]any) (config.Config, error) {
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}
	if len(overrides) > 0 {
		if err := config.Decode(overrides, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// CreateLogger configures the application logger from a level name.
// Logs go to Stderr so they never mix with the session on Stdout.
func CreateLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("error configuring logger: %w", err)
	}
	return logging.New(lvl), nil
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
