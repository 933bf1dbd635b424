package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally is a shared counter store with connect and hook-style bindings",
	Long: `Tally keeps a single counter state driven by a reducer and exposes it
through two access styles: a connected component and selector/dispatch hooks.

Run without a sub-command to start the interactive session.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", config.DefaultPath, "Configuration file (YAML or JSON)")
	fs.String("log-level", "", "Log level: debug, info, warn or error")
	fs.Bool("legacy", false, "Use the legacy reducer (INCREMENT decrements and overwrites otherProperty)")
}

// loadConfig reads the configuration file and applies the persistent flags on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	overrides := map[string]any{}
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		overrides["log_level"] = level
	}
	if legacy, _ := cmd.Flags().GetBool("legacy"); legacy {
		overrides["reducer"] = config.ReducerLegacy
	}

	return cli.LoadConfig(path, cmd.Flags().Changed("config"), overrides)
}

// setup builds the runtime shared by every command.
// quiet discards logs unless --log-level was given explicitly.
func setup(cmd *cobra.Command, quiet bool) (config.Config, *cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}

	logger := logging.NewNop()
	if !quiet || cmd.Flags().Changed("log-level") {
		logger, err = cli.CreateLogger(cfg.LogLevel)
		if err != nil {
			return cfg, nil, err
		}
	}

	rt, err := cli.NewRuntime(cfg, logger)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, rt, nil
}
