package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive counter session",
	Long: `Renders the connected counter and the hook-style counter side by side and
reads commands from Stdin (inc, inc N, dec, connect inc|dec, hooks inc|dec, state, quit).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session := cli.NewSession(ctx, rt.Store, cli.SessionOptions{
			In:        os.Stdin,
			Out:       os.Stdout,
			HooksStep: cfg.HooksStep,
			Rich:      cli.IsInteractive(os.Stdout),
		})
		defer session.Close()

		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// 'run' is the default when no command is provided
	rootCmd.RunE = runCmd.RunE
}
