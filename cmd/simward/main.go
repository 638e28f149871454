// ====================================
// File: cmd/simward/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	// Отмена по Ctrl+C прерывает симуляцию между раундами
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simward",
		Short: "Reward curve and token equilibrium simulator",
		Long: `simward evaluates a parametric reward curve for skill-based games,
locates the break-even performance for a given entry fee and simulates
how repeated play against a constant-product pool moves the token
supply and price toward equilibrium.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Scenario file (yaml, json or toml)")
	flags.String("scenario", "", "Scenario name (default: first in file)")
	flags.Bool("json", false, "Output as JSON")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("export", false, "Write results to the export directory")
	flags.String("export-dir", "", "Export directory (overrides config)")
	flags.String("format", "csv", "Export format: csv, json or yaml")
	flags.String("metrics-file", "", "Write prometheus metrics to this file on exit")
	flags.Int("max-rounds", 0, "Equilibrium round budget (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newCurveCmd(a),
		newSupplyCmd(a),
		newEquilibriumCmd(a),
		newSweepCmd(a),
	)

	return rootCmd
}
