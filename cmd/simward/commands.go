package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/simward/internal/report"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout(), jsonOutput(cmd))
		},
	}
}

func newCurveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Sample the reward curve and locate the break-even point",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.scenario(cmd)
			if err != nil {
				return err
			}

			res, err := a.engine.ComputeCurve(sc.Params)
			if err != nil {
				return err
			}

			if opts, ok, err := a.exportOptions(cmd); err != nil {
				return err
			} else if ok {
				if _, err := a.exporter.ExportCurve(sc.Name, res, opts); err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				return a.printJSON(res)
			}
			a.printText(report.RenderCurve(sc.Name, res))
			return nil
		},
	}
}

func newSupplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "supply",
		Short: "Show the derived reward scale and supply split",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.scenario(cmd)
			if err != nil {
				return err
			}

			figures, err := a.engine.ComputeDerivedSupplyFigures(sc.Params)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return a.printJSON(figures)
			}
			a.printText(report.RenderSupply(sc.Name, figures))
			return nil
		},
	}
}

func newEquilibriumCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "equilibrium",
		Short: "Simulate repeated play until the break-even meets the mean performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.scenario(cmd)
			if err != nil {
				return err
			}

			opLogger := a.log.WithScenario(sc.Name)
			res, err := a.engine.RunEquilibrium(cmd.Context(), sc.Params)
			if err != nil {
				opLogger.Error("Equilibrium run failed", zap.Error(err))
				return err
			}

			if opts, ok, err := a.exportOptions(cmd); err != nil {
				return err
			} else if ok {
				supply, err := a.engine.ComputeDerivedSupplyFigures(sc.Params)
				if err != nil {
					return err
				}
				if _, err := a.exporter.ExportEquilibrium(sc.Name, sc.Params.Resolved(), supply, res, opts); err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				return a.printJSON(res)
			}
			a.printText(report.RenderEquilibrium(sc.Name, res))
			return nil
		},
	}
}

func newSweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate every configured scenario concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			if workers <= 0 {
				workers = a.cfg.Workers
			}

			results, err := a.engine.Sweep(cmd.Context(), a.cfg.Scenarios, workers)
			if err != nil {
				return err
			}

			if opts, ok, err := a.exportOptions(cmd); err != nil {
				return err
			} else if ok {
				if _, err := a.exporter.ExportSweep(results, opts); err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				return a.printJSON(results)
			}
			a.printText(report.RenderSweep(results))
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "Concurrent scenarios (overrides config)")
	return cmd
}
