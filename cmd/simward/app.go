package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/simward/internal/config"
	"github.com/rovshanmuradov/simward/internal/engine"
	"github.com/rovshanmuradov/simward/internal/export"
	"github.com/rovshanmuradov/simward/internal/utils/logger"
	"github.com/rovshanmuradov/simward/internal/utils/metrics"
)

// app holds the dependencies shared by all subcommands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	engine   *engine.Engine
	exporter *export.Exporter
	out      io.Writer
	logOut   io.Writer // консоль логов, по умолчанию stderr
}

// setup loads the configuration and wires the engine
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")
	maxRounds, _ := flags.GetInt("max-rounds")
	exportDir, _ := flags.GetString("export-dir")

	cfg, err := config.LoadScenarios(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if debug {
		cfg.Log.Development = true
	}
	if maxRounds > 0 {
		cfg.MaxRounds = maxRounds
	}
	if exportDir != "" {
		cfg.ExportDir = exportDir
	}

	cfg.Log.Console = a.logOut
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.out = cmd.OutOrStdout()
	a.registry = prometheus.NewRegistry()
	a.engine = engine.NewEngine(log.Logger,
		engine.WithMetrics(metrics.NewCollector(a.registry)),
		engine.WithCache(engine.NewCache(log.WithComponent("cache"))),
		engine.WithSimulatorOptions(cfg.SimulatorOptions()),
	)
	a.exporter = export.NewExporter(log.Logger)

	log.Debug("Configuration loaded",
		zap.String("config", path),
		zap.Int("scenarios", len(cfg.Scenarios)),
		zap.Int("max_rounds", cfg.MaxRounds))
	return nil
}

// teardown flushes metrics and logs
func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.log == nil {
		return nil
	}
	defer a.log.Sync()

	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, a.registry); err != nil {
			a.log.LogError("Failed to write metrics", err, zap.String("file", metricsFile))
			return err
		}
	}
	return nil
}

// scenario resolves the --scenario flag
func (a *app) scenario(cmd *cobra.Command) (config.Scenario, error) {
	name, _ := cmd.Flags().GetString("scenario")
	return a.cfg.Scenario(name)
}

// exportOptions returns export options when --export is set
func (a *app) exportOptions(cmd *cobra.Command) (export.Options, bool, error) {
	enabled, _ := cmd.Flags().GetBool("export")
	if !enabled {
		return export.Options{}, false, nil
	}
	name, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(name)
	if err != nil {
		return export.Options{}, false, err
	}
	return export.Options{Format: format, OutputDir: a.cfg.ExportDir}, true, nil
}

func (a *app) printJSON(v interface{}) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (a *app) printText(s string) {
	fmt.Fprintln(a.out, s)
}

// jsonOutput reports whether --json is set
func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeVersion(w io.Writer, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(w).Encode(map[string]string{"version": version})
		return
	}
	fmt.Fprintf(w, "simward version %s\n", version)
}
