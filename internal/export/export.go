package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/rovshanmuradov/simward/internal/engine"
	"github.com/rovshanmuradov/simward/internal/equilibrium"
)

// Format represents the export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user supplied name into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Options configures the export behavior
type Options struct {
	Format    Format
	OutputDir string
}

// Exporter writes engine results to files
type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// curveDocument is the JSON/YAML layout of an exported curve
type curveDocument struct {
	ExportTime time.Time             `json:"export_time" yaml:"export_time"`
	Scenario   string                `json:"scenario" yaml:"scenario"`
	PointCount int                   `json:"point_count" yaml:"point_count"`
	BreakEven  *curve.BreakEvenPoint `json:"break_even,omitempty" yaml:"break_even,omitempty"`
	Samples    []curve.SamplePoint   `json:"samples" yaml:"samples"`
}

// equilibriumDocument is the JSON/YAML layout of one exported simulation
type equilibriumDocument struct {
	ExportTime  time.Time           `json:"export_time" yaml:"export_time"`
	Scenario    string              `json:"scenario" yaml:"scenario"`
	Params      curve.Params        `json:"params" yaml:"params"`
	Supply      curve.SupplyFigures `json:"supply" yaml:"supply"`
	Equilibrium equilibrium.Result  `json:"equilibrium" yaml:"equilibrium"`
}

// sweepDocument is the JSON/YAML layout of exported scenario results
type sweepDocument struct {
	ExportTime time.Time            `json:"export_time" yaml:"export_time"`
	Summary    Summary              `json:"summary" yaml:"summary"`
	Results    []engine.SweepResult `json:"results" yaml:"results"`
}

// Summary counts equilibrium outcomes across exported scenarios
type Summary struct {
	Scenarios int            `json:"scenarios" yaml:"scenarios"`
	Outcomes  map[string]int `json:"outcomes" yaml:"outcomes"`
	MaxRounds int            `json:"max_rounds" yaml:"max_rounds"`
}

// ExportCurve writes the sample sequence of one scenario
func (ex *Exporter) ExportCurve(scenario string, res engine.CurveResult, opts Options) (string, error) {
	if len(res.Samples) == 0 {
		return "", fmt.Errorf("no samples to export")
	}

	doc := curveDocument{
		ExportTime: ex.now().UTC(),
		Scenario:   scenario,
		PointCount: len(res.Samples),
		BreakEven:  res.BreakEven,
		Samples:    res.Samples,
	}

	path, err := ex.write("curve_"+sanitize(scenario), opts, doc, func(w *csv.Writer) error {
		if err := w.Write(CurveHeaders()); err != nil {
			return err
		}
		for _, sp := range res.Samples {
			if err := w.Write(curveRow(sp)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	ex.logger.Info("Curve exported",
		zap.String("file", path),
		zap.String("scenario", scenario),
		zap.Int("count", len(res.Samples)),
		zap.String("format", string(opts.Format)))
	return path, nil
}

// ExportEquilibrium writes one simulation result together with the
// parameters and supply figures it was run with
func (ex *Exporter) ExportEquilibrium(scenario string, params curve.Params, supply curve.SupplyFigures, res equilibrium.Result, opts Options) (string, error) {
	doc := equilibriumDocument{
		ExportTime:  ex.now().UTC(),
		Scenario:    scenario,
		Params:      params,
		Supply:      supply,
		Equilibrium: res,
	}

	path, err := ex.write("equilibrium_"+sanitize(scenario), opts, doc, func(w *csv.Writer) error {
		if err := w.Write(EquilibriumHeaders()); err != nil {
			return err
		}
		return w.Write(equilibriumRow(scenario, res, supply))
	})
	if err != nil {
		return "", err
	}

	ex.logger.Info("Equilibrium exported",
		zap.String("file", path),
		zap.String("scenario", scenario),
		zap.String("outcome", res.Outcome()),
		zap.String("format", string(opts.Format)))
	return path, nil
}

// ExportSweep writes one summary row per scenario. JSON and YAML outputs
// carry the full results including the sampled curves.
func (ex *Exporter) ExportSweep(results []engine.SweepResult, opts Options) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("no results to export")
	}

	doc := sweepDocument{
		ExportTime: ex.now().UTC(),
		Summary:    summarize(results),
		Results:    results,
	}

	path, err := ex.write("sweep", opts, doc, func(w *csv.Writer) error {
		if err := w.Write(SweepHeaders()); err != nil {
			return err
		}
		for _, r := range results {
			if err := w.Write(sweepRow(r)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	ex.logger.Info("Results exported",
		zap.String("file", path),
		zap.Int("count", len(results)),
		zap.String("format", string(opts.Format)))
	return path, nil
}

// write creates the output file and encodes doc in the requested format
func (ex *Exporter) write(prefix string, opts Options, doc interface{}, writeCSV func(*csv.Writer) error) (string, error) {
	if opts.Format == "" {
		opts.Format = FormatCSV
	}
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return "", err
	}

	// Ensure output directory exists
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, ex.generateFilename(prefix, opts.Format))
	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s file: %w", opts.Format, err)
	}
	defer file.Close()

	switch opts.Format {
	case FormatCSV:
		err = encodeCSV(file, writeCSV)
	case FormatJSON:
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(doc)
	case FormatYAML:
		encoder := yaml.NewEncoder(file)
		encoder.SetIndent(2)
		err = encoder.Encode(doc)
		if err == nil {
			err = encoder.Close()
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", opts.Format, err)
	}
	return outputPath, nil
}

func encodeCSV(w io.Writer, fill func(*csv.Writer) error) error {
	writer := csv.NewWriter(w)
	if err := fill(writer); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// generateFilename creates a filename from a prefix and the current time
func (ex *Exporter) generateFilename(prefix string, format Format) string {
	timestamp := ex.now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, format)
}

// CurveHeaders returns the CSV header of a curve export
func CurveHeaders() []string {
	return []string{
		"p", "y", "cumulative", "y_usd", "cumulative_usd",
		"distribution_density", "cumulative_probability",
	}
}

func curveRow(sp curve.SamplePoint) []string {
	return []string{
		formatFloat(sp.P), formatFloat(sp.Y), formatFloat(sp.Cumulative),
		formatFloat(sp.YUSD), formatFloat(sp.CumulativeUSD),
		formatFloat(sp.Density), formatFloat(sp.CumulativeProbability),
	}
}

// EquilibriumHeaders returns the CSV header of a single equilibrium export
func EquilibriumHeaders() []string {
	return []string{
		"scenario", "outcome", "rounds_run", "mints", "burns",
		"supply_created", "usd_extracted", "final_price", "final_supply",
		"initial_break_even", "current_break_even",
		"treasury_supply", "current_supply",
	}
}

// SweepHeaders returns the CSV header of a sweep export
func SweepHeaders() []string {
	return append(EquilibriumHeaders(), "curve_break_even")
}

func equilibriumRow(scenario string, eq equilibrium.Result, supply curve.SupplyFigures) []string {
	return []string{
		scenario, eq.Outcome(),
		strconv.Itoa(eq.RoundsRun), strconv.Itoa(eq.Mints), strconv.Itoa(eq.Burns),
		formatFloat(eq.SupplyCreated), formatFloat(eq.USDExtracted),
		formatFloat(eq.FinalPrice), formatFloat(eq.FinalSupply),
		formatOptional(eq.InitialBreakEven), formatOptional(eq.CurrentBreakEven),
		formatFloat(supply.TreasurySupply), formatFloat(supply.CurrentSupply),
	}
}

func sweepRow(r engine.SweepResult) []string {
	var curveBE *float64
	if r.Curve.BreakEven != nil {
		curveBE = &r.Curve.BreakEven.P
	}
	return append(equilibriumRow(r.Scenario, r.Equilibrium, r.Supply), formatOptional(curveBE))
}

func summarize(results []engine.SweepResult) Summary {
	summary := Summary{
		Scenarios: len(results),
		Outcomes:  make(map[string]int),
	}
	for _, r := range results {
		summary.Outcomes[r.Equilibrium.Outcome()]++
		if r.Equilibrium.RoundsRun > summary.MaxRounds {
			summary.MaxRounds = r.Equilibrium.RoundsRun
		}
	}
	return summary
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// sanitize keeps scenario names safe for use in file names
func sanitize(name string) string {
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
