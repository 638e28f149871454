// =============================
// File: internal/engine/engine.go
// =============================
package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/rovshanmuradov/simward/internal/equilibrium"
	"github.com/rovshanmuradov/simward/internal/utils/logger"
	"github.com/rovshanmuradov/simward/internal/utils/metrics"
)

// Названия операций для логов и метрик
const (
	OpCurve       = "compute_curve"
	OpSupply      = "compute_supply"
	OpEquilibrium = "run_equilibrium"
)

// CurveResult is the sampled curve plus the break-even point, if any.
// Ticks are the rounded performance-axis labels for the sampled range.
type CurveResult struct {
	Samples   []curve.SamplePoint   `json:"samples" yaml:"samples"`
	BreakEven *curve.BreakEvenPoint `json:"break_even,omitempty" yaml:"break_even,omitempty"`
	Ticks     []float64             `json:"ticks" yaml:"ticks"`
}

// Clone returns a deep copy of r.
func (r CurveResult) Clone() CurveResult {
	out := CurveResult{
		Samples: append([]curve.SamplePoint(nil), r.Samples...),
		Ticks:   append([]float64(nil), r.Ticks...),
	}
	if r.BreakEven != nil {
		be := *r.BreakEven
		out.BreakEven = &be
	}
	return out
}

// Engine exposes the three call boundaries of the simulator. It holds no
// per-call state and is safe for concurrent use.
type Engine struct {
	base      *zap.Logger
	logger    *zap.Logger
	metrics   *metrics.Collector
	cache     *Cache
	simulator *equilibrium.Simulator
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records every call into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithCache memoizes results by parameter identity.
func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithSimulatorOptions overrides the equilibrium round budget and tolerance.
func WithSimulatorOptions(opts equilibrium.Options) Option {
	return func(e *Engine) { e.simulator = equilibrium.NewSimulator(e.base, opts) }
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{base: log, logger: log.Named("engine")}
	e.simulator = equilibrium.NewSimulator(log, equilibrium.DefaultOptions())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SimulatorOptions returns the options the engine runs equilibria with.
func (e *Engine) SimulatorOptions() equilibrium.Options {
	return e.simulator.Options()
}

func (e *Engine) prepare(params curve.Params) (curve.Params, error) {
	params = params.Resolved()
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("invalid parameters: %w", err)
	}
	return params, nil
}

// ComputeCurve samples the reward curve and locates the break-even point.
// The break-even is searched on unrounded values; the returned samples are
// rounded for display.
func (e *Engine) ComputeCurve(params curve.Params) (res CurveResult, err error) {
	start := time.Now()
	defer func() { e.metrics.RecordOperation(OpCurve, time.Since(start), err) }()

	params, err = e.prepare(params)
	if err != nil {
		return CurveResult{}, err
	}

	key := params.Key()
	if e.cache != nil {
		if cached, ok := e.cache.GetCurve(key); ok {
			e.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		e.metrics.RecordCacheLookup(false)
	}

	opLogger, done := logger.TrackPerformance(e.logger, OpCurve)
	defer done()

	res.Samples = curve.Sample(params)
	res.Ticks = curve.AxisTicks(params.P)
	if p, ok := curve.NewEvaluator(params).BreakEvenAt(params.S, params.Price); ok {
		res.BreakEven = &curve.BreakEvenPoint{
			P:   curve.Round(p, curve.TokenDecimals),
			USD: params.EntryFee,
		}
	}

	fields := []zap.Field{zap.Int("points", len(res.Samples))}
	if res.BreakEven != nil {
		fields = append(fields, zap.Float64("break_even", res.BreakEven.P))
	}
	opLogger.Debug("Curve computed", fields...)

	if e.cache != nil {
		e.cache.SetCurve(key, res)
	}
	return res, nil
}

// ComputeDerivedSupplyFigures returns a, the treasury supply and the current
// supply implied by the pool liquidity.
func (e *Engine) ComputeDerivedSupplyFigures(params curve.Params) (figures curve.SupplyFigures, err error) {
	start := time.Now()
	defer func() { e.metrics.RecordOperation(OpSupply, time.Since(start), err) }()

	params, err = e.prepare(params)
	if err != nil {
		return curve.SupplyFigures{}, err
	}
	return curve.DeriveSupplyFigures(params), nil
}

// RunEquilibrium runs the equilibrium simulation for params.
func (e *Engine) RunEquilibrium(ctx context.Context, params curve.Params) (res equilibrium.Result, err error) {
	start := time.Now()
	defer func() { e.metrics.RecordOperation(OpEquilibrium, time.Since(start), err) }()

	params, err = e.prepare(params)
	if err != nil {
		return equilibrium.Result{}, err
	}

	key := e.equilibriumKey(params)
	if e.cache != nil {
		if cached, ok := e.cache.GetEquilibrium(key); ok {
			e.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		e.metrics.RecordCacheLookup(false)
	}

	opLogger, done := logger.TrackPerformance(e.logger, OpEquilibrium)
	defer done()
	opLogger.Debug("Starting equilibrium run",
		zap.Float64("avg_performance", params.AvgPerformance),
		zap.Int("max_rounds", e.SimulatorOptions().MaxRounds))

	res, err = e.simulator.Run(ctx, params)
	if err != nil {
		opLogger.Warn("Equilibrium run aborted", zap.Error(err))
		return equilibrium.Result{}, err
	}
	e.metrics.RecordEquilibrium(res.Outcome(), res.RoundsRun)

	if e.cache != nil {
		e.cache.SetEquilibrium(key, res)
	}
	return res, nil
}

func (e *Engine) equilibriumKey(params curve.Params) string {
	opts := e.SimulatorOptions()
	return params.Key() + "|" + strconv.Itoa(opts.MaxRounds) + "|" +
		strconv.FormatFloat(opts.Tolerance, 'g', -1, 64)
}
