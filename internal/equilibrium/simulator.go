// =============================
// File: internal/equilibrium/simulator.go
// =============================
package equilibrium

import (
	"context"
	"fmt"
	"math"

	"github.com/rovshanmuradov/simward/internal/curve"
	"go.uber.org/zap"
)

const (
	DefaultMaxRounds     = 500_000
	DefaultTolerance     = 0.01
	DefaultProgressEvery = 50_000
)

// Transition is the rule applied in one round.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionMintAndSwap
	TransitionBuyAndBurn
)

func (t Transition) String() string {
	switch t {
	case TransitionMintAndSwap:
		return "mint-and-swap"
	case TransitionBuyAndBurn:
		return "buy-and-burn"
	default:
		return "none"
	}
}

// Options tunes the fixed-point search.
type Options struct {
	MaxRounds     int
	Tolerance     float64
	ProgressEvery int
}

// DefaultOptions returns the standard round budget and tolerance.
func DefaultOptions() Options {
	return Options{
		MaxRounds:     DefaultMaxRounds,
		Tolerance:     DefaultTolerance,
		ProgressEvery: DefaultProgressEvery,
	}
}

// Simulator runs repeated economic rounds against a constant-product pool
// until the break-even performance meets the population mean.
type Simulator struct {
	logger *zap.Logger
	opts   Options
}

// NewSimulator creates a simulator. Zero option fields take their defaults.
func NewSimulator(logger *zap.Logger, opts Options) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultOptions()
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = def.MaxRounds
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = def.ProgressEvery
	}
	return &Simulator{
		logger: logger.Named("equilibrium"),
		opts:   opts,
	}
}

// Options returns the effective options.
func (s *Simulator) Options() Options {
	return s.opts
}

// Run simulates rounds for params. All state lives in this call; a cancelled
// context aborts between rounds and the partial state is dropped.
func (s *Simulator) Run(ctx context.Context, params curve.Params) (Result, error) {
	params = params.Resolved()
	if err := params.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	res := Result{
		FinalPrice:  params.Price,
		FinalSupply: params.S,
	}

	ev := curve.NewEvaluator(params)
	if be, ok := ev.BreakEvenAt(params.S, params.Price); ok {
		res.InitialBreakEven = floatPtr(be)
	}

	// Без пула симулировать нечего.
	if params.InitialLiquidity <= 0 || params.Price <= 0 {
		s.logger.Debug("Skipping equilibrium run: no pool",
			zap.Float64("initial_liquidity", params.InitialLiquidity),
			zap.Float64("price", params.Price))
		res.CurrentBreakEven = res.InitialBreakEven
		return res, nil
	}

	pool := NewPool(params.InitialLiquidity, params.Price, params.S)
	mean := params.AvgPerformance

	for res.RoundsRun < s.opts.MaxRounds {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("equilibrium run aborted after %d rounds: %w", res.RoundsRun, err)
		}

		be, found := ev.BreakEvenAt(pool.Supply, pool.Price())
		if found && s.converged(be, mean) {
			break
		}

		before := *pool
		switch s.step(pool, params, be, found, &res) {
		case TransitionMintAndSwap:
			res.Mints++
		case TransitionBuyAndBurn:
			res.Burns++
		}
		res.RoundsRun++

		if *pool == before {
			// все оставшиеся раунды повторили бы этот же, бюджет считается исчерпанным
			res.Stalled = true
			res.StalledAt = res.RoundsRun
			res.RoundsRun = s.opts.MaxRounds
			s.logger.Debug("Equilibrium run stalled",
				zap.Int("round", res.StalledAt),
				zap.Float64("supply", pool.Supply))
			break
		}

		if res.RoundsRun%s.opts.ProgressEvery == 0 {
			s.logger.Debug("Equilibrium progress",
				zap.Int("round", res.RoundsRun),
				zap.Bool("break_even_found", found),
				zap.Float64("break_even", be),
				zap.Float64("supply", pool.Supply),
				zap.Float64("price", pool.Price()))
		}
	}

	if be, ok := ev.BreakEvenAt(pool.Supply, pool.Price()); ok {
		res.CurrentBreakEven = floatPtr(be)
		res.Converged = s.converged(be, mean)
	}
	res.FinalPrice = pool.Price()
	res.FinalSupply = pool.Supply

	s.logger.Info("Equilibrium run finished",
		zap.String("outcome", res.Outcome()),
		zap.Int("rounds", res.RoundsRun),
		zap.Int("mints", res.Mints),
		zap.Int("burns", res.Burns),
		zap.Float64("supply_created", res.SupplyCreated),
		zap.Float64("usd_extracted", res.USDExtracted),
		zap.Float64("final_price", res.FinalPrice))

	return res, nil
}

// step applies one transition selected by the sign of breakEven − mean.
// A missing break-even means the curve never pays back the fee, which is
// treated like a break-even above the mean.
func (s *Simulator) step(pool *Pool, params curve.Params, breakEven float64, found bool, res *Result) Transition {
	if !found || breakEven > params.AvgPerformance {
		burned, usdIn := pool.BuyAndBurn(params.EntryFee)
		res.SupplyCreated -= burned
		res.USDExtracted -= usdIn
		return TransitionBuyAndBurn
	}

	minted := curve.Reward(params.AvgPerformance, pool.Supply, params)
	usdOut := pool.MintAndSwap(minted)
	if minted > 0 {
		res.SupplyCreated += minted
		res.USDExtracted += usdOut
	}
	return TransitionMintAndSwap
}

func (s *Simulator) converged(breakEven, mean float64) bool {
	return math.Abs(breakEven-mean) <= s.opts.Tolerance
}
