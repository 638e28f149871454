package engine

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/simward/internal/config"
	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/rovshanmuradov/simward/internal/equilibrium"
	"github.com/rovshanmuradov/simward/internal/utils/metrics"
)

func TestComputeCurve_Default(t *testing.T) {
	e := NewEngine(zap.NewNop())

	res, err := e.ComputeCurve(curve.DefaultParams())
	require.NoError(t, err)

	require.Len(t, res.Samples, 21)
	assert.Zero(t, res.Samples[0].Cumulative)
	require.NotNil(t, res.BreakEven)
	assert.InDelta(t, 13.87, res.BreakEven.P, 1e-9)
	assert.Equal(t, 2.0, res.BreakEven.USD)
}

func TestComputeCurve_Idempotent(t *testing.T) {
	e := NewEngine(zap.NewNop())
	params := curve.DefaultParams()

	first, err := e.ComputeCurve(params)
	require.NoError(t, err)
	second, err := e.ComputeCurve(params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeCurve_NoBreakEven(t *testing.T) {
	params := curve.DefaultParams()
	params.EntryFee = 1e6

	res, err := NewEngine(nil).ComputeCurve(params)
	require.NoError(t, err)
	assert.Nil(t, res.BreakEven)
	assert.NotEmpty(t, res.Samples)
}

func TestEngine_RejectsInvalidParams(t *testing.T) {
	params := curve.DefaultParams()
	params.T = 0
	e := NewEngine(zap.NewNop())

	_, err := e.ComputeCurve(params)
	assert.ErrorIs(t, err, curve.ErrZeroTarget)

	_, err = e.ComputeDerivedSupplyFigures(params)
	assert.ErrorIs(t, err, curve.ErrZeroTarget)

	_, err = e.RunEquilibrium(context.Background(), params)
	assert.ErrorIs(t, err, curve.ErrZeroTarget)
}

func TestComputeDerivedSupplyFigures(t *testing.T) {
	params := curve.DefaultParams()

	figures, err := NewEngine(zap.NewNop()).ComputeDerivedSupplyFigures(params)
	require.NoError(t, err)

	assert.InDelta(t, 2_500_000, figures.TreasurySupply, 1e-6)
	assert.InDelta(t, 12_500_000, figures.CurrentSupply, 1e-6)
	assert.InDelta(t, curve.DeriveA(params.MaxReward, params.P, params.B, params.K), figures.A, 1e-6)
}

func TestRunEquilibrium_ZeroLiquidity(t *testing.T) {
	params := curve.DefaultParams()
	params.InitialLiquidity = 0

	res, err := NewEngine(zap.NewNop()).RunEquilibrium(context.Background(), params)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Zero(t, res.RoundsRun)
	assert.Zero(t, res.SupplyCreated)
	assert.Zero(t, res.USDExtracted)
	assert.Equal(t, params.Price, res.FinalPrice)
}

func TestRunEquilibrium_Converges(t *testing.T) {
	res, err := NewEngine(zap.NewNop()).RunEquilibrium(context.Background(), curve.DefaultParams())
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.NotNil(t, res.CurrentBreakEven)
	assert.LessOrEqual(t, math.Abs(*res.CurrentBreakEven-10), equilibrium.DefaultTolerance)
	assert.Negative(t, res.SupplyCreated)
}

func TestRunEquilibrium_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(zap.NewNop()).RunEquilibrium(ctx, curve.DefaultParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_WithSimulatorOptions(t *testing.T) {
	e := NewEngine(zap.NewNop(), WithSimulatorOptions(equilibrium.Options{MaxRounds: 5}))
	assert.Equal(t, 5, e.SimulatorOptions().MaxRounds)

	res, err := e.RunEquilibrium(context.Background(), curve.DefaultParams())
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 5, res.RoundsRun)
}

func TestEngine_SimulatorLoggerNameStable(t *testing.T) {
	finishedBy := func(opts ...Option) []string {
		core, logs := observer.New(zap.InfoLevel)
		e := NewEngine(zap.New(core), opts...)
		_, err := e.RunEquilibrium(context.Background(), curve.DefaultParams())
		require.NoError(t, err)

		var names []string
		for _, entry := range logs.FilterMessage("Equilibrium run finished").All() {
			names = append(names, entry.LoggerName)
		}
		return names
	}

	assert.Equal(t, []string{"equilibrium"}, finishedBy())
	assert.Equal(t, []string{"equilibrium"}, finishedBy(WithSimulatorOptions(equilibrium.Options{MaxRounds: 5})))
}

func TestComputeCurve_OverflowingExponent(t *testing.T) {
	params := curve.DefaultParams()
	params.K = 300
	e := NewEngine(zap.NewNop())

	res, err := e.ComputeCurve(params)
	require.NoError(t, err)
	require.Len(t, res.Samples, 21)
	for _, sp := range res.Samples {
		assert.False(t, math.IsNaN(sp.Y), "P=%v", sp.P)
		assert.Zero(t, sp.Y)
	}
	assert.Nil(t, res.BreakEven)

	figures, err := e.ComputeDerivedSupplyFigures(params)
	require.NoError(t, err)
	assert.Zero(t, figures.A)
}

func TestEngine_RejectsMeanOutsideRange(t *testing.T) {
	params := curve.DefaultParams()
	params.AvgPerformance = 25

	_, err := NewEngine(zap.NewNop()).RunEquilibrium(context.Background(), params)
	assert.ErrorIs(t, err, curve.ErrMeanOutOfRange)
}

func TestComputeCurve_AxisTicks(t *testing.T) {
	res, err := NewEngine(zap.NewNop()).ComputeCurve(curve.DefaultParams())
	require.NoError(t, err)

	require.Len(t, res.Ticks, 10)
	assert.Equal(t, 0.0, res.Ticks[0])
	assert.Equal(t, 20.0, res.Ticks[9])

	clone := res.Clone()
	clone.Ticks[0] = 99
	assert.Equal(t, 0.0, res.Ticks[0])
}

func TestEngine_CacheAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	cache := NewCache(zap.NewNop())
	e := NewEngine(zap.NewNop(), WithCache(cache), WithMetrics(collector))
	params := curve.DefaultParams()

	first, err := e.ComputeCurve(params)
	require.NoError(t, err)

	// Изменение копии не должно затрагивать кэш
	first.Samples[0].Y = -1

	second, err := e.ComputeCurve(params)
	require.NoError(t, err)
	assert.NotEqual(t, -1.0, second.Samples[0].Y)

	_, err = e.RunEquilibrium(context.Background(), params)
	require.NoError(t, err)
	_, err = e.RunEquilibrium(context.Background(), params)
	require.NoError(t, err)

	entries, hits, misses := cache.GetStats()
	assert.Equal(t, uint64(2), entries)
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)

	assert.Equal(t, 1, mustCount(t, reg, "simward_equilibrium_runs_total"))
}

func TestSweep(t *testing.T) {
	base := curve.DefaultParams()
	minting := base
	minting.AvgPerformance = 14
	skipped := base
	skipped.InitialLiquidity = 0

	scenarios := []config.Scenario{
		{Name: "burn", Params: base},
		{Name: "mint", Params: minting},
		{Name: "skip", Params: skipped},
	}

	results, err := NewEngine(zap.NewNop()).Sweep(context.Background(), scenarios, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, scenarios[i].Name, res.Scenario)
		assert.Equal(t, results[0].RunID, res.RunID)
		assert.Len(t, res.Curve.Samples, 21)
	}
	assert.Negative(t, results[0].Equilibrium.SupplyCreated)
	assert.Positive(t, results[1].Equilibrium.SupplyCreated)
	assert.Equal(t, "skipped", results[2].Equilibrium.Outcome())
	assert.NotZero(t, results[0].Params.A)
}

func TestSweep_FailsOnInvalidScenario(t *testing.T) {
	broken := curve.DefaultParams()
	broken.TreasuryShare = 100

	_, err := NewEngine(zap.NewNop()).Sweep(context.Background(), []config.Scenario{
		{Name: "ok", Params: curve.DefaultParams()},
		{Name: "broken", Params: broken},
	}, 1)
	assert.ErrorIs(t, err, curve.ErrInvalidTreasuryShare)
}

func mustCount(t *testing.T, reg prometheus.Gatherer, name string) int {
	t.Helper()
	n, err := testutil.GatherAndCount(reg, name)
	require.NoError(t, err)
	return n
}
