package equilibrium

import (
	"context"
	"math"
	"testing"

	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestSimulator(t *testing.T, opts Options) *Simulator {
	t.Helper()
	return NewSimulator(zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)), opts)
}

func TestRun_ZeroLiquiditySkipsLoop(t *testing.T) {
	params := curve.DefaultParams()
	params.InitialLiquidity = 0

	res, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Zero(t, res.SupplyCreated)
	assert.Zero(t, res.USDExtracted)
	assert.Zero(t, res.RoundsRun)
	assert.Equal(t, params.Price, res.FinalPrice)
	assert.Equal(t, "skipped", res.Outcome())
	require.NotNil(t, res.InitialBreakEven)
}

func TestRun_ZeroPriceSkipsLoop(t *testing.T) {
	params := curve.DefaultParams()
	params.Price = 0

	res, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Zero(t, res.RoundsRun)
	assert.Nil(t, res.InitialBreakEven, "a worthless token never pays the fee")
}

func TestRun_InvalidParams(t *testing.T) {
	params := curve.DefaultParams()
	params.T = 0

	_, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	assert.ErrorIs(t, err, curve.ErrZeroTarget)
}

func TestRun_ConvergesByBurning(t *testing.T) {
	// average player sits below the initial break-even (~13.87)
	params := curve.DefaultParams()
	params.AvgPerformance = 10

	res, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.NotNil(t, res.CurrentBreakEven)
	assert.LessOrEqual(t, math.Abs(*res.CurrentBreakEven-params.AvgPerformance), DefaultTolerance)
	assert.Greater(t, *res.InitialBreakEven, params.AvgPerformance)

	assert.Greater(t, res.RoundsRun, 0)
	assert.Equal(t, res.RoundsRun, res.Burns)
	assert.Less(t, res.SupplyCreated, 0.0)
	assert.Less(t, res.USDExtracted, 0.0)
	assert.Greater(t, res.FinalPrice, params.Price)
	assert.InDelta(t, params.S+res.SupplyCreated, res.FinalSupply, 1e-3)
}

func TestRun_ConvergesByMinting(t *testing.T) {
	params := curve.DefaultParams()
	params.AvgPerformance = 14

	res, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	require.NoError(t, err)

	require.True(t, res.Converged)
	assert.LessOrEqual(t, math.Abs(*res.CurrentBreakEven-params.AvgPerformance), DefaultTolerance)
	assert.Greater(t, res.Mints, 0)
	assert.Greater(t, res.SupplyCreated, 0.0)
	assert.Greater(t, res.USDExtracted, 0.0)
	assert.Less(t, res.FinalPrice, params.Price)
}

func TestRun_AlreadyAtEquilibrium(t *testing.T) {
	params := curve.DefaultParams().Resolved()
	be, ok := curve.NewEvaluator(params).BreakEvenAt(params.S, params.Price)
	require.True(t, ok)
	params.AvgPerformance = be

	res, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Zero(t, res.RoundsRun)
	assert.Zero(t, res.SupplyCreated)
	assert.InDelta(t, *res.InitialBreakEven, *res.CurrentBreakEven, 1e-9)
}

func TestRun_RoundBudget(t *testing.T) {
	params := curve.DefaultParams()
	params.AvgPerformance = 10

	res, err := newTestSimulator(t, Options{MaxRounds: 5}).Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 5, res.RoundsRun)
	assert.False(t, res.Converged)
	assert.Equal(t, "exhausted", res.Outcome())
	require.NotNil(t, res.CurrentBreakEven)
	assert.Less(t, *res.CurrentBreakEven, *res.InitialBreakEven)
}

func TestRun_StallsAtMinimalSupply(t *testing.T) {
	params := curve.DefaultParams()
	params.S = 1
	params.EntryFee = 1e12 // never paid back, always burn

	res, err := newTestSimulator(t, Options{}).Run(context.Background(), params)
	require.NoError(t, err)

	assert.True(t, res.Stalled)
	assert.False(t, res.Converged)
	assert.Equal(t, DefaultMaxRounds, res.RoundsRun)
	assert.Equal(t, 1, res.StalledAt)
	assert.Equal(t, 1, res.Burns)
	assert.Zero(t, res.SupplyCreated)
	assert.Equal(t, 1.0, res.FinalSupply)
	assert.Nil(t, res.CurrentBreakEven)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	params := curve.DefaultParams()
	_, err := newTestSimulator(t, Options{}).Run(ctx, params)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Deterministic(t *testing.T) {
	params := curve.DefaultParams()
	params.AvgPerformance = 12
	sim := newTestSimulator(t, Options{MaxRounds: 2_000})

	first, err := sim.Run(context.Background(), params)
	require.NoError(t, err)
	second, err := sim.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewSimulator_Defaults(t *testing.T) {
	sim := NewSimulator(nil, Options{})
	assert.Equal(t, DefaultOptions(), sim.Options())
}

func TestResult_CloneDetachesPointers(t *testing.T) {
	res := Result{InitialBreakEven: floatPtr(3)}
	clone := res.Clone()
	*clone.InitialBreakEven = 4
	assert.Equal(t, 3.0, *res.InitialBreakEven)
}

func TestTransition_String(t *testing.T) {
	assert.Equal(t, "mint-and-swap", TransitionMintAndSwap.String())
	assert.Equal(t, "buy-and-burn", TransitionBuyAndBurn.String())
	assert.Equal(t, "none", TransitionNone.String())
}
