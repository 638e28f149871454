package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateValues(t *testing.T) {
	ps := []float64{0, 1, 2, 3}
	values := []float64{0, 1, 3, 6}

	tests := []struct {
		name      string
		threshold float64
		want      float64
		found     bool
	}{
		{"interpolates", 2, 1.5, true},
		{"exact node", 3, 2, true},
		{"start of series", 0, 0, true},
		{"last node", 6, 3, true},
		{"above max", 6.5, 0, false},
		{"below min", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LocateValues(ps, values, tt.threshold)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestLocateValues_FlatBracket(t *testing.T) {
	got, ok := LocateValues([]float64{0, 1, 2}, []float64{1, 1, 2}, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, got)
}

func TestLocateValues_FirstCrossingWins(t *testing.T) {
	// non-monotonic: crosses 1 on the way up, again on the way down and up
	got, ok := LocateValues([]float64{0, 1, 2, 3, 4}, []float64{0, 2, 0, 2, 0}, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestLocate_FeeAboveSeriesMax(t *testing.T) {
	params := DefaultParams().Resolved()
	points := Sample(params)

	maxUSD := 0.0
	for _, pt := range points {
		maxUSD = math.Max(maxUSD, pt.CumulativeUSD)
	}

	_, ok := Locate(points, maxUSD+0.01, SeriesCumulativeUSD)
	assert.False(t, ok)

	_, ok = Locate(points, 10.01, SeriesInstantUSD)
	assert.False(t, ok, "instant series peaks at 10 USD")
}

func TestLocate_DefaultBreakEven(t *testing.T) {
	params := DefaultParams().Resolved()
	points := Sample(params)

	p, ok := Locate(points, params.EntryFee, SeriesCumulativeUSD)
	require.True(t, ok)
	assert.InDelta(t, 13.87, p, 0.01)

	exact, ok := NewEvaluator(params).BreakEvenAt(params.S, params.Price)
	require.True(t, ok)
	assert.InDelta(t, p, exact, 0.01)
}

func TestEvaluator_SupplyMovesBreakEven(t *testing.T) {
	params := DefaultParams().Resolved()
	ev := NewEvaluator(params)

	base, ok := ev.BreakEvenAt(params.S, params.Price)
	require.True(t, ok)

	// less supply, more generous curve, earlier break-even
	lower, ok := ev.BreakEvenAt(params.S*0.9, params.Price)
	require.True(t, ok)
	assert.Less(t, lower, base)

	// a cheaper token needs more performance
	higher, ok := ev.BreakEvenAt(params.S, params.Price/2)
	require.True(t, ok)
	assert.Greater(t, higher, base)

	// re-evaluating with reused buffers gives the same answer
	again, _ := ev.BreakEvenAt(params.S, params.Price)
	assert.Equal(t, base, again)
}

func TestPopulation(t *testing.T) {
	pop := NewPopulation(10, 3, 20)

	assert.Equal(t, 1.0, pop.Density(10))
	assert.InDelta(t, math.Exp(-0.5), pop.Density(13), 1e-12)
	assert.InDelta(t, pop.Density(7), pop.Density(13), 1e-12)

	assert.Zero(t, pop.CumulativeProbability(0))
	assert.InDelta(t, 50.0, pop.CumulativeProbability(10), 1e-9)
	assert.Equal(t, 100.0, pop.CumulativeProbability(20))
	assert.Equal(t, 100.0, pop.CumulativeProbability(25))

	between := pop.CumulativeProbability(10.5)
	assert.Greater(t, between, pop.CumulativeProbability(10))
	assert.Less(t, between, pop.CumulativeProbability(11))
}

func TestPopulation_DegenerateSigma(t *testing.T) {
	pop := NewPopulation(5, 0, 10)

	assert.Equal(t, 1.0, pop.Density(5))
	assert.Zero(t, pop.Density(6))
	assert.False(t, math.IsNaN(pop.CumulativeProbability(5)))
}

func TestPopulation_ZeroMass(t *testing.T) {
	// a single grid node carries no trapezoid mass
	pop := NewPopulation(0, 1, 0.5)
	assert.Zero(t, pop.CumulativeProbability(0.3))
}
