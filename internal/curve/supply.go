// internal/curve/supply.go
package curve

import "math"

// SupplyFigures are the calibration values shown next to the parameter form.
type SupplyFigures struct {
	A              float64 `json:"a" yaml:"a"`
	TreasurySupply float64 `json:"treasury_supply" yaml:"treasury_supply"`
	CurrentSupply  float64 `json:"current_supply" yaml:"current_supply"`
}

// DeriveSupplyFigures computes the reward scale and the supply split between
// the liquidity pool and the treasury. The treasury holds TreasuryShare
// percent of the total, the pool holds the rest.
func DeriveSupplyFigures(params Params) SupplyFigures {
	a := params.A
	if a == 0 {
		a = DeriveA(params.MaxReward, params.P, params.B, params.K)
	}

	var treasury float64
	if share := params.TreasuryShare; share > 0 && share < 100 {
		treasury = params.InitialLiquidity * share / (100 - share)
	}

	return SupplyFigures{
		A:              a,
		TreasurySupply: treasury,
		CurrentSupply:  math.Max(0, params.InitialLiquidity+treasury),
	}
}

// AxisTicks returns at most ten evenly spaced, rounded performance ticks
// covering [0, P].
func AxisTicks(maxP float64) []float64 {
	if maxP <= 0 {
		return []float64{0}
	}
	count := int(math.Min(10, maxP+1))
	if count < 2 {
		return []float64{0, math.Round(maxP)}
	}
	step := maxP / float64(count-1)
	ticks := make([]float64, count)
	for i := range ticks {
		ticks[i] = math.Round(float64(i) * step)
	}
	return ticks
}
