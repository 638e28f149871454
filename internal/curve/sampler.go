// =============================
// File: internal/curve/sampler.go
// =============================
package curve

import (
	"math"

	"github.com/shopspring/decimal"
)

// Display precision of returned samples.
const (
	TokenDecimals       = 2
	USDDecimals         = 4
	DensityDecimals     = 4
	ProbabilityDecimals = 2
)

// SamplePoint is one row of the sampled curve, rounded for display.
type SamplePoint struct {
	P                     float64 `json:"p" yaml:"p"`
	Y                     float64 `json:"y" yaml:"y"`
	Cumulative            float64 `json:"cumulative" yaml:"cumulative"`
	YUSD                  float64 `json:"y_usd" yaml:"y_usd"`
	CumulativeUSD         float64 `json:"cumulative_usd" yaml:"cumulative_usd"`
	Density               float64 `json:"distribution_density" yaml:"distribution_density"`
	CumulativeProbability float64 `json:"cumulative_probability" yaml:"cumulative_probability"`
}

// Sample evaluates the curve at every integer performance from 0 to floor(P)
// at the configured supply S and price.
func Sample(params Params) []SamplePoint {
	profile := NewProfile(params)
	c := profile.At(params.S, nil)
	pop := NewPopulation(params.AvgPerformance, params.StdDeviation, params.P)

	points := make([]SamplePoint, len(c.P))
	for i, p := range c.P {
		points[i] = SamplePoint{
			P:                     Round(p, TokenDecimals),
			Y:                     Round(c.Y[i], TokenDecimals),
			Cumulative:            Round(c.Cumulative[i], TokenDecimals),
			YUSD:                  Round(c.Y[i]*params.Price, USDDecimals),
			CumulativeUSD:         Round(c.Cumulative[i]*params.Price, USDDecimals),
			Density:               Round(pop.Density(p), DensityDecimals),
			CumulativeProbability: Round(pop.nodeProbability(i), ProbabilityDecimals),
		}
	}
	return points
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
