// internal/curve/population.go
package curve

import "math"

// minStdDeviation floors σ so the density stays defined.
const minStdDeviation = 1e-9

// Population models how players are spread over the performance axis with
// an unnormalised Gaussian bump centred on the average performance.
type Population struct {
	mean  float64
	sigma float64
	// mass[i] is the trapezoid integral of the density over [0, i].
	mass  []float64
	total float64
}

// NewPopulation builds the model over the integer grid 0..floor(maxP).
func NewPopulation(mean, std, maxP float64) *Population {
	sigma := std
	if sigma <= 0 {
		sigma = minStdDeviation
	}

	pp := &Population{mean: mean, sigma: sigma}

	n := 0
	if maxP >= 0 {
		n = int(math.Floor(maxP)) + 1
	}
	pp.mass = make([]float64, n)
	for i := 1; i < n; i++ {
		pp.mass[i] = pp.mass[i-1] + (pp.Density(float64(i-1))+pp.Density(float64(i)))/2
	}
	if n > 0 {
		pp.total = pp.mass[n-1]
	}
	return pp
}

// Density returns exp(−(p−μ)²/(2σ²)).
func (pp *Population) Density(p float64) float64 {
	d := p - pp.mean
	return math.Exp(-(d * d) / (2 * pp.sigma * pp.sigma))
}

// CumulativeProbability returns the share (in percent) of the density mass
// lying in [0, p]. Between grid nodes the last segment is a trapezoid up to p.
// It is 0 when the total mass is 0.
func (pp *Population) CumulativeProbability(p float64) float64 {
	if pp.total == 0 || p <= 0 {
		return 0
	}

	last := len(pp.mass) - 1
	j := int(math.Floor(p))
	if j >= last {
		return 100
	}

	partial := pp.mass[j]
	if frac := p - float64(j); frac > 0 {
		partial += (pp.Density(float64(j)) + pp.Density(p)) / 2 * frac
	}
	return math.Min(100, partial/pp.total*100)
}

// nodeProbability is CumulativeProbability at grid node i.
func (pp *Population) nodeProbability(i int) float64 {
	if pp.total == 0 {
		return 0
	}
	return pp.mass[i] / pp.total * 100
}
