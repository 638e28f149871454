// internal/curve/profile.go
package curve

import "math"

// Profile caches the supply-independent part of the curve on the integer
// performance grid 0..floor(P). Rewards at any supply are the unit values
// scaled by Numerator, so re-evaluating the curve needs no math.Pow.
type Profile struct {
	params Params
	ps     []float64
	unit   []float64
}

// Curve holds unrounded curve values for one supply level.
type Curve struct {
	P          []float64
	Y          []float64
	Cumulative []float64
}

// NewProfile evaluates the unit reward on the integer grid.
func NewProfile(params Params) *Profile {
	n := 0
	if params.P >= 0 {
		n = int(math.Floor(params.P)) + 1
	}

	head := math.Pow(params.P+params.B, params.K)
	pr := &Profile{
		params: params,
		ps:     make([]float64, n),
		unit:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p := float64(i)
		pr.ps[i] = p
		pr.unit[i] = unitReward(p, head, params.K)
	}
	return pr
}

// Len returns the number of grid points.
func (pr *Profile) Len() int {
	return len(pr.ps)
}

// At fills dst with the curve at the given supply, reusing its slices when
// they are large enough. A nil dst allocates a new Curve.
func (pr *Profile) At(supply float64, dst *Curve) *Curve {
	if dst == nil {
		dst = &Curve{}
	}
	n := len(pr.ps)
	dst.P = pr.ps
	dst.Y = resize(dst.Y, n)
	dst.Cumulative = resize(dst.Cumulative, n)

	num := Numerator(supply, pr.params)
	for i := 0; i < n; i++ {
		dst.Y[i] = num * pr.unit[i]
		if i == 0 {
			dst.Cumulative[i] = 0
			continue
		}
		// trapezoid with unit step
		dst.Cumulative[i] = dst.Cumulative[i-1] + (dst.Y[i-1]+dst.Y[i])/2
	}
	return dst
}

// USD writes the selected series converted at price into dst.
func (c *Curve) USD(series Series, price float64, dst []float64) []float64 {
	src := c.Cumulative
	if series == SeriesInstantUSD {
		src = c.Y
	}
	dst = resize(dst, len(src))
	for i, v := range src {
		dst[i] = v * price
	}
	return dst
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
