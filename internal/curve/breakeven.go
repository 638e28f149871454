// internal/curve/breakeven.go
package curve

// BreakEvenPoint is the first performance level where the chosen USD series
// reaches the threshold.
type BreakEvenPoint struct {
	P   float64 `json:"p" yaml:"p"`
	USD float64 `json:"usd" yaml:"usd"`
}

// Locate scans consecutive sample pairs for the first one bracketing
// threshold and interpolates linearly between them. The bool is false when
// no pair brackets the threshold. For a non-monotonic series only the first
// crossing is reported.
func Locate(points []SamplePoint, threshold float64, series Series) (float64, bool) {
	ps := make([]float64, len(points))
	values := make([]float64, len(points))
	for i, pt := range points {
		ps[i] = pt.P
		if series == SeriesInstantUSD {
			values[i] = pt.YUSD
		} else {
			values[i] = pt.CumulativeUSD
		}
	}
	return LocateValues(ps, values, threshold)
}

// LocateValues is Locate over raw slices. ps and values must have equal length.
func LocateValues(ps, values []float64, threshold float64) (float64, bool) {
	for i := 1; i < len(values); i++ {
		prev, curr := values[i-1], values[i]
		if prev > threshold || threshold > curr {
			continue
		}
		if curr == prev {
			return ps[i-1], true
		}
		ratio := (threshold - prev) / (curr - prev)
		return ps[i-1] + ratio*(ps[i]-ps[i-1]), true
	}
	return 0, false
}

// Evaluator locates the break-even point of one parameter set at arbitrary
// supply and price levels. It reuses its buffers and is not safe for
// concurrent use.
type Evaluator struct {
	profile   *Profile
	series    Series
	threshold float64
	curve     Curve
	usd       []float64
}

// NewEvaluator prepares an evaluator for params, using EntryFee as threshold.
func NewEvaluator(params Params) *Evaluator {
	return &Evaluator{
		profile:   NewProfile(params),
		series:    params.Series,
		threshold: params.EntryFee,
	}
}

// BreakEvenAt returns the break-even performance for the curve at supply,
// valued at price.
func (e *Evaluator) BreakEvenAt(supply, price float64) (float64, bool) {
	e.profile.At(supply, &e.curve)
	e.usd = e.curve.USD(e.series, price, e.usd)
	return LocateValues(e.curve.P, e.usd, e.threshold)
}
