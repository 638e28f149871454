// =============================
// File: internal/curve/params.go
// =============================
package curve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxSamplePoints bounds the integer grid built for P.
const MaxSamplePoints = 1_000_000

// Series selects which USD series the break-even search scans.
type Series string

const (
	SeriesCumulativeUSD Series = "cumulative_usd"
	SeriesInstantUSD    Series = "instant_usd"
)

// Params holds the inputs of one engine invocation. Values are copied into
// every call; nothing keeps a reference to them.
type Params struct {
	A                float64 `mapstructure:"a" json:"a" yaml:"a"`
	MaxReward        float64 `mapstructure:"max_reward" json:"max_reward" yaml:"max_reward"`
	B                float64 `mapstructure:"b" json:"b" yaml:"b"`
	K                float64 `mapstructure:"k" json:"k" yaml:"k"`
	P                float64 `mapstructure:"p" json:"p" yaml:"p"`
	T                float64 `mapstructure:"t" json:"t" yaml:"t"`
	S                float64 `mapstructure:"s" json:"s" yaml:"s"`
	Price            float64 `mapstructure:"price" json:"price" yaml:"price"`
	EntryFee         float64 `mapstructure:"entry_fee" json:"entry_fee" yaml:"entry_fee"`
	AvgPerformance   float64 `mapstructure:"avg_performance" json:"avg_performance" yaml:"avg_performance"`
	StdDeviation     float64 `mapstructure:"std_deviation" json:"std_deviation" yaml:"std_deviation"`
	TreasuryShare    float64 `mapstructure:"treasury_share" json:"treasury_share" yaml:"treasury_share"`
	InitialLiquidity float64 `mapstructure:"initial_liquidity" json:"initial_liquidity" yaml:"initial_liquidity"`
	Series           Series  `mapstructure:"series" json:"series" yaml:"series"`
}

// DefaultParams returns the parameter set the simulator form starts with.
func DefaultParams() Params {
	return Params{
		MaxReward:        100000,
		B:                3,
		K:                5,
		P:                20,
		T:                1e9,
		S:                1e9,
		Price:            0.0001,
		EntryFee:         2,
		AvgPerformance:   10,
		StdDeviation:     3,
		TreasuryShare:    20,
		InitialLiquidity: 10_000_000,
		Series:           SeriesCumulativeUSD,
	}
}

// DeriveA calibrates the reward scale so that y(P) equals maxReward when S = T.
// A zero divisor gives a = 0, which is a curve with no reward anywhere.
// Overflowing powers degrade the same way.
func DeriveA(maxReward, p, b, k float64) float64 {
	head := math.Pow(p+b, k)
	gap := head - math.Pow(p, k)
	if head == 0 || gap == 0 {
		return 0
	}
	divisor := 1/gap - 1/head
	if divisor == 0 || !isFinite(divisor) {
		return 0
	}
	a := maxReward / divisor
	if !isFinite(a) {
		return 0
	}
	return a
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Resolved returns a copy with A derived from MaxReward when A is not set
// and the default series filled in.
func (p Params) Resolved() Params {
	if p.A == 0 && p.MaxReward != 0 {
		p.A = DeriveA(p.MaxReward, p.P, p.B, p.K)
	}
	if p.Series == "" {
		p.Series = SeriesCumulativeUSD
	}
	return p
}

// Validate checks the preconditions the engine cannot degrade around.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"a", p.A}, {"max_reward", p.MaxReward}, {"b", p.B}, {"k", p.K},
		{"p", p.P}, {"t", p.T}, {"s", p.S}, {"price", p.Price},
		{"entry_fee", p.EntryFee}, {"avg_performance", p.AvgPerformance},
		{"std_deviation", p.StdDeviation}, {"treasury_share", p.TreasuryShare},
		{"initial_liquidity", p.InitialLiquidity},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return fmt.Errorf("%s: %w", f.name, ErrNonFinite)
		}
	}

	if p.T == 0 {
		return ErrZeroTarget
	}
	if p.P < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidPerformance, p.P)
	}
	if math.Floor(p.P) >= MaxSamplePoints {
		return fmt.Errorf("%w: P=%g, limit %d", ErrTooManySamples, p.P, MaxSamplePoints)
	}
	if p.AvgPerformance < 0 || p.AvgPerformance > p.P {
		return fmt.Errorf("%w: mean %g, P=%g", ErrMeanOutOfRange, p.AvgPerformance, p.P)
	}
	if p.TreasuryShare < 0 || p.TreasuryShare >= 100 {
		return fmt.Errorf("%w: got %g", ErrInvalidTreasuryShare, p.TreasuryShare)
	}

	switch p.Series {
	case "", SeriesCumulativeUSD, SeriesInstantUSD:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSeries, p.Series)
	}
	return nil
}

// Key returns a stable identity of the parameter tuple, used for memoization.
func (p Params) Key() string {
	r := p.Resolved()
	values := []float64{
		r.A, r.B, r.K, r.P, r.T, r.S, r.Price, r.EntryFee,
		r.AvgPerformance, r.StdDeviation, r.TreasuryShare, r.InitialLiquidity,
	}

	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte('|')
	sb.WriteString(string(r.Series))
	return sb.String()
}

// safeInv returns 1/x, or 0 when x is zero.
func safeInv(x float64) float64 {
	if x == 0 {
		return 0
	}
	return 1 / x
}
