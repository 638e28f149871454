// internal/equilibrium/result.go
package equilibrium

// Result describes one finished simulation run.
type Result struct {
	// SupplyCreated is the signed supply delta: positive when net minted.
	SupplyCreated float64 `json:"supply_created" yaml:"supply_created"`
	// USDExtracted is the signed USD taken out of the pool by players.
	USDExtracted float64 `json:"usd_extracted" yaml:"usd_extracted"`
	FinalPrice   float64 `json:"final_price" yaml:"final_price"`
	FinalSupply  float64 `json:"final_supply" yaml:"final_supply"`
	RoundsRun    int     `json:"rounds_run" yaml:"rounds_run"`
	Mints        int     `json:"mints" yaml:"mints"`
	Burns        int     `json:"burns" yaml:"burns"`

	// Break-even performance before the first round and after the last one.
	// Nil when the curve never reaches the entry fee.
	InitialBreakEven *float64 `json:"initial_break_even,omitempty" yaml:"initial_break_even,omitempty"`
	CurrentBreakEven *float64 `json:"current_break_even,omitempty" yaml:"current_break_even,omitempty"`

	Converged bool `json:"converged" yaml:"converged"`
	// Stalled is set when a round left the state unchanged, so every further
	// round would repeat it. RoundsRun then reports the whole budget and
	// StalledAt the round that hit the fixed point; Mints and Burns count
	// only the rounds actually executed.
	Stalled   bool `json:"stalled" yaml:"stalled"`
	StalledAt int  `json:"stalled_at,omitempty" yaml:"stalled_at,omitempty"`
}

// Outcome summarises how the run ended.
func (r Result) Outcome() string {
	switch {
	case r.Converged:
		return "converged"
	case r.Stalled:
		return "stalled"
	case r.RoundsRun == 0:
		return "skipped"
	default:
		return "exhausted"
	}
}

// Clone returns a copy that shares no pointers with r.
func (r Result) Clone() Result {
	if r.InitialBreakEven != nil {
		v := *r.InitialBreakEven
		r.InitialBreakEven = &v
	}
	if r.CurrentBreakEven != nil {
		v := *r.CurrentBreakEven
		r.CurrentBreakEven = &v
	}
	return r
}

func floatPtr(v float64) *float64 {
	return &v
}
