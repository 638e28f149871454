// internal/curve/reward.go
package curve

import "math"

// Reward evaluates the instantaneous token reward at performance p for the
// given outstanding supply:
//
//	y = a·(1 − (S−T)/T) / ((P+b)^k − p^k) − a·(1 − (S−T)/T) / (P+b)^k
//
// A zero denominator contributes a zero term instead of a division fault.
// The caller guarantees T != 0 (see Params.Validate).
func Reward(p, supply float64, params Params) float64 {
	head := math.Pow(params.P+params.B, params.K)
	return Numerator(supply, params) * unitReward(p, head, params.K)
}

// Numerator is the supply-dependent scale a·(1 − (S−T)/T).
func Numerator(supply float64, params Params) float64 {
	return params.A * (1 - (supply-params.T)/params.T)
}

// unitReward is the reward for a unit numerator. head is (P+b)^k.
// Overflowing powers degrade to zero like the zero denominators do.
func unitReward(p, head, k float64) float64 {
	u := safeInv(head-math.Pow(p, k)) - safeInv(head)
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return 0
	}
	return u
}
