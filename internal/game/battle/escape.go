package battle

import "math"

// EscapeConfig tunes the escape roll.
type EscapeConfig struct {
	BaseRate  float64
	Increment float64 // added per failed attempt earlier in the battle
}

// DefaultEscapeConfig returns a 50% base chance growing by 10% per failure.
func DefaultEscapeConfig() EscapeConfig {
	return EscapeConfig{BaseRate: 0.5, Increment: 0.1}
}

// Chance returns the escape probability after failedAttempts failures,
// min(1, BaseRate + Increment × failedAttempts).
//
// Precondition: failedAttempts >= 0.
// Postcondition: Returns a value in [0, 1].
func (c EscapeConfig) Chance(failedAttempts int) float64 {
	if failedAttempts < 0 {
		panic("battle: EscapeConfig.Chance: failedAttempts must be >= 0")
	}
	p := c.BaseRate + c.Increment*float64(failedAttempts)
	return math.Max(0, math.Min(1, p))
}
