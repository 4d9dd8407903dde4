package combat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBalance is returned by Balance.Validate.
var ErrInvalidBalance = errors.New("invalid balance")

// Balance holds the tunable constants of the combat formulas.
type Balance struct {
	MinHitRate         float64
	BaseHitRate        float64
	AccuracyFactor     float64 // hit rate gained per point of accuracy over evasion
	BaseCriticalRate   float64
	LuckCriticalFactor float64 // critical rate gained per point of luck
	CriticalMultiplier float64
	Variance           float64 // symmetric amplitude, 0.1 = ±10%
	DefenseFactor      float64 // share of the defensive stat subtracted from raw power
	MinimumDamage      int     // floor for any hit that is not fully resisted
	DefendReduction    float64 // share of incoming damage removed while defending
}

// DefaultBalance returns the stock tuning.
func DefaultBalance() Balance {
	return Balance{
		MinHitRate:         0.05,
		BaseHitRate:        0.95,
		AccuracyFactor:     0.01,
		BaseCriticalRate:   0.03,
		LuckCriticalFactor: 0.001,
		CriticalMultiplier: 1.5,
		Variance:           0.1,
		DefenseFactor:      0.5,
		MinimumDamage:      1,
		DefendReduction:    0.5,
	}
}

// Validate reports every out-of-range constant.
func (b Balance) Validate() error {
	var errs []string
	if b.MinHitRate < 0 || b.MinHitRate > 1 {
		errs = append(errs, fmt.Sprintf("min_hit_rate %v must be in [0, 1]", b.MinHitRate))
	}
	if b.BaseHitRate < 0 {
		errs = append(errs, fmt.Sprintf("base_hit_rate %v must be >= 0", b.BaseHitRate))
	}
	if b.AccuracyFactor < 0 || b.LuckCriticalFactor < 0 {
		errs = append(errs, "accuracy_factor and luck_critical_factor must be >= 0")
	}
	if b.BaseCriticalRate < 0 || b.BaseCriticalRate > 1 {
		errs = append(errs, fmt.Sprintf("base_critical_rate %v must be in [0, 1]", b.BaseCriticalRate))
	}
	if b.CriticalMultiplier <= 1 {
		errs = append(errs, fmt.Sprintf("critical_multiplier %v must be > 1", b.CriticalMultiplier))
	}
	if b.Variance < 0 || b.Variance >= 1 {
		errs = append(errs, fmt.Sprintf("variance %v must be in [0, 1)", b.Variance))
	}
	if b.DefenseFactor < 0 {
		errs = append(errs, fmt.Sprintf("defense_factor %v must be >= 0", b.DefenseFactor))
	}
	if b.MinimumDamage < 0 {
		errs = append(errs, fmt.Sprintf("minimum_damage %d must be >= 0", b.MinimumDamage))
	}
	if b.DefendReduction < 0 || b.DefendReduction > 1 {
		errs = append(errs, fmt.Sprintf("defend_reduction %v must be in [0, 1]", b.DefendReduction))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBalance, strings.Join(errs, "; "))
	}
	return nil
}
