package combat

import "github.com/cory-johannsen/turnbattle/internal/game/dice"

// ComputeHitRate returns the probability that attacker lands skill on target.
//
// A guaranteed hit returns exactly 1. Otherwise the rate is
// skill accuracy × (BaseHitRate + (accuracy − evasion) × AccuracyFactor),
// clamped to [MinHitRate, 1].
//
// Precondition: attacker, target and skill must be non-nil.
// Postcondition: Returns a value in [bal.MinHitRate, 1].
func ComputeHitRate(attacker, target *Combatant, skill *Skill, bal Balance) float64 {
	if skill.GuaranteedHit {
		return 1
	}
	acc := attacker.EffectiveStats().Accuracy
	eva := target.EffectiveStats().Evasion
	statRate := bal.BaseHitRate + float64(acc-eva)*bal.AccuracyFactor
	if statRate < 0 {
		statRate = 0
	}
	return clampf(skill.AccuracyMultiplier()*statRate, bal.MinHitRate, 1)
}

// ComputeCriticalRate returns the probability that a landed hit is critical:
// BaseCriticalRate + luck × LuckCriticalFactor + skill bonus + the attacker's
// own critical rate.
//
// Postcondition: Returns a value in [0, 1].
func ComputeCriticalRate(attacker *Combatant, skill *Skill, bal Balance) float64 {
	base := attacker.Base()
	rate := bal.BaseCriticalRate +
		float64(base.Luck)*bal.LuckCriticalFactor +
		skill.CriticalBonus +
		base.CriticalRate
	return clampf(rate, 0, 1)
}

// Roll reports whether a uniform sample in [0, 1) falls under probability p.
//
// Postcondition: p >= 1 always succeeds; p <= 0 always fails.
func Roll(p, sample float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	return sample < p
}

// RollHit draws one sample from src and compares it against hitRate.
func RollHit(hitRate float64, src dice.Source) bool {
	return Roll(hitRate, src.Float64())
}

// RollCritical draws one sample from src and compares it against criticalRate.
func RollCritical(criticalRate float64, src dice.Source) bool {
	return Roll(criticalRate, src.Float64())
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
