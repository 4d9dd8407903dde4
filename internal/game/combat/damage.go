package combat

import (
	"math"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// DamageResult is the structured outcome of one attack or damaging skill
// against one target.
type DamageResult struct {
	TargetID     string
	WasHit       bool
	IsCritical   bool
	Defended     bool // the target's defend stance reduced this hit
	FinalDamage  int
	HitRate      float64
	CriticalRate float64
	ElementRate  float64
}

// HealResult is the outcome of a healing skill against one target.
type HealResult struct {
	TargetID string
	Amount   int // HP that will be restored, already clamped to missing HP
}

// expressionRoller is satisfied by *dice.Roller, which logs each roll.
type expressionRoller interface {
	RollExpr(expr string) (dice.RollResult, error)
}

// ComputeDamage resolves skill from attacker against target without mutating either.
//
// Draw order from src is fixed: hit sample, critical sample, any dice for
// "other" skills, then the variance sample. A miss draws only the hit sample.
//
// Precondition: attacker, target, skill and src must be non-nil.
// Postcondition: FinalDamage >= 0; a miss yields FinalDamage == 0 and IsCritical == false;
// a hit that is not fully resisted yields FinalDamage >= bal.MinimumDamage.
func ComputeDamage(attacker, target *Combatant, skill *Skill, bal Balance, src dice.Source) DamageResult {
	res := DamageResult{TargetID: target.ID}
	res.HitRate = ComputeHitRate(attacker, target, skill, bal)
	if !RollHit(res.HitRate, src) {
		return res
	}
	res.WasHit = true

	res.CriticalRate = ComputeCriticalRate(attacker, skill, bal)
	res.IsCritical = RollCritical(res.CriticalRate, src)

	dmg := BaseDamage(attacker, target, skill, bal, src)

	res.ElementRate = target.ElementRate(skill.Element)
	if res.ElementRate < 0 {
		res.ElementRate = 0
	}
	dmg *= res.ElementRate

	dmg *= varianceFactor(bal.Variance, src)

	if res.IsCritical {
		dmg *= bal.CriticalMultiplier
	}
	if target.Defending {
		dmg *= 1 - bal.DefendReduction
		res.Defended = true
	}

	if res.ElementRate == 0 {
		return res
	}
	res.FinalDamage = int(math.Round(dmg))
	if res.FinalDamage < bal.MinimumDamage {
		res.FinalDamage = bal.MinimumDamage
	}
	return res
}

// BaseDamage returns the pre-modifier damage of skill.
//
// Physical: Attack × power − Defense × DefenseFactor.
// Magical: Magic × power − MagicDefense × DefenseFactor.
// Other: the skill's dice total (or its power when it has none), ignoring stats.
//
// Postcondition: Returns >= 0.
func BaseDamage(attacker, target *Combatant, skill *Skill, bal Balance, src dice.Source) float64 {
	var raw float64
	switch skill.DamageType {
	case DamagePhysical:
		a, d := attacker.EffectiveStats(), target.EffectiveStats()
		raw = float64(a.Attack)*skill.Power - float64(d.Defense)*bal.DefenseFactor
	case DamageMagical:
		a, d := attacker.EffectiveStats(), target.EffectiveStats()
		raw = float64(a.Magic)*skill.Power - float64(d.MagicDefense)*bal.DefenseFactor
	default:
		raw = fixedAmount(skill, src)
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// ComputeHealing resolves a healing skill. Heals always land and never crit.
//
// Draw order: any dice for the skill, then the variance sample.
//
// Postcondition: 0 <= Amount <= target's missing HP; defeated targets receive 0.
func ComputeHealing(caster, target *Combatant, skill *Skill, bal Balance, src dice.Source) HealResult {
	var raw float64
	if skill.DamageType == DamageOther {
		raw = fixedAmount(skill, src)
	} else {
		raw = float64(caster.EffectiveStats().Magic) * skill.Power
	}
	raw *= varianceFactor(bal.Variance, src)

	res := HealResult{TargetID: target.ID}
	if target.IsDefeated() {
		return res
	}
	amount := int(math.Round(raw))
	missing := target.MaxHitPoints() - target.CurrentHP
	res.Amount = clamp(amount, 0, missing)
	return res
}

func fixedAmount(skill *Skill, src dice.Source) float64 {
	if skill.Dice == "" {
		return skill.Power
	}
	var (
		r   dice.RollResult
		err error
	)
	if roller, ok := src.(expressionRoller); ok {
		r, err = roller.RollExpr(skill.Dice)
	} else {
		r, err = dice.RollExpr(skill.Dice, src)
	}
	if err != nil {
		return skill.Power
	}
	return float64(r.Total())
}

// varianceFactor draws one sample and maps it to [1-amplitude, 1+amplitude).
func varianceFactor(amplitude float64, src dice.Source) float64 {
	sample := src.Float64()
	return 1 + (sample*2-1)*amplitude
}
