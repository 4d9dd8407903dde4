// Package combat implements the combatant model and the pure arithmetic of a
// turn-based battle: hit and critical resolution, damage and healing, target
// candidates and turn order.
package combat

// Side identifies which roster a combatant belongs to.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// String returns "player" or "enemy".
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// DamageType selects which stats a skill draws on.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageOther    DamageType = "other"
)

// TargetType restricts who a skill or item may be aimed at.
type TargetType string

const (
	TargetSingleEnemy TargetType = "single_enemy"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllAllies   TargetType = "all_allies"
	TargetSelf        TargetType = "self"
)

// IsGroup reports whether the target type hits every candidate at once.
func (t TargetType) IsGroup() bool {
	return t == TargetAllEnemies || t == TargetAllAllies
}

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	switch t {
	case TargetSingleEnemy, TargetAllEnemies, TargetSingleAlly, TargetAllAllies, TargetSelf:
		return true
	}
	return false
}

// Effect is what a skill does to its targets.
type Effect string

const (
	EffectDamage Effect = "damage"
	EffectHeal   Effect = "heal"
)

// Element is an elemental tag. The empty Element is neutral.
type Element string

const ElementNone Element = ""
