package combat

import (
	"errors"
	"fmt"
	"maps"

	"github.com/cory-johannsen/turnbattle/internal/game/condition"
)

// ErrInsufficientMP is returned when a combatant cannot pay a skill's cost.
var ErrInsufficientMP = errors.New("insufficient MP")

// Combatant represents one participant in a battle, either a party member or an enemy.
//
// Invariant: 0 <= CurrentHP <= MaxHitPoints() and 0 <= CurrentMP <= MaxMagicPoints()
// after every mutation through the methods below.
type Combatant struct {
	ID         string
	Name       string
	Side       Side
	Position   int // index in the combined roster, party first
	TemplateID string
	AIDomain   string
	Stats      StatBlock
	CurrentHP  int
	CurrentMP  int
	Skills     []*Skill
	// Resistances multiply incoming damage of an element; 0 grants immunity.
	Resistances map[Element]float64
	// Defending is set by the defend action and consumed by the next incoming hit.
	Defending bool
	Status    *condition.ActiveSet
}

// NewCombatant creates a combatant at full HP and MP.
//
// Precondition: id must be non-empty; stats must be non-nil.
// Postcondition: CurrentHP == MaxHitPoints(), CurrentMP == MaxMagicPoints().
func NewCombatant(id, name string, side Side, stats StatBlock) *Combatant {
	if id == "" {
		panic("combat: NewCombatant: id must not be empty")
	}
	if stats == nil {
		panic("combat: NewCombatant: stats must not be nil")
	}
	base := stats.Base()
	return &Combatant{
		ID:        id,
		Name:      name,
		Side:      side,
		Stats:     stats,
		CurrentHP: base.MaxHP,
		CurrentMP: base.MaxMP,
		Status:    condition.NewActiveSet(),
	}
}

// Base returns the combatant's unmodified base stats.
func (c *Combatant) Base() Stats {
	if c.Stats == nil {
		return Stats{}
	}
	return c.Stats.Base()
}

// MaxHitPoints returns the base MaxHP.
func (c *Combatant) MaxHitPoints() int { return c.Base().MaxHP }

// MaxMagicPoints returns the base MaxMP.
func (c *Combatant) MaxMagicPoints() int { return c.Base().MaxMP }

// IsDefeated reports whether the combatant is at zero HP.
//
// Postcondition: Returns true iff CurrentHP == 0.
func (c *Combatant) IsDefeated() bool { return c.CurrentHP <= 0 }

// IsAlive is the negation of IsDefeated.
func (c *Combatant) IsAlive() bool { return !c.IsDefeated() }

// Effects returns the combatant's active status effects, creating the set on first use.
func (c *Combatant) Effects() *condition.ActiveSet {
	if c.Status == nil {
		c.Status = condition.NewActiveSet()
	}
	return c.Status
}

// Clamp forces CurrentHP and CurrentMP into [0, max].
func (c *Combatant) Clamp() {
	c.CurrentHP = clamp(c.CurrentHP, 0, c.MaxHitPoints())
	c.CurrentMP = clamp(c.CurrentMP, 0, c.MaxMagicPoints())
}

// SetHP sets CurrentHP, clamped to [0, MaxHP].
func (c *Combatant) SetHP(hp int) {
	c.CurrentHP = clamp(hp, 0, c.MaxHitPoints())
}

// SetMP sets CurrentMP, clamped to [0, MaxMP].
func (c *Combatant) SetMP(mp int) {
	c.CurrentMP = clamp(mp, 0, c.MaxMagicPoints())
}

// ApplyDamage reduces CurrentHP by amount, flooring at zero, and returns the HP actually lost.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: ApplyDamage: negative amount %d", amount))
	}
	before := c.CurrentHP
	c.SetHP(c.CurrentHP - amount)
	return before - c.CurrentHP
}

// Heal raises CurrentHP by amount, capped at MaxHP, and returns the HP actually restored.
// Defeated combatants are not healed; use Revive.
//
// Precondition: amount >= 0.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: Heal: negative amount %d", amount))
	}
	if c.IsDefeated() {
		return 0
	}
	before := c.CurrentHP
	c.SetHP(c.CurrentHP + amount)
	return c.CurrentHP - before
}

// Revive restores a defeated combatant to hp (at least 1). It is a no-op on a living combatant.
//
// Postcondition: Returns the HP restored.
func (c *Combatant) Revive(hp int) int {
	if !c.IsDefeated() {
		return 0
	}
	if hp < 1 {
		hp = 1
	}
	c.SetHP(hp)
	return c.CurrentHP
}

// SpendMP deducts cost from CurrentMP.
//
// Postcondition: Returns ErrInsufficientMP and leaves CurrentMP unchanged if cost > CurrentMP.
func (c *Combatant) SpendMP(cost int) error {
	if cost < 0 {
		panic(fmt.Sprintf("combat: SpendMP: negative cost %d", cost))
	}
	if cost > c.CurrentMP {
		return fmt.Errorf("%s needs %d MP, has %d: %w", c.ID, cost, c.CurrentMP, ErrInsufficientMP)
	}
	c.CurrentMP -= cost
	return nil
}

// RestoreMP raises CurrentMP by amount, capped at MaxMP, and returns the MP actually restored.
func (c *Combatant) RestoreMP(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: RestoreMP: negative amount %d", amount))
	}
	before := c.CurrentMP
	c.SetMP(c.CurrentMP + amount)
	return c.CurrentMP - before
}

// CanAfford reports whether the combatant has MP for s.
func (c *Combatant) CanAfford(s *Skill) bool {
	return s != nil && c.CurrentMP >= s.MPCost
}

// AffordableSkills returns the known skills the combatant can currently pay for, in learned order.
func (c *Combatant) AffordableSkills() []*Skill {
	var out []*Skill
	for _, s := range c.Skills {
		if c.CanAfford(s) {
			out = append(out, s)
		}
	}
	return out
}

// Skill returns the known skill with id, or nil.
func (c *Combatant) Skill(id string) *Skill {
	for _, s := range c.Skills {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ElementRate returns the incoming damage multiplier for e (1 when unspecified).
func (c *Combatant) ElementRate(e Element) float64 {
	if e == ElementNone {
		return 1
	}
	if r, ok := c.Resistances[e]; ok {
		return r
	}
	return 1
}

// EffectiveStats returns the base stats adjusted by active condition modifiers.
// MaxHP, MaxMP, Luck and CriticalRate are never modified by conditions.
func (c *Combatant) EffectiveStats() Stats {
	s := c.Base()
	if c.Status == nil || c.Status.Len() == 0 {
		return s
	}
	m := condition.Modifiers(c.Status)
	s.Attack = condition.Scale(s.Attack, m.Attack)
	s.Defense = condition.Scale(s.Defense, m.Defense)
	s.Magic = condition.Scale(s.Magic, m.Magic)
	s.MagicDefense = condition.Scale(s.MagicDefense, m.MagicDefense)
	s.Speed = condition.Scale(s.Speed, m.Speed)
	s.Accuracy = condition.Scale(s.Accuracy, m.Accuracy)
	s.Evasion = condition.Scale(s.Evasion, m.Evasion)
	return s
}

// Clone returns a deep copy suitable for read-only snapshots.
// Stats and Skills are shared because they are immutable during a battle.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Skills = append([]*Skill(nil), c.Skills...)
	cp.Resistances = maps.Clone(c.Resistances)
	cp.Status = c.Status.Clone()
	return &cp
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
