package condition

import (
	"fmt"

	"go.uber.org/zap"
)

// Bearer is anything that can carry conditions. *combat.Combatant implements it.
type Bearer interface {
	Effects() *ActiveSet
	IsDefeated() bool
	// ApplyDamage lowers hit points by amount and returns the amount applied.
	ApplyDamage(amount int) int
	// Heal raises hit points by amount and returns the amount applied.
	Heal(amount int) int
}

// Application requests that a condition be inflicted.
type Application struct {
	ConditionID string
	Stacks      int
	Duration    int // rounds; ignored for permanent conditions
}

// ApplyResult reports whether an Application took hold.
type ApplyResult struct {
	Success bool
	Reason  string
}

// TickResult summarises one end-of-round tick on a bearer.
type TickResult struct {
	Expired []string
	Damage  int
	Healed  int
}

// Tracker resolves condition behaviour against a Registry of definitions.
type Tracker struct {
	reg    *Registry
	logger *zap.Logger
}

// NewTracker creates a Tracker.
//
// Precondition: reg must not be nil.
func NewTracker(reg *Registry, logger *zap.Logger) *Tracker {
	if reg == nil {
		panic("condition: NewTracker: registry must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{reg: reg, logger: logger}
}

// CanAct reports whether b may take its turn.
func (t *Tracker) CanAct(b Bearer) bool {
	if b.IsDefeated() {
		return false
	}
	return !PreventsAction(b.Effects())
}

// Tick applies per-round damage and healing, then decrements durations.
// Defeated bearers are not ticked.
//
// Postcondition: stacked conditions multiply their per-tick amounts.
func (t *Tracker) Tick(b Bearer) TickResult {
	var res TickResult
	if b.IsDefeated() {
		return res
	}
	set := b.Effects()
	for _, ac := range set.All() {
		if ac.Def.DamagePerTick > 0 && !b.IsDefeated() {
			res.Damage += b.ApplyDamage(ac.Def.DamagePerTick * ac.Stacks)
		}
		if ac.Def.HealPerTick > 0 && !b.IsDefeated() {
			res.Healed += b.Heal(ac.Def.HealPerTick * ac.Stacks)
		}
	}
	res.Expired = set.Tick()
	if len(res.Expired) > 0 {
		t.logger.Debug("conditions expired", zap.Strings("conditions", res.Expired))
	}
	return res
}

// Apply inflicts app on b.
//
// Postcondition: Success is false with a Reason when the condition is unknown
// or b is already defeated.
func (t *Tracker) Apply(b Bearer, app Application) ApplyResult {
	if b.IsDefeated() {
		return ApplyResult{Reason: "target is defeated"}
	}
	def, ok := t.reg.Get(app.ConditionID)
	if !ok {
		return ApplyResult{Reason: fmt.Sprintf("unknown condition %q", app.ConditionID)}
	}
	stacks := app.Stacks
	if stacks < 1 {
		stacks = 1
	}
	duration := app.Duration
	if duration == 0 {
		duration = 1
	}
	if err := b.Effects().Apply(def, stacks, duration); err != nil {
		return ApplyResult{Reason: err.Error()}
	}
	return ApplyResult{Success: true}
}

// NotifyDamaged removes conditions that end when their bearer takes damage
// and returns their ids.
func (t *Tracker) NotifyDamaged(b Bearer) []string {
	set := b.Effects()
	var removed []string
	for _, ac := range set.All() {
		if ac.Def.WakeOnDamage {
			set.Remove(ac.Def.ID)
			removed = append(removed, ac.Def.ID)
		}
	}
	return removed
}
