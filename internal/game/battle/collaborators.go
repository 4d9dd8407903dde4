package battle

//go:generate mockgen -destination=mock/mock_battle.go -package=mock github.com/cory-johannsen/turnbattle/internal/game/battle StatusTracker,ItemUser,Policy

import (
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
)

// StatusTracker gates turns and owns status effect bookkeeping.
// *condition.Tracker implements it.
type StatusTracker interface {
	CanAct(b condition.Bearer) bool
	Tick(b condition.Bearer) condition.TickResult
	Apply(b condition.Bearer, app condition.Application) condition.ApplyResult
	NotifyDamaged(b condition.Bearer) []string
}

// ItemEffect is what an item did to one target.
type ItemEffect struct {
	TargetID   string
	HPRestored int
	MPRestored int
	Cured      []string
	Revived    bool
}

// ItemResult is the outcome reported by the item collaborator.
type ItemResult struct {
	Success bool
	Message string
	Effects []ItemEffect
}

// ItemUser applies consumable items. The battle only checks that the actor may
// act and records the result; errors and panics are contained.
type ItemUser interface {
	CanUseItem(itemID string, user, target *combat.Combatant) bool
	UseItem(itemID string, user *combat.Combatant, targets []*combat.Combatant) (ItemResult, error)
}

// Policy chooses enemy actions. The state is a snapshot; the battle re-binds
// the returned action's actor and targets by ID.
type Policy interface {
	ChooseAction(actor *combat.Combatant, state State) (combat.BattleAction, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(actor *combat.Combatant, state State) (combat.BattleAction, error)

// ChooseAction calls f.
func (f PolicyFunc) ChooseAction(actor *combat.Combatant, state State) (combat.BattleAction, error) {
	return f(actor, state)
}
