package combat

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned by BattleAction.Validate.
var ErrInvalidAction = errors.New("invalid action")

// ActionType identifies what a combatant does on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack
	ActionSkill
	ActionItem
	ActionDefend
	ActionEscape
)

// String returns the lower-case command name.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionSkill:
		return "skill"
	case ActionItem:
		return "item"
	case ActionDefend:
		return "defend"
	case ActionEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// ParseActionType maps a command name back to its ActionType.
func ParseActionType(s string) (ActionType, error) {
	for _, a := range []ActionType{ActionAttack, ActionSkill, ActionItem, ActionDefend, ActionEscape} {
		if a.String() == s {
			return a, nil
		}
	}
	return ActionUnknown, fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, s)
}

// BattleAction is a fully resolved intent, consumed once by the battle.
type BattleAction struct {
	Actor   *Combatant
	Type    ActionType
	Skill   *Skill // set for ActionSkill; nil means BasicAttack for ActionAttack
	ItemID  string
	Targets []*Combatant
}

// DefendAction returns the safe default action for actor.
func DefendAction(actor *Combatant) BattleAction {
	return BattleAction{Actor: actor, Type: ActionDefend}
}

// EffectiveSkill returns the skill the action resolves with: BasicAttack for
// attacks, the chosen skill for skills, nil otherwise.
func (a BattleAction) EffectiveSkill() *Skill {
	switch a.Type {
	case ActionAttack:
		if a.Skill != nil {
			return a.Skill
		}
		return BasicAttack
	case ActionSkill:
		return a.Skill
	default:
		return nil
	}
}

// TargetIDs returns the IDs of the action's targets in order.
func (a BattleAction) TargetIDs() []string {
	ids := make([]string, len(a.Targets))
	for i, t := range a.Targets {
		ids[i] = t.ID
	}
	return ids
}

// Validate checks the action is well formed. It does not check legality
// against a roster; the battle does that when binding the action.
func (a BattleAction) Validate() error {
	if a.Actor == nil {
		return fmt.Errorf("%w: no actor", ErrInvalidAction)
	}
	switch a.Type {
	case ActionAttack:
		if len(a.Targets) == 0 {
			return fmt.Errorf("%w: attack needs a target", ErrInvalidAction)
		}
	case ActionSkill:
		if a.Skill == nil {
			return fmt.Errorf("%w: skill action needs a skill", ErrInvalidAction)
		}
		if len(a.Targets) == 0 {
			return fmt.Errorf("%w: skill %q needs a target", ErrInvalidAction, a.Skill.ID)
		}
	case ActionItem:
		if a.ItemID == "" {
			return fmt.Errorf("%w: item action needs an item", ErrInvalidAction)
		}
		if len(a.Targets) == 0 {
			return fmt.Errorf("%w: item %q needs a target", ErrInvalidAction, a.ItemID)
		}
	case ActionDefend, ActionEscape:
	default:
		return fmt.Errorf("%w: unknown action type %d", ErrInvalidAction, int(a.Type))
	}
	for _, t := range a.Targets {
		if t == nil {
			return fmt.Errorf("%w: nil target", ErrInvalidAction)
		}
	}
	return nil
}
