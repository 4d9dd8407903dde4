package battle

import (
	"slices"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
)

// StatusOutcome records an attempted status infliction.
type StatusOutcome struct {
	ConditionID string
	Applied     bool
	Reason      string
}

// TargetOutcome records what an action did to one target.
type TargetOutcome struct {
	TargetID   string
	WasHit     bool
	IsCritical bool
	Defended   bool
	Damage     int
	Healed     int
	Defeated   bool
	Status     *StatusOutcome
	Woke       []string // conditions removed because the target was hit
}

// ActionRecord is the structured result of one resolved action.
type ActionRecord struct {
	Turn    int
	ActorID string
	Type    combat.ActionType
	SkillID string
	ItemID  string
	// Defaulted is set when the chosen action was replaced by defend.
	Defaulted bool
	Reason    string
	MPSpent   int
	Outcomes  []TargetOutcome
	// Escape fields are set for escape actions.
	EscapeChance float64
	Escaped      bool
	// Item fields are set for item actions.
	Item       *ItemResult
	ItemFailed bool
}

// TickRecord is the end-of-round status tick for one combatant.
type TickRecord struct {
	CombatantID string
	condition.TickResult
	Defeated bool
}

// State is a read-only snapshot of a battle. Combatants are deep copies; the
// turn order refers to those copies.
type State struct {
	ID            string
	Phase         Phase
	Turn          int
	Party         []*combat.Combatant
	Enemies       []*combat.Combatant
	TurnOrder     []*combat.Combatant
	CurrentActor  int // index into TurnOrder; -1 before start
	History       []ActionRecord
	FailedEscapes int
}

// Roster returns the party followed by the enemies.
func (s State) Roster() []*combat.Combatant {
	return append(slices.Clone(s.Party), s.Enemies...)
}

// Combatant returns the snapshot combatant with id, or nil.
func (s State) Combatant(id string) *combat.Combatant {
	return combat.FindByID(s.Roster(), id)
}

// Actor returns the combatant whose turn it is, or nil.
func (s State) Actor() *combat.Combatant {
	if s.CurrentActor < 0 || s.CurrentActor >= len(s.TurnOrder) {
		return nil
	}
	return s.TurnOrder[s.CurrentActor]
}

// LastAction returns the most recent record, or false when none exists.
func (s State) LastAction() (ActionRecord, bool) {
	if len(s.History) == 0 {
		return ActionRecord{}, false
	}
	return s.History[len(s.History)-1], true
}
