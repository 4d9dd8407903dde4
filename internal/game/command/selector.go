package command

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// ItemOption is one usable item offered to the acting combatant.
type ItemOption struct {
	ID       string
	Name     string
	Quantity int
	Target   combat.TargetType
	// Revive items may only target defeated allies.
	Revive bool
}

// Inventory supplies the items an actor may use this turn.
type Inventory interface {
	ItemsFor(actor *combat.Combatant) []ItemOption
}

// Selection is a read-only view of the in-progress choices.
type Selection struct {
	Stage   Stage
	Command combat.ActionType
	Skill   *combat.Skill
	Item    *ItemOption
	Targets []*combat.Combatant
}

// Selector drives one actor's command choice for one turn. Create a fresh
// Selector per turn, or call Start again to reuse one.
//
// Calling any method other than Started before Start panics.
// It is not safe for concurrent use.
type Selector struct {
	inv Inventory

	started bool
	actor   *combat.Combatant
	roster  []*combat.Combatant

	stage   Stage
	command combat.ActionType
	skill   *combat.Skill
	item    *ItemOption
	targets []*combat.Combatant
}

// NewSelector creates a Selector. inv may be nil, in which case the item
// command is never offered.
func NewSelector(inv Inventory) *Selector {
	return &Selector{inv: inv}
}

// Start begins selection for actor against the given rosters.
//
// Precondition: actor must be non-nil and not defeated.
// Postcondition: Stage() == StageSelectingAction with no selections.
func (s *Selector) Start(actor *combat.Combatant, party, enemies []*combat.Combatant) {
	if actor == nil {
		panic("command: Start: actor must not be nil")
	}
	if actor.IsDefeated() {
		panic(fmt.Sprintf("command: Start: actor %q is defeated", actor.ID))
	}
	*s = Selector{
		inv:     s.inv,
		started: true,
		actor:   actor,
		roster:  append(slices.Clone(party), enemies...),
		stage:   StageSelectingAction,
	}
}

// Started reports whether Start has been called.
func (s *Selector) Started() bool { return s.started }

func (s *Selector) mustStart(op string) {
	if !s.started {
		panic("command: " + op + " called before Start")
	}
}

// Actor returns the acting combatant.
func (s *Selector) Actor() *combat.Combatant {
	s.mustStart("Actor")
	return s.actor
}

// Stage returns the current stage.
func (s *Selector) Stage() Stage {
	s.mustStart("Stage")
	return s.stage
}

// Selection returns a copy of the in-progress choices.
func (s *Selector) Selection() Selection {
	s.mustStart("Selection")
	sel := Selection{
		Stage:   s.stage,
		Command: s.command,
		Skill:   s.skill,
		Targets: slices.Clone(s.targets),
	}
	if s.item != nil {
		it := *s.item
		sel.Item = &it
	}
	return sel
}

// AvailableCommands returns the commands the actor may choose right now.
// Attack, defend and escape are always offered; skill needs an affordable
// skill; item needs an item with at least one valid target.
func (s *Selector) AvailableCommands() []combat.ActionType {
	s.mustStart("AvailableCommands")
	out := []combat.ActionType{combat.ActionAttack}
	if len(s.actor.AffordableSkills()) > 0 {
		out = append(out, combat.ActionSkill)
	}
	if len(s.usableItems()) > 0 {
		out = append(out, combat.ActionItem)
	}
	return append(out, combat.ActionDefend, combat.ActionEscape)
}

// SelectCommand chooses the action type.
//
// Postcondition: attack moves to StageSelectingTarget, skill to StageSelectingSkill,
// item to StageSelectingItem, defend and escape to StageConfirmed.
func (s *Selector) SelectCommand(cmd combat.ActionType) error {
	s.mustStart("SelectCommand")
	if s.stage != StageSelectingAction {
		return fmt.Errorf("select command in %s: %w", s.stage, ErrWrongStage)
	}
	if !slices.Contains(s.AvailableCommands(), cmd) {
		return fmt.Errorf("%s: %w", cmd, ErrCommandUnavailable)
	}
	switch cmd {
	case combat.ActionAttack:
		if len(s.candidates(combat.TargetSingleEnemy, false)) == 0 {
			return fmt.Errorf("attack: %w", ErrNoTargets)
		}
		s.command = cmd
		s.enterTargeting()
	case combat.ActionSkill:
		s.command = cmd
		s.stage = StageSelectingSkill
	case combat.ActionItem:
		s.command = cmd
		s.stage = StageSelectingItem
	case combat.ActionDefend, combat.ActionEscape:
		s.command = cmd
		s.stage = StageConfirmed
	}
	return nil
}

// AvailableSkills returns the actor's affordable skills that have at least one target.
func (s *Selector) AvailableSkills() []*combat.Skill {
	s.mustStart("AvailableSkills")
	var out []*combat.Skill
	for _, sk := range s.actor.AffordableSkills() {
		if len(s.candidates(sk.Target, false)) > 0 {
			out = append(out, sk)
		}
	}
	return out
}

// SelectSkill chooses a known, affordable skill and moves to targeting.
func (s *Selector) SelectSkill(id string) error {
	s.mustStart("SelectSkill")
	if s.stage != StageSelectingSkill {
		return fmt.Errorf("select skill in %s: %w", s.stage, ErrWrongStage)
	}
	sk := s.actor.Skill(id)
	if sk == nil {
		return fmt.Errorf("%q: %w", id, ErrUnknownSkill)
	}
	if !s.actor.CanAfford(sk) {
		return fmt.Errorf("%q costs %d MP: %w", id, sk.MPCost, ErrUnaffordable)
	}
	if len(s.candidates(sk.Target, false)) == 0 {
		return fmt.Errorf("skill %q: %w", id, ErrNoTargets)
	}
	s.skill = sk
	s.enterTargeting()
	return nil
}

// AvailableItems returns the items the actor may use that have at least one target.
func (s *Selector) AvailableItems() []ItemOption {
	s.mustStart("AvailableItems")
	return s.usableItems()
}

// SelectItem chooses an available item and moves to targeting.
func (s *Selector) SelectItem(id string) error {
	s.mustStart("SelectItem")
	if s.stage != StageSelectingItem {
		return fmt.Errorf("select item in %s: %w", s.stage, ErrWrongStage)
	}
	for _, it := range s.usableItems() {
		if it.ID == id {
			s.item = &it
			s.enterTargeting()
			return nil
		}
	}
	return fmt.Errorf("%q: %w", id, ErrUnknownItem)
}

// AvailableTargets returns the candidates for the current selection, or nil
// outside StageSelectingTarget.
func (s *Selector) AvailableTargets() []*combat.Combatant {
	s.mustStart("AvailableTargets")
	if s.stage != StageSelectingTarget {
		return nil
	}
	tt, revive := s.targetType()
	return s.candidates(tt, revive)
}

// SelectTarget chooses the target with id and confirms the selection. For
// group target types any member of the group selects the whole group.
func (s *Selector) SelectTarget(id string) error {
	s.mustStart("SelectTarget")
	if s.stage != StageSelectingTarget {
		return fmt.Errorf("select target in %s: %w", s.stage, ErrWrongStage)
	}
	tt, revive := s.targetType()
	cands := s.candidates(tt, revive)
	chosen := combat.FindByID(cands, id)
	if chosen == nil {
		return fmt.Errorf("%q: %w", id, ErrInvalidTarget)
	}
	if tt.IsGroup() {
		s.targets = cands
	} else {
		s.targets = []*combat.Combatant{chosen}
	}
	s.stage = StageConfirmed
	return nil
}

// AcceptTargets confirms the pre-selected targets of a group or self selection.
//
// Postcondition: Returns ErrIncomplete for single-target selections.
func (s *Selector) AcceptTargets() error {
	s.mustStart("AcceptTargets")
	if s.stage != StageSelectingTarget {
		return fmt.Errorf("accept targets in %s: %w", s.stage, ErrWrongStage)
	}
	if len(s.targets) == 0 {
		return fmt.Errorf("a single target must be chosen: %w", ErrIncomplete)
	}
	s.stage = StageConfirmed
	return nil
}

// Cancel undoes the most recent choice.
//
// From targeting or confirmation it returns to wherever the selection came
// from: skill selection if a skill was chosen, item selection if an item was
// chosen, otherwise action selection with the command cleared.
func (s *Selector) Cancel() error {
	s.mustStart("Cancel")
	switch s.stage {
	case StageSelectingAction:
		return ErrNothingToCancel
	case StageSelectingSkill, StageSelectingItem:
		s.toAction()
	case StageSelectingTarget, StageConfirmed:
		s.targets = nil
		switch {
		case s.skill != nil:
			s.skill = nil
			s.stage = StageSelectingSkill
		case s.item != nil:
			s.item = nil
			s.stage = StageSelectingItem
		default:
			s.toAction()
		}
	}
	return nil
}

// Confirm produces the finished BattleAction.
//
// Postcondition: Returns ErrIncomplete unless Stage() == StageConfirmed.
func (s *Selector) Confirm() (combat.BattleAction, error) {
	s.mustStart("Confirm")
	if s.stage != StageConfirmed {
		return combat.BattleAction{}, fmt.Errorf("confirm in %s: %w", s.stage, ErrIncomplete)
	}
	a := combat.BattleAction{
		Actor:   s.actor,
		Type:    s.command,
		Skill:   s.skill,
		Targets: slices.Clone(s.targets),
	}
	if s.item != nil {
		a.ItemID = s.item.ID
	}
	if err := a.Validate(); err != nil {
		return combat.BattleAction{}, fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	return a, nil
}

func (s *Selector) toAction() {
	s.command = combat.ActionUnknown
	s.skill = nil
	s.item = nil
	s.targets = nil
	s.stage = StageSelectingAction
}

// enterTargeting moves to StageSelectingTarget, pre-selecting the candidates
// of group and self target types.
func (s *Selector) enterTargeting() {
	s.stage = StageSelectingTarget
	s.targets = nil
	tt, revive := s.targetType()
	if tt.IsGroup() || tt == combat.TargetSelf {
		s.targets = s.candidates(tt, revive)
	}
}

func (s *Selector) targetType() (combat.TargetType, bool) {
	switch {
	case s.skill != nil:
		return s.skill.Target, false
	case s.item != nil:
		return s.item.Target, s.item.Revive
	default:
		return combat.TargetSingleEnemy, false
	}
}

func (s *Selector) candidates(tt combat.TargetType, revive bool) []*combat.Combatant {
	if !revive {
		return combat.Candidates(s.actor, tt, s.roster)
	}
	var out []*combat.Combatant
	for _, c := range s.roster {
		if c.Side == s.actor.Side && c.IsDefeated() {
			out = append(out, c)
		}
	}
	if tt == combat.TargetSingleAlly || tt == combat.TargetAllAllies {
		return out
	}
	return nil
}

func (s *Selector) usableItems() []ItemOption {
	if s.inv == nil {
		return nil
	}
	var out []ItemOption
	for _, it := range s.inv.ItemsFor(s.actor) {
		if it.Quantity > 0 && len(s.candidates(it.Target, it.Revive)) > 0 {
			out = append(out, it)
		}
	}
	return out
}
