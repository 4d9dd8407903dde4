// Package command implements the per-turn command selection flow a player
// combatant walks through: action, then skill or item, then targets, then
// confirmation.
package command

import "errors"

// Stage is the selector's current step.
type Stage int

const (
	StageSelectingAction Stage = iota
	StageSelectingSkill
	StageSelectingItem
	StageSelectingTarget
	StageConfirmed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageSelectingAction:
		return "selecting-action"
	case StageSelectingSkill:
		return "selecting-skill"
	case StageSelectingItem:
		return "selecting-item"
	case StageSelectingTarget:
		return "selecting-target"
	case StageConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Domain errors returned by Selector transitions. None of them changes the
// selector's state.
var (
	ErrWrongStage         = errors.New("transition not valid in current stage")
	ErrCommandUnavailable = errors.New("command not available")
	ErrUnknownSkill       = errors.New("actor does not know skill")
	ErrUnaffordable       = errors.New("actor cannot afford skill")
	ErrUnknownItem        = errors.New("item not available")
	ErrNoTargets          = errors.New("no valid targets")
	ErrInvalidTarget      = errors.New("target not available")
	ErrNothingToCancel    = errors.New("nothing to cancel")
	ErrIncomplete         = errors.New("selection incomplete")
)
