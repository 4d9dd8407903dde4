package battle

import (
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
)

// Selector returns the command selector for the waiting player, or nil
// outside PhasePlayerTurn. Use it for the read-only option queries.
func (b *Battle) Selector() *command.Selector {
	if b.phase != PhasePlayerTurn {
		return nil
	}
	return b.selector
}

// activeSelector guards every player command. A command.Selector used before
// Start panics; the battle never exposes it in that state and reports
// ErrNotAwaitingPlayer instead.
func (b *Battle) activeSelector() (*command.Selector, error) {
	if b.phase != PhasePlayerTurn {
		return nil, fmt.Errorf("%s: %w", b.phase, ErrNotAwaitingPlayer)
	}
	return b.selector, nil
}

// SelectCommand forwards to the current player's selector.
//
// Postcondition: outside PhasePlayerTurn, returns an error wrapping
// ErrNotAwaitingPlayer rather than panicking like an unstarted selector.
// The other command methods share this guard.
func (b *Battle) SelectCommand(cmd combat.ActionType) error {
	sel, err := b.activeSelector()
	if err != nil {
		return err
	}
	return sel.SelectCommand(cmd)
}

// SelectSkill forwards to the current player's selector.
func (b *Battle) SelectSkill(id string) error {
	sel, err := b.activeSelector()
	if err != nil {
		return err
	}
	return sel.SelectSkill(id)
}

// SelectItem forwards to the current player's selector.
func (b *Battle) SelectItem(id string) error {
	sel, err := b.activeSelector()
	if err != nil {
		return err
	}
	return sel.SelectItem(id)
}

// SelectTarget forwards to the current player's selector.
func (b *Battle) SelectTarget(id string) error {
	sel, err := b.activeSelector()
	if err != nil {
		return err
	}
	return sel.SelectTarget(id)
}

// AcceptTargets forwards to the current player's selector.
func (b *Battle) AcceptTargets() error {
	sel, err := b.activeSelector()
	if err != nil {
		return err
	}
	return sel.AcceptTargets()
}

// CancelCommand forwards to the current player's selector.
func (b *Battle) CancelCommand() error {
	sel, err := b.activeSelector()
	if err != nil {
		return err
	}
	return sel.Cancel()
}

// ConfirmCommand finalises the selector's action, resolves it, and runs until
// the next player turn or the end of the battle.
//
// Postcondition: outside PhasePlayerTurn, returns an error wrapping
// ErrNotAwaitingPlayer and leaves the battle unchanged.
func (b *Battle) ConfirmCommand() (State, error) {
	sel, err := b.activeSelector()
	if err != nil {
		return State{}, err
	}
	a, err := sel.Confirm()
	if err != nil {
		return State{}, err
	}
	return b.SubmitAction(a)
}

// SubmitAction resolves a player action built outside the selector. The
// action's actor and targets are matched to live combatants by ID.
//
// Postcondition: on error the battle is unchanged and still waiting for the
// same player.
func (b *Battle) SubmitAction(a combat.BattleAction) (State, error) {
	if _, err := b.activeSelector(); err != nil {
		return State{}, err
	}
	bound, err := b.bind(a)
	if err != nil {
		return State{}, err
	}
	b.resolve(bound, "")
	if !b.phase.IsTerminal() {
		b.index++
		b.run()
	}
	return b.State(), nil
}
