package battle_test

import (
	"errors"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
)

// constSource always draws v: 0.5 hits, never crits, and leaves variance at exactly 1.
type constSource struct{ v float64 }

func (c constSource) Float64() float64 { return c.v }
func (c constSource) Intn(int) int      { return 0 }

var steady = constSource{v: 0.5}

func member(id string, s combat.Stats) *combat.Combatant {
	return combat.NewCombatant(id, id, combat.SidePlayer, s)
}

// attackFirst attacks the first living party member.
var attackFirst = battle.PolicyFunc(func(actor *combat.Combatant, s battle.State) (combat.BattleAction, error) {
	for _, p := range s.Party {
		if p.IsAlive() {
			return combat.BattleAction{Actor: actor, Type: combat.ActionAttack, Targets: []*combat.Combatant{p}}, nil
		}
	}
	return combat.BattleAction{}, errors.New("no living party member")
})

type stubInventory struct{ items []command.ItemOption }

func (s stubInventory) ItemsFor(*combat.Combatant) []command.ItemOption { return s.items }

func recordsOf(s battle.State, actorID string) []battle.ActionRecord {
	var out []battle.ActionRecord
	for _, r := range s.History {
		if r.ActorID == actorID {
			out = append(out, r)
		}
	}
	return out
}

func attack(b *battle.Battle, targetID string) (battle.State, error) {
	if err := b.SelectCommand(combat.ActionAttack); err != nil {
		return battle.State{}, err
	}
	if err := b.SelectTarget(targetID); err != nil {
		return battle.State{}, err
	}
	return b.ConfirmCommand()
}

func simple(b *battle.Battle, cmd combat.ActionType) (battle.State, error) {
	if err := b.SelectCommand(cmd); err != nil {
		return battle.State{}, err
	}
	return b.ConfirmCommand()
}
