// Package reward computes what a won battle pays out and splits it across
// the surviving party.
package reward

import (
	"sort"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

// Rewards is the combined payout of one battle.
type Rewards struct {
	Experience int
	Gold       int
	Items      []npc.LootItem
}

// Share is one party member's cut of the experience.
type Share struct {
	CombatantID string
	Experience  int
}

// Compute totals the experience, gold and loot of every defeated enemy.
// Enemies without a known template pay nothing.
//
// Draw order: each enemy's loot in roster order.
func Compute(enemies []*combat.Combatant, templates *npc.Registry, src dice.Source) Rewards {
	var r Rewards
	for _, e := range enemies {
		if !e.IsDefeated() {
			continue
		}
		t, ok := templates.Get(e.TemplateID)
		if !ok {
			continue
		}
		r.Experience += t.Experience
		r.Gold += t.Gold
		if t.Loot != nil {
			loot := npc.GenerateLoot(*t.Loot, src)
			r.Gold += loot.Currency
			r.Items = append(r.Items, loot.Items...)
		}
	}
	return r
}

// Distribute splits r.Experience evenly among the living members of party.
// The remainder goes one point each to the earliest positions.
//
// Postcondition: the shares sum to r.Experience, or nil when nobody survived.
func Distribute(party []*combat.Combatant, r Rewards) []Share {
	var alive []*combat.Combatant
	for _, c := range party {
		if c.IsAlive() {
			alive = append(alive, c)
		}
	}
	if len(alive) == 0 {
		return nil
	}
	sort.SliceStable(alive, func(i, j int) bool { return alive[i].Position < alive[j].Position })

	each, rem := r.Experience/len(alive), r.Experience%len(alive)
	shares := make([]Share, len(alive))
	for i, c := range alive {
		shares[i] = Share{CombatantID: c.ID, Experience: each}
		if i < rem {
			shares[i].Experience++
		}
	}
	return shares
}

// Stash adds r's items to pouch and returns the IDs of items the pouch does
// not know.
func Stash(pouch *inventory.Pouch, r Rewards) (unknown []string) {
	for _, it := range r.Items {
		if err := pouch.Add(it.ItemDefID, it.Quantity); err != nil {
			unknown = append(unknown, it.ItemDefID)
		}
	}
	return unknown
}
