package inventory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
)

// Pouch is the party's shared stock of consumables. It offers items to the
// command selector and applies them for the battle.
// All methods are safe for concurrent use.
type Pouch struct {
	mu     sync.Mutex
	reg    *Registry
	counts map[string]int
}

var (
	_ command.Inventory = (*Pouch)(nil)
	_ battle.ItemUser   = (*Pouch)(nil)
)

// NewPouch creates an empty Pouch drawing definitions from reg.
//
// Precondition: reg must not be nil.
func NewPouch(reg *Registry) *Pouch {
	if reg == nil {
		panic("inventory: NewPouch: registry must not be nil")
	}
	return &Pouch{reg: reg, counts: make(map[string]int)}
}

// Add stocks qty units of itemID.
//
// Postcondition: returns an error for an unknown item or qty <= 0.
func (p *Pouch) Add(itemID string, qty int) error {
	if _, ok := p.reg.Item(itemID); !ok {
		return fmt.Errorf("inventory: unknown item %q", itemID)
	}
	if qty <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", qty)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[itemID] += qty
	return nil
}

// Remove takes qty units of itemID out of the pouch.
//
// Postcondition: on error the pouch is unchanged.
func (p *Pouch) Remove(itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", qty)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.take(itemID, qty)
}

func (p *Pouch) take(itemID string, qty int) error {
	have := p.counts[itemID]
	if have < qty {
		return fmt.Errorf("inventory: have %d of %q, need %d", have, itemID, qty)
	}
	if have == qty {
		delete(p.counts, itemID)
	} else {
		p.counts[itemID] = have - qty
	}
	return nil
}

// Quantity returns how many units of itemID are held.
func (p *Pouch) Quantity(itemID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[itemID]
}

// ItemsFor lists the held items, sorted by ID. Every party member shares the pouch.
func (p *Pouch) ItemsFor(*combat.Combatant) []command.ItemOption {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]command.ItemOption, 0, len(p.counts))
	for id, n := range p.counts {
		def, _ := p.reg.Item(id)
		out = append(out, command.ItemOption{
			ID:       id,
			Name:     def.Name,
			Quantity: n,
			Target:   def.Target,
			Revive:   def.Revive,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CanUseItem reports whether user may use itemID on target now.
//
// Postcondition: revive items accept only defeated allies; every other item
// accepts only living targets of its target type.
func (p *Pouch) CanUseItem(itemID string, user, target *combat.Combatant) bool {
	def, ok := p.reg.Item(itemID)
	if !ok || p.Quantity(itemID) == 0 {
		return false
	}
	if def.Revive {
		return target.Side == user.Side && target.IsDefeated()
	}
	if target.IsDefeated() {
		return false
	}
	switch def.Target {
	case combat.TargetSelf:
		return target.ID == user.ID
	case combat.TargetSingleAlly, combat.TargetAllAllies:
		return target.Side == user.Side
	default:
		return target.Side != user.Side
	}
}

// UseItem spends one unit of itemID and applies it to targets.
//
// Postcondition: on error nothing is spent or applied.
func (p *Pouch) UseItem(itemID string, user *combat.Combatant, targets []*combat.Combatant) (battle.ItemResult, error) {
	def, ok := p.reg.Item(itemID)
	if !ok {
		return battle.ItemResult{}, fmt.Errorf("inventory: unknown item %q", itemID)
	}
	if len(targets) == 0 {
		return battle.ItemResult{}, fmt.Errorf("inventory: %q needs a target", itemID)
	}
	p.mu.Lock()
	err := p.take(itemID, 1)
	p.mu.Unlock()
	if err != nil {
		return battle.ItemResult{}, err
	}

	res := battle.ItemResult{Success: true, Message: fmt.Sprintf("%s used %s", user.Name, def.Name)}
	for _, t := range targets {
		eff := battle.ItemEffect{TargetID: t.ID}
		if def.Revive {
			if t.IsDefeated() {
				for _, id := range t.Effects().IDs() {
					t.Effects().Remove(id)
				}
				eff.HPRestored = t.Revive(def.HealHP)
				eff.Revived = true
			}
		} else {
			eff.HPRestored = t.Heal(def.HealHP)
		}
		if t.IsAlive() {
			eff.MPRestored = t.RestoreMP(def.RestoreMP)
			for _, id := range def.Cures {
				if t.Effects().Remove(id) {
					eff.Cured = append(eff.Cured, id)
				}
			}
		}
		res.Effects = append(res.Effects, eff)
	}
	return res, nil
}
