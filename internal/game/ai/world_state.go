package ai

import (
	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/scripting"
)

// Target tokens accepted by ResolveTarget.
const (
	TargetNearestEnemy   = "nearest_enemy"
	TargetWeakestEnemy   = "weakest_enemy"
	TargetStrongestEnemy = "strongest_enemy"
	TargetWeakestAlly    = "weakest_ally"
	TargetSelf           = "self"
)

// CombatantState captures a combatant's battle-relevant state at planning time.
type CombatantState struct {
	UID        string
	Name       string
	Side       combat.Side
	Position   int
	HP         int
	MaxHP      int
	MP         int
	MaxMP      int
	Defending  bool
	Dead       bool
	Conditions []string
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *CombatantState) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// WorldState is the snapshot the planner evaluates for one acting enemy.
//
// Invariant: Self must not be nil and must appear in Combatants.
type WorldState struct {
	Self       *CombatantState
	Turn       int
	Combatants []*CombatantState // in position order
}

// BuildWorldState snapshots s from actor's point of view.
//
// Precondition: actor must be in s.
// Postcondition: ws.Self.UID == actor.ID.
func BuildWorldState(actor *combat.Combatant, s battle.State) *WorldState {
	ws := &WorldState{Turn: s.Turn}
	for _, c := range s.Roster() {
		cs := &CombatantState{
			UID:        c.ID,
			Name:       c.Name,
			Side:       c.Side,
			Position:   c.Position,
			HP:         c.CurrentHP,
			MaxHP:      c.MaxHitPoints(),
			MP:         c.CurrentMP,
			MaxMP:      c.MaxMagicPoints(),
			Defending:  c.Defending,
			Dead:       c.IsDefeated(),
			Conditions: c.Effects().IDs(),
		}
		if c.ID == actor.ID {
			ws.Self = cs
		}
		ws.Combatants = append(ws.Combatants, cs)
	}
	if ws.Self == nil {
		panic("ai: BuildWorldState: actor " + actor.ID + " is not in the battle")
	}
	return ws
}

func (ws *WorldState) find(uid string) *CombatantState {
	for _, c := range ws.Combatants {
		if c.UID == uid {
			return c
		}
	}
	return nil
}

// EnemiesOf returns the living combatants opposing uid.
//
// Postcondition: returned slice contains no dead combatants and nobody on uid's side.
func (ws *WorldState) EnemiesOf(uid string) []*CombatantState {
	self := ws.find(uid)
	if self == nil {
		return nil
	}
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.Side != self.Side {
			out = append(out, c)
		}
	}
	return out
}

// AlliesOf returns the living combatants on uid's side, uid included.
func (ws *WorldState) AlliesOf(uid string) []*CombatantState {
	self := ws.find(uid)
	if self == nil {
		return nil
	}
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.Side == self.Side {
			out = append(out, c)
		}
	}
	return out
}

// HasLivingEnemies reports whether uid has any living opponent.
func (ws *WorldState) HasLivingEnemies(uid string) bool {
	return len(ws.EnemiesOf(uid)) > 0
}

// NearestEnemy returns the living enemy with the lowest position, or nil.
func (ws *WorldState) NearestEnemy(uid string) *CombatantState {
	enemies := ws.EnemiesOf(uid)
	if len(enemies) == 0 {
		return nil
	}
	return enemies[0]
}

// WeakestEnemy returns the living enemy with the lowest HP percentage, or nil.
// Ties go to the lower position.
func (ws *WorldState) WeakestEnemy(uid string) *CombatantState {
	return lowestHP(ws.EnemiesOf(uid))
}

// StrongestEnemy returns the living enemy with the most current HP, or nil.
// Ties go to the lower position.
func (ws *WorldState) StrongestEnemy(uid string) *CombatantState {
	enemies := ws.EnemiesOf(uid)
	if len(enemies) == 0 {
		return nil
	}
	best := enemies[0]
	for _, e := range enemies[1:] {
		if e.HP > best.HP {
			best = e
		}
	}
	return best
}

// WeakestAlly returns the living ally (self included) with the lowest HP percentage.
func (ws *WorldState) WeakestAlly(uid string) *CombatantState {
	return lowestHP(ws.AlliesOf(uid))
}

func lowestHP(cs []*CombatantState) *CombatantState {
	if len(cs) == 0 {
		return nil
	}
	weakest := cs[0]
	for _, c := range cs[1:] {
		if c.HPPercent() < weakest.HPPercent() {
			weakest = c
		}
	}
	return weakest
}

// ResolveTarget maps a target token to a combatant UID.
//
// Postcondition: known tokens resolve relative to Self; unknown tokens are
// returned as-is; empty string when the token names nobody.
func (ws *WorldState) ResolveTarget(token string) string {
	var c *CombatantState
	switch token {
	case TargetNearestEnemy:
		c = ws.NearestEnemy(ws.Self.UID)
	case TargetWeakestEnemy:
		c = ws.WeakestEnemy(ws.Self.UID)
	case TargetStrongestEnemy:
		c = ws.StrongestEnemy(ws.Self.UID)
	case TargetWeakestAlly:
		c = ws.WeakestAlly(ws.Self.UID)
	case TargetSelf:
		c = ws.Self
	default:
		return token
	}
	if c == nil {
		return ""
	}
	return c.UID
}

// Combatant implements scripting.Lookup.
func (ws *WorldState) Combatant(uid string) *scripting.CombatantInfo {
	c := ws.find(uid)
	if c == nil {
		return nil
	}
	return c.info()
}

// Opponents implements scripting.Lookup.
func (ws *WorldState) Opponents(uid string) []*scripting.CombatantInfo {
	var out []*scripting.CombatantInfo
	for _, c := range ws.EnemiesOf(uid) {
		out = append(out, c.info())
	}
	return out
}

func (c *CombatantState) info() *scripting.CombatantInfo {
	return &scripting.CombatantInfo{
		UID:        c.UID,
		Name:       c.Name,
		Side:       c.Side.String(),
		HP:         c.HP,
		MaxHP:      c.MaxHP,
		MP:         c.MP,
		MaxMP:      c.MaxMP,
		Defending:  c.Defending,
		Conditions: append([]string(nil), c.Conditions...),
	}
}
