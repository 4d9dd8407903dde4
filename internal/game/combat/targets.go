package combat

// Allies returns the living members of roster on actor's side, in roster order.
func Allies(actor *Combatant, roster []*Combatant) []*Combatant {
	return living(roster, func(c *Combatant) bool { return c.Side == actor.Side })
}

// Opponents returns the living members of roster on the other side, in roster order.
func Opponents(actor *Combatant, roster []*Combatant) []*Combatant {
	return living(roster, func(c *Combatant) bool { return c.Side != actor.Side })
}

// Candidates returns who actor may aim a skill of type tt at.
//
// Enemy types yield living opponents, ally types yield living allies, and
// TargetSelf yields the actor alone regardless of its HP.
func Candidates(actor *Combatant, tt TargetType, roster []*Combatant) []*Combatant {
	switch tt {
	case TargetSingleEnemy, TargetAllEnemies:
		return Opponents(actor, roster)
	case TargetSingleAlly, TargetAllAllies:
		return Allies(actor, roster)
	case TargetSelf:
		return []*Combatant{actor}
	default:
		return nil
	}
}

// FindByID returns the combatant in roster with id, or nil.
func FindByID(roster []*Combatant, id string) *Combatant {
	for _, c := range roster {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// AllDefeated reports whether every combatant in group is at zero HP.
// An empty group is not defeated.
func AllDefeated(group []*Combatant) bool {
	if len(group) == 0 {
		return false
	}
	for _, c := range group {
		if c.IsAlive() {
			return false
		}
	}
	return true
}

func living(roster []*Combatant, keep func(*Combatant) bool) []*Combatant {
	var out []*Combatant
	for _, c := range roster {
		if c.IsAlive() && keep(c) {
			out = append(out, c)
		}
	}
	return out
}
