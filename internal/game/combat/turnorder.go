package combat

import "sort"

// TurnOrder returns the living combatants sorted by effective speed, fastest
// first, with ties broken by Position.
//
// Postcondition: the result contains no defeated combatant and is identical
// for identical inputs.
func TurnOrder(combatants []*Combatant) []*Combatant {
	order := make([]*Combatant, 0, len(combatants))
	for _, c := range combatants {
		if c.IsAlive() {
			order = append(order, c)
		}
	}
	speed := make(map[*Combatant]int, len(order))
	for _, c := range order {
		speed[c] = c.EffectiveStats().Speed
	}
	sort.SliceStable(order, func(i, j int) bool {
		si, sj := speed[order[i]], speed[order[j]]
		if si != sj {
			return si > sj
		}
		return order[i].Position < order[j].Position
	})
	return order
}
