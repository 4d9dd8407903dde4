package condition

// Modifiers returns the summed stat modifiers of every active condition,
// each multiplied by its stack count.
func Modifiers(s *ActiveSet) StatModifiers {
	var total StatModifiers
	if s == nil {
		return total
	}
	for _, ac := range s.order {
		total = total.add(ac.Def.Modifiers, ac.Stacks)
	}
	return total
}

// PreventsAction reports whether any active condition blocks its bearer from acting.
func PreventsAction(s *ActiveSet) bool {
	if s == nil {
		return false
	}
	for _, ac := range s.order {
		if ac.Def.PreventsAction {
			return true
		}
	}
	return false
}

// Scale applies a fractional modifier to a base stat, never going below zero.
//
// Postcondition: Returns max(0, round(base * (1 + pct))).
func Scale(base int, pct float64) int {
	v := float64(base) * (1 + pct)
	if v <= 0 {
		return 0
	}
	return int(v + 0.5)
}
