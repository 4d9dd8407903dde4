package condition

import "fmt"

// ActiveCondition tracks one applied condition on an entity.
type ActiveCondition struct {
	Def               *ConditionDef
	Stacks            int
	DurationRemaining int // -1 = permanent
}

// ActiveSet tracks the conditions currently applied to one combatant in the
// order they were first applied.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	order []*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

func (s *ActiveSet) index(id string) int {
	for i, ac := range s.order {
		if ac.Def.ID == id {
			return i
		}
	}
	return -1
}

// Apply adds or refreshes a condition.
// A re-applied condition keeps its position; stacks grow up to MaxStacks
// (always 1 when MaxStacks == 0) and the longer duration wins.
// duration is rounds remaining; use -1 for permanent.
//
// Precondition: def must not be nil; stacks >= 1.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *ConditionDef, stacks, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if stacks < 1 {
		return fmt.Errorf("Apply: stacks must be >= 1, got %d", stacks)
	}
	if def.DurationType == DurationPermanent {
		duration = -1
	}

	if i := s.index(def.ID); i >= 0 {
		existing := s.order[i]
		existing.Stacks = capStacks(def, existing.Stacks+stacks)
		if duration < 0 || (existing.DurationRemaining >= 0 && duration > existing.DurationRemaining) {
			existing.DurationRemaining = duration
		}
		return nil
	}

	s.order = append(s.order, &ActiveCondition{
		Def:               def,
		Stacks:            capStacks(def, stacks),
		DurationRemaining: duration,
	})
	return nil
}

func capStacks(def *ConditionDef, stacks int) int {
	if def.MaxStacks == 0 {
		return 1
	}
	if stacks > def.MaxStacks {
		return def.MaxStacks
	}
	return stacks
}

// Remove deletes the condition with the given ID and reports whether it was present.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.order = append(s.order[:i], s.order[i+1:]...)
	return true
}

// Tick decrements every "rounds" condition by one and removes those that reach 0.
//
// Postcondition: the returned ids are in application order and none is still active.
func (s *ActiveSet) Tick() []string {
	var expired []string
	kept := s.order[:0]
	for _, ac := range s.order {
		if ac.Def.DurationType == DurationRounds && ac.DurationRemaining >= 0 {
			ac.DurationRemaining--
			if ac.DurationRemaining <= 0 {
				expired = append(expired, ac.Def.ID)
				continue
			}
		}
		kept = append(kept, ac)
	}
	for i := len(kept); i < len(s.order); i++ {
		s.order[i] = nil
	}
	s.order = kept
	return expired
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	return s.index(id) >= 0
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if i := s.index(id); i >= 0 {
		return s.order[i].Stacks
	}
	return 0
}

// Len returns the number of active conditions.
func (s *ActiveSet) Len() int { return len(s.order) }

// All returns the active conditions in application order.
// The slice is a new allocation but the pointed-to values are shared;
// callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, len(s.order))
	copy(out, s.order)
	return out
}

// IDs returns the active condition ids in application order.
func (s *ActiveSet) IDs() []string {
	out := make([]string, len(s.order))
	for i, ac := range s.order {
		out[i] = ac.Def.ID
	}
	return out
}

// Clone returns a deep copy sharing only the immutable definitions.
func (s *ActiveSet) Clone() *ActiveSet {
	if s == nil {
		return NewActiveSet()
	}
	out := &ActiveSet{order: make([]*ActiveCondition, len(s.order))}
	for i, ac := range s.order {
		cp := *ac
		out.order[i] = &cp
	}
	return out
}
