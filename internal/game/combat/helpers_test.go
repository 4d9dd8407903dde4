package combat_test

import (
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// fixedSource replays queued samples and repeats the last one; it counts draws.
type fixedSource struct {
	floats []float64
	ints   []int
	draws  int
}

func (f *fixedSource) Float64() float64 {
	f.draws++
	if len(f.floats) == 0 {
		return 0.5
	}
	v := f.floats[0]
	if len(f.floats) > 1 {
		f.floats = f.floats[1:]
	}
	return v
}

func (f *fixedSource) Intn(n int) int {
	f.draws++
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	if len(f.ints) > 1 {
		f.ints = f.ints[1:]
	}
	return v % n
}

func newFighter(id string, side combat.Side, pos int, s combat.Stats) *combat.Combatant {
	c := combat.NewCombatant(id, id, side, s)
	c.Position = pos
	return c
}
