// Package dice provides the randomness abstraction and dice-expression rolls
// used by the battle engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results kept after any keep-highest filter
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for every probabilistic roll in a battle:
// hit, critical, variance, escape, status infliction and dice expressions.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniform sample in [0, 1).
	Float64() float64
}
