// Package battle implements the turn-based battle state machine: turn order,
// player command suspension, enemy AI turns, action resolution, status ticks
// and end conditions.
package battle

// Phase is the battle's current state. Exactly one phase is active at a time.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhasePlayerTurn
	PhaseEnemyTurn
	PhaseResolving
	PhaseVictory
	PhaseDefeat
	PhaseEscaped
	// PhaseStalemate ends a battle in which no combatant can change the outcome.
	PhaseStalemate
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhasePlayerTurn:
		return "player-turn"
	case PhaseEnemyTurn:
		return "enemy-turn"
	case PhaseResolving:
		return "resolving"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	case PhaseEscaped:
		return "escaped"
	case PhaseStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the battle is over.
func (p Phase) IsTerminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseEscaped || p == PhaseStalemate
}
