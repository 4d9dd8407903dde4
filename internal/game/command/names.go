package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// aliases maps alternate command words to canonical action names.
var aliases = map[string]string{
	"fight": "attack",
	"atk":   "attack",
	"magic": "skill",
	"use":   "item",
	"guard": "defend",
	"def":   "defend",
	"flee":  "escape",
	"run":   "escape",
}

// ParseCommand resolves a command word or alias, case-insensitively.
//
// Postcondition: Returns an error wrapping ErrCommandUnavailable for unknown words.
func ParseCommand(word string) (combat.ActionType, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	if canonical, ok := aliases[w]; ok {
		w = canonical
	}
	a, err := combat.ParseActionType(w)
	if err != nil {
		return combat.ActionUnknown, fmt.Errorf("%w: %q", ErrCommandUnavailable, word)
	}
	return a, nil
}
