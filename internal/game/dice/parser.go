package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:kh(\d+))?([+-]\d+)?$`)

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "4d6kh3", "4d6kh3+1".
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	s := strings.ToLower(strings.TrimSpace(expr))
	if !strings.Contains(s, "d") {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	out := Expression{Raw: expr, Count: 1}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		out.Count = n
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}
	out.Sides = sides

	if m[3] != "" {
		kh, err := strconv.Atoi(m[3])
		if err != nil || kh <= 0 || kh >= out.Count {
			return Expression{}, fmt.Errorf("dice: kh value must be > 0 and < count %d in %q", out.Count, expr)
		}
		out.KeepHighest = kh
	}

	if m[4] != "" {
		mod, err := strconv.Atoi(m[4])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
		out.Modifier = mod
	}
	return out, nil
}

// MustParse parses expr and panics on error. Useful for package-level values.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
