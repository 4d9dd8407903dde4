package dice

import "sort"

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse (Count >= 1, Sides >= 2); src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count when KeepHighest == 0, or
//
//	len(result.Dice) == expr.KeepHighest when KeepHighest > 0.
//	result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}

	kept := rolled
	if expr.KeepHighest > 0 {
		sort.Sort(sort.Reverse(sort.IntSlice(rolled)))
		kept = rolled[:expr.KeepHighest]
	}

	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Modifier:   expr.Modifier,
	}
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a RollResult or a parse error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
