package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. Every dice expression rolled through it is
// logged at debug level with expression, dice values, modifier, and total.
// Roller itself satisfies Source so it can be handed to the combat resolvers.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced by a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice: NewLoggedRoller: src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Float64 delegates to the wrapped Source.
func (r *Roller) Float64() float64 { return r.src.Float64() }

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}
