package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// fixedSource returns queued values in order and repeats the last one.
type fixedSource struct {
	ints   []int
	floats []float64
}

func (f *fixedSource) Intn(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	if len(f.ints) > 1 {
		f.ints = f.ints[1:]
	}
	return v % n
}

func (f *fixedSource) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[0]
	if len(f.floats) > 1 {
		f.floats = f.floats[1:]
	}
	return v
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	assert.Panics(t, func() { _ = dice.RollResult{}.String() })
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want dice.Expression
	}{
		{"d20", dice.Expression{Raw: "d20", Count: 1, Sides: 20}},
		{"2d6", dice.Expression{Raw: "2d6", Count: 2, Sides: 6}},
		{"2d6+3", dice.Expression{Raw: "2d6+3", Count: 2, Sides: 6, Modifier: 3}},
		{"4d8-2", dice.Expression{Raw: "4d8-2", Count: 4, Sides: 8, Modifier: -2}},
		{"4d6kh3", dice.Expression{Raw: "4d6kh3", Count: 4, Sides: 6, KeepHighest: 3}},
		{"4D6KH3+1", dice.Expression{Raw: "4D6KH3+1", Count: 4, Sides: 6, KeepHighest: 3, Modifier: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "20", "0d6", "2d1", "2dx", "4d6kh4", "4d6kh0", "2d6+", "d"} {
		t.Run(in, func(t *testing.T) {
			_, err := dice.Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
	assert.NotPanics(t, func() { dice.MustParse("1d4") })
}

func TestRoll_KeepHighest(t *testing.T) {
	src := &fixedSource{ints: []int{0, 5, 2, 3}}
	res := dice.Roll(dice.MustParse("4d6kh3"), src)
	assert.Equal(t, []int{6, 4, 3}, res.Dice)
	assert.Equal(t, 13, res.Total())
}

func TestRoll_Property_BoundsAndCount(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 100).Draw(rt, "sides")
		mod := rapid.IntRange(-20, 20).Draw(rt, "mod")
		expr := dice.Expression{Raw: "x", Count: count, Sides: sides, Modifier: mod}
		res := dice.Roll(expr, src)
		require.Len(rt, res.Dice, count)
		for _, d := range res.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, sides)
		}
		assert.GreaterOrEqual(rt, res.Total(), count+mod)
		assert.LessOrEqual(rt, res.Total(), count*sides+mod)
	})
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSources_Float64InUnitInterval(t *testing.T) {
	for name, src := range map[string]dice.Source{
		"crypto": dice.NewCryptoSource(),
		"seeded": dice.NewSeededSource(dice.NewSeed()),
	} {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				f := src.Float64()
				assert.GreaterOrEqual(t, f, 0.0)
				assert.Less(t, f, 1.0)
			}
			assert.Panics(t, func() { src.Intn(0) })
		})
	}
}

func TestRoller_LogsRolls(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(&fixedSource{ints: []int{2, 3}}, zap.New(core))

	res, err := r.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, 8, res.Total())

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2d6+1", entries[0].ContextMap()["expression"])
	assert.EqualValues(t, 8, entries[0].ContextMap()["total"])
}

func TestRoller_RollExprError(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSeededSource(1), nil)
	_, err := r.RollExpr("bad")
	assert.Error(t, err)
}

func TestNewLoggedRoller_NilSourcePanics(t *testing.T) {
	assert.Panics(t, func() { dice.NewLoggedRoller(nil, zap.NewNop()) })
}
