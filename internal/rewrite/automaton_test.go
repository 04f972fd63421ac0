package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellrules/internal/core"
)

// marchRules move an 'x' one cell east per generation, leaving a '.' trail.
func marchRules() *Automaton {
	return New(
		MustRule("____x____", "."),
		MustRule("___x ____", "x"),
	)
}

func TestStepMarchScenario(t *testing.T) {
	start := core.NewGrid(5, 5)
	start.Set(0, 2, 'x')
	goal := core.NewGrid(5, 5)
	for x := 0; x < 4; x++ {
		goal.Set(x, 2, '.')
	}
	goal.Set(4, 2, 'x')

	auto := marchRules()
	cur := start
	steps := 0
	for !cur.Equal(goal) {
		require.Less(t, steps, 10, "march did not reach the goal:\n%s", cur)
		cur = auto.Step(cur)
		steps++
		// The head advances exactly one cell per generation.
		assert.Equal(t, core.Symbol('x'), cur.Get(steps, 2), "step %d:\n%s", steps, cur)
	}
	assert.Equal(t, 4, steps)
}

func TestStepPreservesDimensions(t *testing.T) {
	rng := newTestRNG(3)
	auto := New(MustRule("_________", "z"))
	for _, size := range []core.Size{{W: 1, H: 1}, {W: 7, H: 2}, {W: 3, H: 9}} {
		g := core.NewGrid(size.W, size.H)
		rng.fill(g, " ab")
		next := auto.Step(g)
		assert.Equal(t, size, next.Size())
	}
}

func TestStepEmptyAutomatonIsIdentity(t *testing.T) {
	rng := newTestRNG(11)
	g := core.NewGrid(6, 4)
	rng.fill(g, " .xAB_")
	assert.True(t, New().Step(g).Equal(g))
}

func TestStepFirstMatchWins(t *testing.T) {
	g := core.MustParseGrid("   ", " o ", "   ")
	first := New(MustRule("____o____", "1"), MustRule("_________", "2"))
	next := first.Step(g)
	assert.Equal(t, core.Symbol('1'), next.Get(1, 1))
	assert.Equal(t, core.Symbol('2'), next.Get(0, 0), "only the wildcard rule matches blanks")

	require.NoError(t, first.Move(1, 0))
	next = first.Step(g)
	assert.Equal(t, core.Symbol('2'), next.Get(1, 1), "reordering changes which rule fires")
}

func TestStepIsSynchronous(t *testing.T) {
	// Each 'x' with a blank east neighbor becomes blank, and each blank with
	// an 'x' west neighbor becomes 'x'. A sequential sweep from the west would
	// carry the x across the whole row in one generation.
	g := core.MustParseGrid("x    ")
	auto := New(MustRule("____x ___", " "), MustRule("___x ____", "x"))
	next := auto.Step(g)
	assert.Equal(t, []string{" x   "}, next.Rows())
	assert.Equal(t, []string{"x    "}, g.Rows(), "input grid must not change")
}

func TestStepOrderIndependent(t *testing.T) {
	rng := newTestRNG(42)
	auto := New(
		MustRule("_A_ABA_A_", "A"),
		MustRule("___x ____", "x"),
		MustRule("____x____", "."),
		MustRule("_.__ ____", "o"),
	)
	for trial := 0; trial < 20; trial++ {
		g := core.NewGrid(6, 5)
		rng.fill(g, " x.o")
		want := auto.Step(g)

		coords := g.Coords()
		rng.shuffle(coords)
		got := g.Clone()
		auto.stepOrdered(got, g, coords)
		require.True(t, want.Equal(got), "trial %d:\nwant\n%s\ngot\n%s", trial, want, got)
	}
}

func TestStepIntoMatchesStep(t *testing.T) {
	g := core.MustParseGrid("x    ", "     ")
	auto := marchRules()
	dst := core.NewGrid(5, 2)
	auto.StepInto(dst, g)
	assert.True(t, auto.Step(g).Equal(dst))
}

func TestStepIntoDimensionMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		marchRules().StepInto(core.NewGrid(2, 2), core.NewGrid(3, 3))
	})
}

func TestMatchReportsRuleIndex(t *testing.T) {
	auto := marchRules()
	_, idx, ok := auto.Match(hood("   x     "))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, idx, ok = auto.Match(hood("         "))
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestEditsBoundsChecked(t *testing.T) {
	auto := New(BlankRule(), BlankRule())

	require.NoError(t, auto.SetPatternCell(1, 8, 'q'))
	r, err := auto.Rule(1)
	require.NoError(t, err)
	assert.Equal(t, core.Symbol('q'), r.Pattern[8])

	require.NoError(t, auto.SetReplace(0, 'A'))
	r, _ = auto.Rule(0)
	assert.Equal(t, core.Symbol('A'), r.Replace)

	assert.ErrorIs(t, auto.SetPatternCell(2, 0, 'q'), ErrRuleIndex)
	assert.ErrorIs(t, auto.SetPatternCell(-1, 0, 'q'), ErrRuleIndex)
	assert.ErrorIs(t, auto.SetPatternCell(0, 9, 'q'), ErrCellIndex)
	assert.ErrorIs(t, auto.SetReplace(5, 'q'), ErrRuleIndex)
	assert.ErrorIs(t, auto.SetReplace(0, 0x07), ErrInvalidSymbol)
	assert.ErrorIs(t, auto.Insert(3, BlankRule()), ErrRuleIndex)
	assert.ErrorIs(t, auto.Remove(2), ErrRuleIndex)
	assert.ErrorIs(t, auto.Move(0, 2), ErrRuleIndex)
}

func TestLockedRulesRefuseEdits(t *testing.T) {
	locked := MustRule("_________", "#")
	locked.Locked = true
	auto := New(locked, BlankRule())

	assert.ErrorIs(t, auto.SetPatternCell(0, 4, 'x'), ErrLocked)
	assert.ErrorIs(t, auto.SetReplace(0, 'x'), ErrLocked)
	assert.ErrorIs(t, auto.Replace(0, BlankRule()), ErrLocked)
	assert.ErrorIs(t, auto.Remove(0), ErrLocked)
	assert.ErrorIs(t, auto.Move(0, 1), ErrLocked)
	assert.NoError(t, auto.SetReplace(1, 'x'))
}

func TestMoveCannotCrossLockedRule(t *testing.T) {
	a := MustRule("_________", "a")
	b := MustRule("_________", "b")
	locked := MustRule("____r____", "r")
	locked.Locked = true
	auto := New(a, locked, b)

	assert.ErrorIs(t, auto.Move(2, 0), ErrLocked)
	assert.ErrorIs(t, auto.Move(0, 2), ErrLocked)
	assert.Equal(t, []Rule{a, locked, b}, auto.Rules(), "refused moves change nothing")

	auto = New(locked, a, b)
	require.NoError(t, auto.Move(2, 1))
	assert.Equal(t, []Rule{locked, b, a}, auto.Rules())
}

func TestInsertRemoveMove(t *testing.T) {
	a := MustRule("_________", "a")
	b := MustRule("_________", "b")
	c := MustRule("_________", "c")
	auto := New(a, c)

	require.NoError(t, auto.Insert(1, b))
	assert.Equal(t, []Rule{a, b, c}, auto.Rules())

	require.NoError(t, auto.Move(2, 0))
	assert.Equal(t, []Rule{c, a, b}, auto.Rules())

	require.NoError(t, auto.Move(0, 2))
	assert.Equal(t, []Rule{a, b, c}, auto.Rules())

	require.NoError(t, auto.Remove(1))
	assert.Equal(t, []Rule{a, c}, auto.Rules())

	require.NoError(t, auto.Insert(2, b))
	assert.Equal(t, []Rule{a, c, b}, auto.Rules())
}

func TestRulesReturnsCopy(t *testing.T) {
	auto := New(BlankRule())
	rules := auto.Rules()
	rules[0].Replace = 'z'
	r, _ := auto.Rule(0)
	assert.Equal(t, core.Blank, r.Replace)

	clone := auto.Clone()
	require.NoError(t, clone.SetReplace(0, 'y'))
	r, _ = auto.Rule(0)
	assert.Equal(t, core.Blank, r.Replace)
}
