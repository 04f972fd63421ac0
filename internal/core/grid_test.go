package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOutsideIsBlank(t *testing.T) {
	g := MustParseGrid("ab", "cd")
	for _, p := range []Point{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {-5, -5}, {100, 1}} {
		assert.Equal(t, Blank, g.Get(p.X, p.Y), "Get(%d,%d)", p.X, p.Y)
	}
	assert.Equal(t, Symbol('d'), g.Get(1, 1))
}

func TestSetOutOfRangePanics(t *testing.T) {
	g := NewGrid(3, 3)
	assert.Panics(t, func() { g.Set(3, 0, 'x') })
}

func TestNewGridRejectsEmptyDimensions(t *testing.T) {
	assert.Panics(t, func() { NewGrid(0, 4) })
}

func TestNeighborhoodEdgeBlankFill(t *testing.T) {
	g := NewGrid(3, 3)
	g.Fill('#')

	n := g.Neighborhood(0, 0)
	// Indices whose coordinates fall at x=-1 or y=-1.
	outside := map[int]bool{0: true, 1: true, 2: true, 3: true, 6: true}
	for i, s := range n {
		want := Symbol('#')
		if outside[i] {
			want = Blank
		}
		assert.Equal(t, want, s, "neighborhood[%d] of %s", i, n)
	}
}

func TestNeighborhoodOrder(t *testing.T) {
	g := MustParseGrid(
		"abc",
		"def",
		"ghi",
	)
	n := g.Neighborhood(1, 1)
	assert.Equal(t, "abc/def/ghi", n.String())
	assert.Equal(t, Symbol('e'), n[Center])
}

func TestCoordsCoverGridOnce(t *testing.T) {
	g := NewGrid(4, 3)
	seen := map[Point]int{}
	for _, p := range g.Coords() {
		require.True(t, g.In(p.X, p.Y), "coordinate %v outside grid", p)
		seen[p]++
	}
	assert.Len(t, seen, 12)
	for p, n := range seen {
		assert.Equal(t, 1, n, "coordinate %v", p)
	}
}

func TestEqual(t *testing.T) {
	a := MustParseGrid("x  ", "   ")
	b := a.Clone()
	assert.True(t, a.Equal(b), "clone must equal original")
	b.Set(2, 1, '.')
	assert.False(t, a.Equal(b), "grids differing in one cell")
	assert.False(t, a.Equal(MustParseGrid("x ", "  ", "  ")), "grids with different dimensions")
}

func TestParseGridErrors(t *testing.T) {
	cases := map[string][]string{
		"empty":     nil,
		"ragged":    {"abc", "ab"},
		"blank row": {""},
		"control":   {"a\tb"},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGrid(rows)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}
}

func TestRowsRoundTrip(t *testing.T) {
	rows := []string{"x . ", " .. ", "____"}
	assert.Equal(t, rows, MustParseGrid(rows...).Rows())
}

func TestCopyFromMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { NewGrid(2, 2).CopyFrom(NewGrid(3, 2)) })
}
