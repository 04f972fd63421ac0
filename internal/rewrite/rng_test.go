package rewrite

import (
	"math/rand/v2"

	"cellrules/internal/core"
)

// testRNG draws symbols and shuffles coordinates from a fixed seed so
// property tests are repeatable.
type testRNG struct {
	r *rand.Rand
}

func newTestRNG(seed uint64) *testRNG {
	return &testRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (r *testRNG) pick(alphabet string) core.Symbol {
	return core.Symbol(alphabet[r.r.IntN(len(alphabet))])
}

func (r *testRNG) fill(g *core.Grid, alphabet string) {
	cells := g.Cells()
	for i := range cells {
		cells[i] = r.pick(alphabet)
	}
}

func (r *testRNG) shuffle(pts []core.Point) {
	r.r.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
}
