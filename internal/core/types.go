package core

// Size describes the dimensions of a grid.
type Size struct {
	W int
	H int
}

// Sim is the contract hosts use to animate a simulation without knowing how
// it is edited.
type Sim interface {
	Name() string
	Size() Size
	// Reset returns the simulation to its initial generation.
	Reset()
	// Step advances one generation. It reports false when the simulation
	// did not advance, for example because it already reached its goal.
	Step() bool
	Cells() []Symbol
}

// Snapshot copies the current generation of s into a new grid.
func Snapshot(s Sim) *Grid {
	size := s.Size()
	g := NewGrid(size.W, size.H)
	copy(g.data, s.Cells())
	return g
}
