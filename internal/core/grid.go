package core

import (
	"errors"
	"fmt"
	"strings"
)

// Symbol is a single printable byte occupying one grid cell.
type Symbol byte

// Blank is the background symbol. Coordinates outside a grid read as Blank.
const Blank Symbol = ' '

// NeighborhoodSize is the number of cells in a 3x3 Moore neighborhood.
const NeighborhoodSize = 9

// Center is the neighborhood index of the cell itself.
const Center = 4

// ErrInvalidGrid reports malformed grid input at a load boundary.
var ErrInvalidGrid = errors.New("invalid grid")

// Printable reports whether s may appear in a grid or rule.
func Printable(s Symbol) bool { return s >= 0x20 && s <= 0x7e }

// Neighborhood holds a cell and its 8 neighbors in row-major order, rows
// y-1..y+1 and columns x-1..x+1. Index Center is the cell itself.
type Neighborhood [NeighborhoodSize]Symbol

// String renders the neighborhood as three rows separated by '/'.
func (n Neighborhood) String() string {
	b := make([]byte, 0, 11)
	for i, s := range n {
		if i > 0 && i%3 == 0 {
			b = append(b, '/')
		}
		b = append(b, byte(s))
	}
	return string(b)
}

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Grid stores a 2D grid of symbols in row-major order.
type Grid struct {
	W, H int
	data []Symbol
}

// NewGrid allocates a blank grid with the given dimensions. Non-positive
// dimensions are a caller bug.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("core: grid dimensions must be positive, got %dx%d", w, h))
	}
	g := &Grid{W: w, H: h, data: make([]Symbol, w*h)}
	g.Fill(Blank)
	return g
}

// ParseGrid builds a grid from equal-length rows of printable symbols.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidGrid)
	}
	w := len(rows[0])
	if w == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrInvalidGrid)
	}
	g := NewGrid(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidGrid, y, len(row), w)
		}
		for x := 0; x < w; x++ {
			s := Symbol(row[x])
			if !Printable(s) {
				return nil, fmt.Errorf("%w: row %d col %d: non-printable byte 0x%02x", ErrInvalidGrid, y, x, row[x])
			}
			g.data[g.Index(x, y)] = s
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid for literals known to be valid.
func MustParseGrid(rows ...string) *Grid {
	g, err := ParseGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice in row-major order.
func (g *Grid) Cells() []Symbol { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// Get returns the symbol at (x, y), or Blank when the coordinate is outside
// the grid.
func (g *Grid) Get(x, y int) Symbol {
	if !g.In(x, y) {
		return Blank
	}
	return g.data[g.Index(x, y)]
}

// Set writes s at (x, y). Out-of-range coordinates panic.
func (g *Grid) Set(x, y int, s Symbol) {
	if !g.In(x, y) {
		panic(fmt.Sprintf("core: Set(%d, %d) outside %dx%d grid", x, y, g.W, g.H))
	}
	g.data[g.Index(x, y)] = s
}

// Neighborhood returns the 3x3 window centered on (x, y).
func (g *Grid) Neighborhood(x, y int) Neighborhood {
	var n Neighborhood
	i := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			n[i] = g.Get(x+dx, y+dy)
			i++
		}
	}
	return n
}

// Coords lists every coordinate of the grid exactly once.
func (g *Grid) Coords() []Point {
	pts := make([]Point, 0, len(g.data))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

// Equal reports whether o has the same dimensions and symbols.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i := range g.data {
		if g.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	return &Grid{W: g.W, H: g.H, data: append([]Symbol(nil), g.data...)}
}

// CopyFrom overwrites g with the contents of src. Both grids must have the
// same dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	if g.W != src.W || g.H != src.H {
		panic(fmt.Sprintf("core: CopyFrom %dx%d into %dx%d", src.W, src.H, g.W, g.H))
	}
	copy(g.data, src.data)
}

// Fill sets every cell to s.
func (g *Grid) Fill(s Symbol) {
	for i := range g.data {
		g.data[i] = s
	}
}

// Rows renders the grid as one string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.H)
	for y := range rows {
		b := make([]byte, g.W)
		for x := range b {
			b[x] = byte(g.data[g.Index(x, y)])
		}
		rows[y] = string(b)
	}
	return rows
}

// Key returns the grid contents as a string suitable for map keys.
func (g *Grid) Key() string {
	b := make([]byte, len(g.data))
	for i, s := range g.data {
		b[i] = byte(s)
	}
	return string(b)
}

func (g *Grid) String() string { return strings.Join(g.Rows(), "\n") }
