//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"cellrules/internal/core"
)

// Source is anything with a size and a row-major cell slice: a core.Grid or a
// running core.Sim.
type Source interface {
	Size() core.Size
	Cells() []core.Symbol
}

// GridPainter keeps one RGBA image per grid size and redraws it from cells.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
	pal  Palette
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int, pal Palette) *GridPainter {
	return &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h), img: ebiten.NewImage(w, h), pal: pal}
}

// Blit uploads src into the painter image and draws it at (x, y), each cell
// scale pixels wide.
func (gp *GridPainter) Blit(dst *ebiten.Image, src Source, x, y, scale int) {
	if size := src.Size(); size.W != gp.w || size.H != gp.h {
		gp.w, gp.h = size.W, size.H
		gp.buf = make([]byte, 4*size.W*size.H)
		gp.img = ebiten.NewImage(size.W, size.H)
	}
	fillSymbolRGBA(gp.buf, src.Cells(), gp.pal)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(gp.img, op)
}
