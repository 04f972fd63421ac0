//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"cellrules/internal/core"
)

// minGlyphScale is the smallest cell size that still fits a 7x13 glyph.
const minGlyphScale = 14

// Overlay prints each cell's symbol on top of the colored grid panes. F1
// toggles it.
type Overlay struct {
	show bool
}

// NewOverlay constructs an overlay, visible by default.
func NewOverlay() *Overlay { return &Overlay{show: true} }

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.show = !o.show
	}
}

// Draw prints the glyphs of grids, one per pane in layout order.
func (o *Overlay) Draw(screen *ebiten.Image, l Layout, grids ...*core.Grid) {
	if !o.show || l.Scale < minGlyphScale {
		return
	}
	face := basicfont.Face7x13
	shadow := color.RGBA{A: 200}
	for i, g := range grids {
		if i >= len(l.GridX) {
			break
		}
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				s := g.Get(x, y)
				if s == core.Blank {
					continue
				}
				label := string(rune(s))
				px := l.GridX[i] + x*l.Scale + (l.Scale-7)/2
				py := l.GridY + y*l.Scale + (l.Scale+10)/2
				text.Draw(screen, label, face, px+1, py+1, shadow)
				text.Draw(screen, label, face, px, py, color.White)
			}
		}
	}
}
