// Package render turns grids of symbols into pixels.
package render

import (
	"image/color"

	"cellrules/internal/core"
)

// Palette maps symbols to colors. Symbols without an entry get a stable color
// derived from their value so every glyph stays distinguishable.
type Palette struct {
	Blank  color.RGBA
	Colors map[core.Symbol]color.RGBA
}

// DefaultPalette returns the palette used by the window host.
func DefaultPalette() Palette {
	return Palette{
		Blank: color.RGBA{R: 16, G: 16, B: 20, A: 255},
		Colors: map[core.Symbol]color.RGBA{
			'.': {R: 90, G: 90, B: 110, A: 255},
			'x': {R: 240, G: 200, B: 60, A: 255},
			'#': {R: 200, G: 200, B: 210, A: 255},
		},
	}
}

// Color returns the color for s.
func (p Palette) Color(s core.Symbol) color.RGBA {
	if s == core.Blank {
		return p.Blank
	}
	if c, ok := p.Colors[s]; ok {
		return c
	}
	return hashColor(s)
}

// hashColor spreads symbols around the hue wheel using the golden angle.
func hashColor(s core.Symbol) color.RGBA {
	hue := float64(int(s)*137%360) / 60
	sector := int(hue)
	f := hue - float64(sector)
	const hi, lo = 230, 70
	mid := uint8(lo + f*(hi-lo))
	inv := uint8(hi - f*(hi-lo))
	switch sector {
	case 0:
		return color.RGBA{R: hi, G: mid, B: lo, A: 255}
	case 1:
		return color.RGBA{R: inv, G: hi, B: lo, A: 255}
	case 2:
		return color.RGBA{R: lo, G: hi, B: mid, A: 255}
	case 3:
		return color.RGBA{R: lo, G: inv, B: hi, A: 255}
	case 4:
		return color.RGBA{R: mid, G: lo, B: hi, A: 255}
	default:
		return color.RGBA{R: hi, G: lo, B: inv, A: 255}
	}
}

// fillSymbolRGBA converts cells into RGBA pixels in buf, one pixel per cell.
func fillSymbolRGBA(buf []byte, cells []core.Symbol, pal Palette) {
	for i, s := range cells {
		base := i * 4
		col := pal.Color(s)
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
