//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"cellrules/internal/core"
	"cellrules/internal/play"
)

var (
	panelBG    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	boxBG      = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	lockedBG   = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	cursorBG   = color.RGBA{R: 64, G: 140, B: 220, A: 255}
	glyphFG    = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	dimFG      = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	titleFG    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	solvedFG   = color.RGBA{R: 90, G: 210, B: 120, A: 255}
	messageFG  = color.RGBA{R: 240, G: 180, B: 60, A: 255}
	wildcardFG = color.RGBA{R: 150, G: 150, B: 165, A: 255}
	variableFG = color.RGBA{R: 120, G: 200, B: 255, A: 255}
)

// HUD draws everything except the grid pixels: title, rule editor, pane
// titles and the status line.
type HUD struct {
	pixel *ebiten.Image
}

// NewHUD constructs a HUD.
func NewHUD() *HUD {
	h := &HUD{pixel: ebiten.NewImage(1, 1)}
	h.pixel.Fill(color.White)
	return h
}

// Draw paints the HUD for the controller's current state.
func (h *HUD) Draw(screen *ebiten.Image, l Layout, ctl *play.Controller) {
	screen.Fill(panelBG)
	face := basicfont.Face7x13
	s := ctl.Session()
	camp := ctl.Campaign()
	lvl := s.Level()

	title := fmt.Sprintf("%s  (%d/%d)", lvl.Title(), camp.Index()+1, camp.Len())
	text.Draw(screen, title, face, padding, padding+10, titleFG)

	cur := ctl.Cursor()
	for i, r := range lvl.Auto.Rules() {
		bg := boxBG
		if r.Locked {
			bg = lockedBG
		}
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				sel := cur.Area == play.AreaPattern && cur.Rule == i && cur.X == x && cur.Y == y
				h.drawGlyph(screen, l.PatternRect(i, x, y), r.Pattern[x+y*3], bg, sel)
			}
		}
		rr := l.ReplaceRect(i)
		text.Draw(screen, "v", face, rr.Min.X+6, rr.Min.Y-3, dimFG)
		h.drawGlyph(screen, rr, r.Replace, bg, cur.Area == play.AreaReplace && cur.Rule == i)
	}

	labels := [3]string{"Start", fmt.Sprintf("Step %d", s.Steps()), "Goal"}
	for i, label := range labels {
		fg := titleFG
		if i == 1 && cur.Area == play.AreaState {
			fg = cursorBG
		}
		text.Draw(screen, label, face, l.GridX[i], l.GridY-4, fg)
	}

	status := fmt.Sprintf("%s  step %d", s.Status(), s.Steps())
	if ctl.Animating() {
		status += "  animating"
	}
	fg := titleFG
	if s.Status() == play.StatusSolved {
		fg = solvedFG
	}
	text.Draw(screen, status, face, padding, l.StatusY+12, fg)
	if msg := ctl.Message(); msg != "" {
		text.Draw(screen, msg, face, padding, l.StatusY+30, messageFG)
	}
}

func (h *HUD) fill(dst *ebiten.Image, rect image.Rectangle, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(h.pixel, op)
}

func (h *HUD) drawGlyph(dst *ebiten.Image, rect image.Rectangle, s core.Symbol, bg color.RGBA, selected bool) {
	if selected {
		bg = cursorBG
	}
	h.fill(dst, rect.Inset(1), bg)
	if s == core.Blank {
		return
	}
	fg := glyphFG
	switch {
	case s == '_':
		fg = wildcardFG
	case s >= 'A' && s <= 'Z':
		fg = variableFG
	}
	face := basicfont.Face7x13
	label := string(rune(s))
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(dst, label, face, x, y, fg)
}
