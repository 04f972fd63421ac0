// Package ui positions and draws the window host's panels: the rule editor
// on top, the start, current and goal grids below and a status line.
package ui

import (
	"image"

	"cellrules/internal/core"
	"cellrules/internal/play"
)

const (
	padding   = 12
	titleH    = 16
	glyphCell = 18
	arrowH    = 14
	ruleGap   = 10
	gridGap   = 16
	statusH   = 44
	minWidth  = 360
)

// Layout holds pixel positions for one level. Everything is derived from the
// grid size, the number of rules and the cell scale.
type Layout struct {
	Scale int
	Rules int
	Grid  core.Size

	RulesX, RulesY int
	GridX          [3]int
	GridY          int
	StatusY        int
	W, H           int
}

// ComputeLayout lays out a level with the given number of rules.
func ComputeLayout(grid core.Size, rules, scale int) Layout {
	if scale <= 0 {
		scale = 1
	}
	l := Layout{Scale: scale, Rules: rules, Grid: grid}

	rulesW := l.rulesWidth()
	gridW := grid.W * scale
	gridsW := 3*gridW + 2*gridGap
	l.W = max(rulesW, gridsW, minWidth) + 2*padding

	l.RulesX = (l.W - rulesW) / 2
	l.RulesY = padding + titleH
	l.GridY = l.RulesY + ruleBoxH() + padding + titleH
	left := (l.W - gridsW) / 2
	for i := range l.GridX {
		l.GridX[i] = left + i*(gridW+gridGap)
	}
	l.StatusY = l.GridY + grid.H*scale + padding
	l.H = l.StatusY + statusH
	return l
}

func ruleBoxW() int { return 3 * glyphCell }
func ruleBoxH() int { return 3*glyphCell + arrowH + glyphCell }

func (l Layout) rulesWidth() int {
	if l.Rules == 0 {
		return 0
	}
	return l.Rules*ruleBoxW() + (l.Rules-1)*ruleGap
}

// PatternRect is the screen rectangle of pattern cell (x, y) of rule i.
func (l Layout) PatternRect(i, x, y int) image.Rectangle {
	left := l.RulesX + i*(ruleBoxW()+ruleGap) + x*glyphCell
	top := l.RulesY + y*glyphCell
	return image.Rect(left, top, left+glyphCell, top+glyphCell)
}

// ReplaceRect is the screen rectangle of the replacement of rule i.
func (l Layout) ReplaceRect(i int) image.Rectangle {
	left := l.RulesX + i*(ruleBoxW()+ruleGap) + glyphCell
	top := l.RulesY + 3*glyphCell + arrowH
	return image.Rect(left, top, left+glyphCell, top+glyphCell)
}

// GridRect is the screen rectangle of pane i (0 start, 1 current, 2 goal).
func (l Layout) GridRect(i int) image.Rectangle {
	return image.Rect(l.GridX[i], l.GridY, l.GridX[i]+l.Grid.W*l.Scale, l.GridY+l.Grid.H*l.Scale)
}

// HitTest maps a click to a cursor position. Clicking a grid pane selects the
// state row.
func (l Layout) HitTest(px, py int) (play.Cursor, bool) {
	pt := image.Pt(px, py)
	for i := 0; i < l.Rules; i++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				if pt.In(l.PatternRect(i, x, y)) {
					return play.Cursor{Area: play.AreaPattern, Rule: i, X: x, Y: y}, true
				}
			}
		}
		if pt.In(l.ReplaceRect(i)) {
			return play.Cursor{Area: play.AreaReplace, Rule: i}, true
		}
	}
	for i := range l.GridX {
		if pt.In(l.GridRect(i)) {
			return play.Cursor{Area: play.AreaState}, true
		}
	}
	return play.Cursor{}, false
}
