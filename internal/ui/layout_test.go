package ui

import (
	"testing"

	"cellrules/internal/core"
	"cellrules/internal/play"
)

func TestLayoutFitsEverything(t *testing.T) {
	l := ComputeLayout(core.Size{W: 7, H: 7}, 2, 24)
	for i := 0; i < 3; i++ {
		r := l.GridRect(i)
		if r.Min.X < 0 || r.Max.X > l.W {
			t.Fatalf("grid %d at %v outside width %d", i, r, l.W)
		}
		if r.Max.Y > l.StatusY {
			t.Fatalf("grid %d overlaps status line", i)
		}
	}
	if r := l.ReplaceRect(1); r.Max.X > l.W || r.Max.Y > l.GridY {
		t.Fatalf("replace box %v outside rule area", r)
	}
	if l.GridX[1] <= l.GridX[0] || l.GridX[2] <= l.GridX[1] {
		t.Fatalf("grid panes out of order: %v", l.GridX)
	}
}

func TestLayoutHitTest(t *testing.T) {
	l := ComputeLayout(core.Size{W: 5, H: 4}, 3, 10)

	r := l.PatternRect(2, 1, 2)
	c, ok := l.HitTest(r.Min.X+1, r.Min.Y+1)
	if !ok || c != (play.Cursor{Area: play.AreaPattern, Rule: 2, X: 1, Y: 2}) {
		t.Fatalf("pattern hit = %v, %v", c, ok)
	}

	r = l.ReplaceRect(0)
	c, ok = l.HitTest(r.Min.X, r.Min.Y)
	if !ok || c.Area != play.AreaReplace || c.Rule != 0 {
		t.Fatalf("replace hit = %v, %v", c, ok)
	}

	r = l.GridRect(2)
	c, ok = l.HitTest(r.Max.X-1, r.Max.Y-1)
	if !ok || c.Area != play.AreaState {
		t.Fatalf("grid hit = %v, %v", c, ok)
	}

	if _, ok := l.HitTest(0, 0); ok {
		t.Fatal("corner should not hit anything")
	}
}

func TestLayoutNoRules(t *testing.T) {
	l := ComputeLayout(core.Size{W: 1, H: 1}, 0, 0)
	if l.Scale != 1 || l.W < minWidth {
		t.Fatalf("unexpected layout %+v", l)
	}
}
