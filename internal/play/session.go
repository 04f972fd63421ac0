// Package play drives a level: it steps the player's rules from the start
// grid towards the goal, resets whenever the rules change and reports when
// the goal is reached.
package play

import (
	"fmt"

	"cellrules/internal/core"
	"cellrules/internal/level"
	"cellrules/internal/rewrite"
)

// Status is the state of a Session.
type Status int

const (
	// StatusRunning means the current grid differs from the goal.
	StatusRunning Status = iota
	// StatusSolved means the current grid equals the goal.
	StatusSolved
	// StatusEditing means the player is changing rules; stepping is paused.
	StatusEditing
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSolved:
		return "solved"
	case StatusEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Session steps one level. It is not safe for concurrent use; see Loop for a
// single-owner wrapper.
type Session struct {
	lvl     *level.Level
	cur     *core.Grid
	nxt     *core.Grid
	steps   int
	editing bool
}

// NewSession starts lvl from its start grid. The session edits lvl.Auto in
// place; pass a clone to keep the original untouched.
func NewSession(lvl *level.Level) *Session {
	s := &Session{
		lvl: lvl,
		cur: lvl.Start.Clone(),
		nxt: core.NewGrid(lvl.Start.W, lvl.Start.H),
	}
	return s
}

// Level returns the level being played.
func (s *Session) Level() *level.Level { return s.lvl }

// Current returns the current generation. Callers must not modify it.
func (s *Session) Current() *core.Grid { return s.cur }

// Steps returns the number of generations since the last reset.
func (s *Session) Steps() int { return s.steps }

// Solved reports whether the current grid equals the goal.
func (s *Session) Solved() bool { return s.cur.Equal(s.lvl.Goal) }

// Status reports the session state.
func (s *Session) Status() Status {
	switch {
	case s.editing:
		return StatusEditing
	case s.Solved():
		return StatusSolved
	default:
		return StatusRunning
	}
}

// Reset puts the start grid back and zeroes the step count.
func (s *Session) Reset() {
	s.cur.CopyFrom(s.lvl.Start)
	s.steps = 0
}

// Advance steps one generation. Once the goal is reached, or while editing,
// it does nothing and reports false.
func (s *Session) Advance() bool {
	if s.editing || s.Solved() {
		return false
	}
	s.lvl.Auto.StepInto(s.nxt, s.cur)
	s.cur, s.nxt = s.nxt, s.cur
	s.steps++
	return true
}

// BeginEdit pauses stepping until an edit lands or EndEdit is called.
func (s *Session) BeginEdit() { s.editing = true }

// EndEdit resumes stepping without changing anything.
func (s *Session) EndEdit() { s.editing = false }

// edit applies fn to the automaton. A successful edit restarts the
// simulation from the start grid so no stale generation is shown against the
// new rules.
func (s *Session) edit(fn func(a *rewrite.Automaton) error) error {
	if err := fn(s.lvl.Auto); err != nil {
		return err
	}
	s.editing = false
	s.Reset()
	return nil
}

// SetPatternCell overwrites one pattern cell of rule i.
func (s *Session) SetPatternCell(i, cell int, sym core.Symbol) error {
	return s.edit(func(a *rewrite.Automaton) error { return a.SetPatternCell(i, cell, sym) })
}

// SetReplace overwrites the replacement symbol of rule i.
func (s *Session) SetReplace(i int, sym core.Symbol) error {
	return s.edit(func(a *rewrite.Automaton) error { return a.SetReplace(i, sym) })
}

// AppendRule adds r as the lowest-priority rule.
func (s *Session) AppendRule(r rewrite.Rule) error {
	return s.edit(func(a *rewrite.Automaton) error { a.Append(r); return nil })
}

// ReplaceRule overwrites rule i.
func (s *Session) ReplaceRule(i int, r rewrite.Rule) error {
	return s.edit(func(a *rewrite.Automaton) error { return a.Replace(i, r) })
}

// RemoveRule deletes rule i.
func (s *Session) RemoveRule(i int) error {
	return s.edit(func(a *rewrite.Automaton) error { return a.Remove(i) })
}

// MoveRule changes the priority of rule from to position to.
func (s *Session) MoveRule(from, to int) error {
	return s.edit(func(a *rewrite.Automaton) error { return a.Move(from, to) })
}

// LoadRules swaps in a whole rule set, e.g. one restored from saved progress.
// Locked rules of the level are kept where they are; rules must have the same
// length as the level's automaton.
func (s *Session) LoadRules(rules []rewrite.Rule) error {
	return s.edit(func(a *rewrite.Automaton) error {
		if len(rules) != a.Len() {
			return fmt.Errorf("%w: have %d rules, got %d", rewrite.ErrRuleIndex, a.Len(), len(rules))
		}
		for i, r := range rules {
			cur, _ := a.Rule(i)
			if cur.Locked {
				continue
			}
			r.Locked = false
			if err := a.Replace(i, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// Name implements core.Sim.
func (s *Session) Name() string { return s.lvl.Title() }

// Size implements core.Sim.
func (s *Session) Size() core.Size { return s.cur.Size() }

// Step implements core.Sim.
func (s *Session) Step() bool { return s.Advance() }

// Cells implements core.Sim.
func (s *Session) Cells() []core.Symbol { return s.cur.Cells() }

var _ core.Sim = (*Session)(nil)
