package rewrite

import (
	"errors"
	"fmt"

	"cellrules/internal/core"
)

var (
	// ErrRuleIndex reports a rule index outside the automaton.
	ErrRuleIndex = errors.New("rule index out of range")
	// ErrCellIndex reports a pattern cell index outside 0..8.
	ErrCellIndex = errors.New("pattern cell out of range")
	// ErrLocked reports an edit to a rule the level does not let the player change.
	ErrLocked = errors.New("rule is locked")
)

// Automaton is an ordered list of rules. The first rule matching a
// neighborhood decides the new symbol; later rules are not consulted.
type Automaton struct {
	rules []Rule
}

// New returns an automaton holding a copy of rules in order.
func New(rules ...Rule) *Automaton {
	return &Automaton{rules: append([]Rule(nil), rules...)}
}

// Len returns the number of rules.
func (a *Automaton) Len() int { return len(a.rules) }

// Rules returns a copy of the rules in declaration order.
func (a *Automaton) Rules() []Rule { return append([]Rule(nil), a.rules...) }

// Rule returns the rule at index i.
func (a *Automaton) Rule(i int) (Rule, error) {
	if err := a.checkIndex(i); err != nil {
		return Rule{}, err
	}
	return a.rules[i], nil
}

// Clone returns an independent copy.
func (a *Automaton) Clone() *Automaton { return New(a.rules...) }

// Match returns the replacement chosen by the first matching rule and that
// rule's index.
func (a *Automaton) Match(n core.Neighborhood) (core.Symbol, int, bool) {
	for i, r := range a.rules {
		if s, ok := r.Apply(n); ok {
			return s, i, true
		}
	}
	return 0, -1, false
}

// Step computes the next generation of g. Every cell is evaluated against g
// as it was before the step, so the result does not depend on visiting order.
// Cells no rule matches keep their symbol. g is not modified.
func (a *Automaton) Step(g *core.Grid) *core.Grid {
	next := g.Clone()
	a.stepOrdered(next, g, g.Coords())
	return next
}

// StepInto writes the next generation of src into dst, which must have the
// same dimensions. dst and src must not be the same grid.
func (a *Automaton) StepInto(dst, src *core.Grid) {
	if dst == src {
		panic("rewrite: StepInto with aliased grids")
	}
	dst.CopyFrom(src)
	a.stepOrdered(dst, src, src.Coords())
}

func (a *Automaton) stepOrdered(dst, src *core.Grid, coords []core.Point) {
	for _, p := range coords {
		if s, _, ok := a.Match(src.Neighborhood(p.X, p.Y)); ok {
			dst.Set(p.X, p.Y, s)
		}
	}
}

// Append adds r after the existing rules.
func (a *Automaton) Append(r Rule) { a.rules = append(a.rules, r) }

// Insert places r at index i, shifting later rules down. i may equal Len.
func (a *Automaton) Insert(i int, r Rule) error {
	if i < 0 || i > len(a.rules) {
		return fmt.Errorf("%w: insert at %d with %d rules", ErrRuleIndex, i, len(a.rules))
	}
	a.rules = append(a.rules, Rule{})
	copy(a.rules[i+1:], a.rules[i:])
	a.rules[i] = r
	return nil
}

// Replace overwrites the rule at index i.
func (a *Automaton) Replace(i int, r Rule) error {
	if err := a.checkEditable(i); err != nil {
		return err
	}
	a.rules[i] = r
	return nil
}

// Remove deletes the rule at index i.
func (a *Automaton) Remove(i int) error {
	if err := a.checkEditable(i); err != nil {
		return err
	}
	a.rules = append(a.rules[:i], a.rules[i+1:]...)
	return nil
}

// Move relocates the rule at index from to index to, changing its priority.
// A locked rule keeps its place relative to every other rule, so no locked
// rule may sit between from and to.
func (a *Automaton) Move(from, to int) error {
	if err := a.checkEditable(from); err != nil {
		return err
	}
	if err := a.checkIndex(to); err != nil {
		return err
	}
	lo, hi := min(from, to), max(from, to)
	for i := lo; i <= hi; i++ {
		if a.rules[i].Locked {
			return fmt.Errorf("%w: rule %d would change priority", ErrLocked, i)
		}
	}
	r := a.rules[from]
	if from < to {
		copy(a.rules[from:to], a.rules[from+1:to+1])
	} else {
		copy(a.rules[to+1:from+1], a.rules[to:from])
	}
	a.rules[to] = r
	return nil
}

// SetPatternCell overwrites one pattern cell (col + row*3) of rule i.
func (a *Automaton) SetPatternCell(i, cell int, s core.Symbol) error {
	if err := a.checkEditable(i); err != nil {
		return err
	}
	if cell < 0 || cell >= core.NeighborhoodSize {
		return fmt.Errorf("%w: %d", ErrCellIndex, cell)
	}
	if !core.Printable(s) {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidSymbol, byte(s))
	}
	a.rules[i].Pattern[cell] = s
	return nil
}

// SetReplace overwrites the replacement symbol of rule i.
func (a *Automaton) SetReplace(i int, s core.Symbol) error {
	if err := a.checkEditable(i); err != nil {
		return err
	}
	if !core.Printable(s) {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidSymbol, byte(s))
	}
	a.rules[i].Replace = s
	return nil
}

func (a *Automaton) checkIndex(i int) error {
	if i < 0 || i >= len(a.rules) {
		return fmt.Errorf("%w: %d with %d rules", ErrRuleIndex, i, len(a.rules))
	}
	return nil
}

func (a *Automaton) checkEditable(i int) error {
	if err := a.checkIndex(i); err != nil {
		return err
	}
	if a.rules[i].Locked {
		return fmt.Errorf("%w: rule %d", ErrLocked, i)
	}
	return nil
}
