// Package level holds the puzzle definitions: a start grid, a goal grid and
// the rules the player edits to turn one into the other. It also reads and
// writes level packs from disk.
package level

import (
	"errors"
	"fmt"

	"cellrules/internal/core"
	"cellrules/internal/rewrite"
)

var (
	// ErrInvalidLevel reports a level that fails validation.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrDuplicateID reports two levels sharing an id within a pack.
	ErrDuplicateID = errors.New("duplicate level id")
	// ErrNotFound reports a lookup for an id the pack does not contain.
	ErrNotFound = errors.New("level not found")
)

// Level is one puzzle. Start and Goal are fixed once loaded; Auto is what the
// player edits.
type Level struct {
	ID   int
	Name string
	Hint string

	Start *core.Grid
	Goal  *core.Grid
	Auto  *rewrite.Automaton

	// Solution is an optional author reference rule set used to check that
	// the level can be solved. Players never see it.
	Solution []rewrite.Rule
}

// New builds a level from its grids and an initial rule set.
func New(id int, start, goal *core.Grid, rules ...rewrite.Rule) *Level {
	return &Level{ID: id, Start: start, Goal: goal, Auto: rewrite.New(rules...)}
}

// Title returns the display name, falling back to the id.
func (l *Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("Level %d", l.ID)
}

// Clone returns a copy whose automaton can be edited independently. The
// grids are shared because they never change after load.
func (l *Level) Clone() *Level {
	c := *l
	c.Auto = l.Auto.Clone()
	c.Solution = append([]rewrite.Rule(nil), l.Solution...)
	return &c
}

// Validate checks the invariants the core relies on.
func (l *Level) Validate() error {
	var errs []error
	if l.Start == nil {
		errs = append(errs, errors.New("missing start grid"))
	}
	if l.Goal == nil {
		errs = append(errs, errors.New("missing goal grid"))
	}
	if l.Start != nil && l.Goal != nil && l.Start.Size() != l.Goal.Size() {
		errs = append(errs, fmt.Errorf("start is %dx%d but goal is %dx%d", l.Start.W, l.Start.H, l.Goal.W, l.Goal.H))
	}
	if l.Auto == nil {
		errs = append(errs, errors.New("missing automaton"))
	} else {
		errs = append(errs, validateRules("rule", l.Auto.Rules())...)
	}
	errs = append(errs, validateRules("solution rule", l.Solution)...)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w %d: %w", ErrInvalidLevel, l.ID, errors.Join(errs...))
}

func validateRules(kind string, rules []rewrite.Rule) []error {
	var errs []error
	for i, r := range rules {
		for cell, s := range r.Pattern {
			if !core.Printable(s) {
				errs = append(errs, fmt.Errorf("%s %d cell %d: %w", kind, i, cell, rewrite.ErrInvalidSymbol))
			}
		}
		if !core.Printable(r.Replace) {
			errs = append(errs, fmt.Errorf("%s %d replace: %w", kind, i, rewrite.ErrInvalidSymbol))
		}
	}
	return errs
}

// Pack is an ordered collection of levels.
type Pack struct {
	Name   string
	Levels []*Level
}

// Validate checks every level and that ids are unique.
func (p *Pack) Validate() error {
	var errs []error
	seen := make(map[int]bool, len(p.Levels))
	for _, l := range p.Levels {
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateID, l.ID))
		}
		seen[l.ID] = true
		if err := l.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Find returns the level with the given id and its position in the pack.
func (p *Pack) Find(id int) (*Level, int, error) {
	for i, l := range p.Levels {
		if l.ID == id {
			return l, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %d", ErrNotFound, id)
}
