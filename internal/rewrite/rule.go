// Package rewrite implements the rule-matching automaton: 3x3 patterns with
// wildcards and variables that rewrite a cell, and the ordered rule list that
// steps a whole grid one generation at a time.
package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"cellrules/internal/core"
)

// Wildcard matches any neighbor symbol and binds nothing.
const Wildcard core.Symbol = '_'

var (
	// ErrPatternLength reports a pattern that is not exactly 3x3.
	ErrPatternLength = errors.New("pattern must have 9 symbols")
	// ErrInvalidSymbol reports a non-printable or multi-byte symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// IsVariable reports whether s binds to the neighbor it is matched against.
func IsVariable(s core.Symbol) bool { return s >= 'A' && s <= 'Z' }

// IsWildcard reports whether s matches anything.
func IsWildcard(s core.Symbol) bool { return s == Wildcard }

// Pattern is a 3x3 template indexed col + row*3, the same order as
// core.Neighborhood.
type Pattern [core.NeighborhoodSize]core.Symbol

// ParsePattern reads a pattern from 9 symbols, or from three rows separated by
// '/' or newlines.
func ParsePattern(s string) (Pattern, error) {
	if len(s) != core.NeighborhoodSize && strings.ContainsAny(s, "/\n") {
		return ParsePatternRows(strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\n' }))
	}
	var p Pattern
	if len(s) != core.NeighborhoodSize {
		return p, fmt.Errorf("%w: got %d", ErrPatternLength, len(s))
	}
	for i := 0; i < len(s); i++ {
		sym := core.Symbol(s[i])
		if !core.Printable(sym) {
			return p, fmt.Errorf("%w: pattern cell %d is 0x%02x", ErrInvalidSymbol, i, s[i])
		}
		p[i] = sym
	}
	return p, nil
}

// ParsePatternRows reads a pattern from exactly three rows of three symbols.
func ParsePatternRows(rows []string) (Pattern, error) {
	if len(rows) != 3 {
		return Pattern{}, fmt.Errorf("%w: got %d rows, want 3", ErrPatternLength, len(rows))
	}
	for i, row := range rows {
		if len(row) != 3 {
			return Pattern{}, fmt.Errorf("%w: row %d has %d symbols, want 3", ErrPatternLength, i, len(row))
		}
	}
	return ParsePattern(rows[0] + rows[1] + rows[2])
}

// Rows renders the pattern as three rows of three symbols.
func (p Pattern) Rows() []string {
	rows := make([]string, 3)
	for r := range rows {
		rows[r] = string([]byte{byte(p[r*3]), byte(p[r*3+1]), byte(p[r*3+2])})
	}
	return rows
}

func (p Pattern) String() string { return strings.Join(p.Rows(), "/") }

// ParseSymbol reads a replacement symbol, which must be exactly one
// printable byte.
func ParseSymbol(s string) (core.Symbol, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q is not a single symbol", ErrInvalidSymbol, s)
	}
	sym := core.Symbol(s[0])
	if !core.Printable(sym) {
		return 0, fmt.Errorf("%w: 0x%02x is not printable", ErrInvalidSymbol, s[0])
	}
	return sym, nil
}

// Rule rewrites the center of a matching neighborhood to Replace.
type Rule struct {
	Pattern Pattern
	Replace core.Symbol
	// Locked rules are part of the level and cannot be edited by the player.
	Locked bool
}

// NewRule parses pattern (see ParsePattern) and replace into a Rule.
func NewRule(pattern string, replace string) (Rule, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return Rule{}, err
	}
	r, err := ParseSymbol(replace)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Pattern: p, Replace: r}, nil
}

// MustRule is NewRule for literals known to be valid.
func MustRule(pattern string, replace string) Rule {
	r, err := NewRule(pattern, replace)
	if err != nil {
		panic(fmt.Sprintf("rewrite: MustRule(%q, %q): %v", pattern, replace, err))
	}
	return r
}

// BlankRule returns an all-blank rule producing blank, the starting point for
// player-authored rules.
func BlankRule() Rule {
	var r Rule
	for i := range r.Pattern {
		r.Pattern[i] = core.Blank
	}
	r.Replace = core.Blank
	return r
}

// Apply matches the rule against n. On success it returns the replacement:
// the symbol bound to Replace when Replace is a variable bound by this match,
// otherwise Replace itself.
func (r Rule) Apply(n core.Neighborhood) (core.Symbol, bool) {
	var (
		bound [26]core.Symbol
		set   uint32
	)
	for i, p := range r.Pattern {
		got := n[i]
		switch {
		case IsWildcard(p):
		case IsVariable(p):
			bit := uint32(1) << (p - 'A')
			if set&bit == 0 {
				bound[p-'A'] = got
				set |= bit
			} else if bound[p-'A'] != got {
				return 0, false
			}
		default:
			if p != got {
				return 0, false
			}
		}
	}
	if IsVariable(r.Replace) && set&(uint32(1)<<(r.Replace-'A')) != 0 {
		return bound[r.Replace-'A'], true
	}
	return r.Replace, true
}

// UnboundReplace reports whether Replace is a variable the pattern never
// binds. Such a rule emits the letter itself, which is legal but rarely what
// the author meant.
func (r Rule) UnboundReplace() bool {
	if !IsVariable(r.Replace) {
		return false
	}
	for _, p := range r.Pattern {
		if p == r.Replace {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	s := fmt.Sprintf("%s -> %q", r.Pattern, byte(r.Replace))
	if r.Locked {
		s += " (locked)"
	}
	return s
}
