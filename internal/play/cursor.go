package play

import (
	"errors"
	"fmt"

	"cellrules/internal/core"
)

// ErrNotRuleCell is returned when writing a symbol with the cursor on the
// state row.
var ErrNotRuleCell = errors.New("cursor is not on a rule")

// Area is the part of the rule editor a Cursor points into.
type Area int

const (
	AreaPattern Area = iota
	AreaReplace
	AreaState
)

// Cursor is a position in the rule editor. Rule is the index of the rule under
// the cursor; in AreaState it remembers the rule to return to. X and Y address
// a pattern cell and are only meaningful in AreaPattern.
type Cursor struct {
	Area Area
	Rule int
	X, Y int
}

// Cell returns the pattern index under the cursor.
func (c Cursor) Cell() int { return c.X + c.Y*3 }

func (c Cursor) String() string {
	switch c.Area {
	case AreaPattern:
		return fmt.Sprintf("rule %d cell (%d,%d)", c.Rule, c.X, c.Y)
	case AreaReplace:
		return fmt.Sprintf("rule %d replace", c.Rule)
	default:
		return "state"
	}
}

// Up moves one row up: from the state row into the replacement, from the
// replacement into the bottom-centre pattern cell.
func (c Cursor) Up() Cursor {
	switch c.Area {
	case AreaPattern:
		if c.Y > 0 {
			c.Y--
		}
	case AreaReplace:
		c.Area, c.X, c.Y = AreaPattern, 1, 2
	case AreaState:
		c.Area = AreaReplace
	}
	return c
}

// Down is the inverse of Up; it stops on the state row.
func (c Cursor) Down() Cursor {
	switch c.Area {
	case AreaPattern:
		if c.Y < 2 {
			c.Y++
		} else {
			c.Area = AreaReplace
		}
	case AreaReplace:
		c.Area = AreaState
	}
	return c
}

// Left moves one cell left, wrapping into the previous rule. n is the number
// of rules.
func (c Cursor) Left(n int) Cursor {
	if n <= 0 {
		return c
	}
	switch c.Area {
	case AreaPattern:
		if c.X > 0 {
			c.X--
		} else {
			c.Rule, c.X = (c.Rule+n-1)%n, 2
		}
	case AreaReplace:
		c.Rule = (c.Rule + n - 1) % n
	}
	return c
}

// Right moves one cell right, wrapping into the next rule.
func (c Cursor) Right(n int) Cursor {
	if n <= 0 {
		return c
	}
	switch c.Area {
	case AreaPattern:
		if c.X < 2 {
			c.X++
		} else {
			c.Rule, c.X = (c.Rule+1)%n, 0
		}
	case AreaReplace:
		c.Rule = (c.Rule + 1) % n
	}
	return c
}

// Clamp keeps the rule index valid after the rule count changes.
func (c Cursor) Clamp(n int) Cursor {
	switch {
	case n <= 0:
		return Cursor{Area: AreaState}
	case c.Rule >= n:
		c.Rule = n - 1
	case c.Rule < 0:
		c.Rule = 0
	}
	return c
}

// Write puts sym under the cursor: a pattern cell or a replacement.
func (s *Session) Write(c Cursor, sym core.Symbol) error {
	switch c.Area {
	case AreaPattern:
		return s.SetPatternCell(c.Rule, c.Cell(), sym)
	case AreaReplace:
		return s.SetReplace(c.Rule, sym)
	default:
		return ErrNotRuleCell
	}
}
