package play

import (
	"errors"
	"fmt"
	"log/slog"

	"cellrules/internal/core"
	"cellrules/internal/level"
	"cellrules/internal/rewrite"
)

// Recorder persists player progress. progress.Store implements it.
type Recorder interface {
	SaveRules(pack string, id int, rules []rewrite.Rule) error
	LoadRules(pack string, id int) ([]rewrite.Rule, bool, error)
	MarkSolved(pack string, id, steps int, rules []rewrite.Rule) (bool, error)
}

// Direction is a cursor move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Controller holds the host-independent part of the game: the campaign, the
// editor cursor and whether the simulation animates. Terminal and window
// hosts translate their input into Controller calls and draw what it
// exposes. It is not safe for concurrent use.
type Controller struct {
	camp      *Campaign
	cursor    Cursor
	animating bool
	rec       Recorder
	log       *slog.Logger

	recorded bool
	message  string
}

// NewController starts on the campaign's current level, restoring saved rules
// when rec has any. rec may be nil.
func NewController(c *Campaign, rec Recorder, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	ctl := &Controller{camp: c, rec: rec, log: log}
	ctl.enter()
	return ctl
}

func (c *Controller) Campaign() *Campaign { return c.camp }
func (c *Controller) Session() *Session   { return c.camp.Session() }
func (c *Controller) Cursor() Cursor      { return c.cursor }
func (c *Controller) Animating() bool     { return c.animating }

// Message is a one-line status for the host to show; empty when there is
// nothing to say.
func (c *Controller) Message() string { return c.message }

// PackName is the key progress is recorded under.
func (c *Controller) PackName() string {
	if n := c.camp.Pack().Name; n != "" {
		return n
	}
	return "default"
}

// enter prepares the current level: cursor home, animation off, saved rules
// restored.
func (c *Controller) enter() {
	c.cursor = Cursor{Area: AreaPattern}.Clamp(c.Session().Level().Auto.Len())
	c.animating = false
	c.recorded = false
	c.message = c.Session().Level().Hint

	lvl := c.Session().Level()
	if c.rec == nil {
		return
	}
	rules, ok, err := c.rec.LoadRules(c.PackName(), lvl.ID)
	if err != nil {
		c.log.Warn("load saved rules", "level", lvl.ID, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := c.Session().LoadRules(rules); err != nil {
		c.log.Warn("saved rules no longer fit level", "level", lvl.ID, "error", err)
		return
	}
	c.log.Debug("restored saved rules", "level", lvl.ID)
}

// SetCursor jumps the editor cursor, e.g. to a clicked cell.
func (c *Controller) SetCursor(cur Cursor) {
	if cur.Area == AreaState {
		cur.Rule = c.cursor.Rule
		c.cursor = cur
	} else {
		c.cursor = cur.Clamp(c.Session().Level().Auto.Len())
	}
	c.leaveEditor()
}

// Move moves the editor cursor.
func (c *Controller) Move(d Direction) {
	n := c.Session().Level().Auto.Len()
	switch d {
	case Up:
		c.cursor = c.cursor.Up()
	case Down:
		c.cursor = c.cursor.Down()
	case Left:
		c.cursor = c.cursor.Left(n)
	case Right:
		c.cursor = c.cursor.Right(n)
	}
	c.leaveEditor()
}

// leaveEditor ends an edit once the cursor is back on the state row.
func (c *Controller) leaveEditor() {
	if c.cursor.Area == AreaState {
		c.Session().EndEdit()
	}
}

// Type writes sym under the cursor. Edits to locked rules are refused with a
// message rather than an error. A successful write restarts the simulation
// and holds it in the editing state until the cursor returns to the state
// row.
func (c *Controller) Type(sym core.Symbol) {
	if c.cursor.Area == AreaState {
		return
	}
	err := c.Session().Write(c.cursor, sym)
	switch {
	case errors.Is(err, rewrite.ErrLocked):
		c.message = "that rule is locked"
		return
	case err != nil:
		c.message = err.Error()
		return
	}
	c.Session().BeginEdit()
	c.recorded = false
	c.message = ""
	r, _ := c.Session().Level().Auto.Rule(c.cursor.Rule)
	if r.UnboundReplace() {
		c.message = fmt.Sprintf("%c is not captured by the pattern and will be written as is", r.Replace)
	}
	c.save()
}

// Space writes a blank on a rule cell and toggles animation on the state row.
func (c *Controller) Space() {
	if c.cursor.Area == AreaState {
		c.animating = !c.animating
		return
	}
	c.Type(core.Blank)
}

// SetAnimating turns stepping on timer ticks on or off.
func (c *Controller) SetAnimating(on bool) { c.animating = on }

// Sim is the current level's simulation as hosts draw and drive it.
func (c *Controller) Sim() core.Sim { return c.camp.Session() }

// ResetSim puts the start grid back.
func (c *Controller) ResetSim() {
	c.Sim().Reset()
	c.recorded = false
	c.message = ""
}

// StepOnce advances one generation regardless of animation.
func (c *Controller) StepOnce() bool {
	moved := c.Sim().Step()
	c.checkSolved()
	return moved
}

// Tick is called by the host timer. It reports whether the grid changed.
func (c *Controller) Tick() bool {
	if !c.animating {
		return false
	}
	return c.StepOnce()
}

func (c *Controller) checkSolved() {
	s := c.Session()
	if s.Status() != StatusSolved || c.recorded {
		return
	}
	c.recorded = true
	c.animating = false
	lvl := s.Level()
	c.message = fmt.Sprintf("solved in %d steps", s.Steps())
	if !c.camp.Last() {
		c.message += ", press n for the next level"
	}
	c.log.Info("level solved", "level", lvl.ID, "steps", s.Steps())
	if c.rec == nil {
		return
	}
	best, err := c.rec.MarkSolved(c.PackName(), lvl.ID, s.Steps(), lvl.Auto.Rules())
	if err != nil {
		c.log.Warn("record solve", "level", lvl.ID, "error", err)
		return
	}
	if best {
		c.message += " (best)"
	}
}

func (c *Controller) save() {
	if c.rec == nil {
		return
	}
	lvl := c.Session().Level()
	if err := c.rec.SaveRules(c.PackName(), lvl.ID, lvl.Auto.Rules()); err != nil {
		c.log.Warn("save rules", "level", lvl.ID, "error", err)
	}
}

// NextLevel switches to the following level.
func (c *Controller) NextLevel() bool {
	if !c.camp.Next() {
		return false
	}
	c.enter()
	return true
}

// PrevLevel switches to the preceding level.
func (c *Controller) PrevLevel() bool {
	if !c.camp.Prev() {
		return false
	}
	c.enter()
	return true
}

// Reload swaps in an edited pack, e.g. from level.Watch.
func (c *Controller) Reload(p *level.Pack) error {
	if err := c.camp.Reload(p); err != nil {
		return err
	}
	c.enter()
	c.message = "level pack reloaded"
	return nil
}
