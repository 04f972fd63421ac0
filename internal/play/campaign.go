package play

import (
	"errors"

	"cellrules/internal/level"
)

// ErrEmptyPack is returned when a campaign is started on a pack without levels.
var ErrEmptyPack = errors.New("play: pack has no levels")

// Campaign walks the levels of a pack in order. Each level is played on a
// clone so the pack itself is never edited.
type Campaign struct {
	pack *level.Pack
	idx  int
	sess *Session
}

// NewCampaign starts at the first level of p.
func NewCampaign(p *level.Pack) (*Campaign, error) {
	if p == nil || len(p.Levels) == 0 {
		return nil, ErrEmptyPack
	}
	c := &Campaign{pack: p}
	c.enter(0)
	return c, nil
}

// Pack returns the pack being played.
func (c *Campaign) Pack() *level.Pack { return c.pack }

// Session returns the session for the current level.
func (c *Campaign) Session() *Session { return c.sess }

// Index returns the position of the current level in the pack.
func (c *Campaign) Index() int { return c.idx }

// Len returns the number of levels.
func (c *Campaign) Len() int { return len(c.pack.Levels) }

// Last reports whether the current level is the final one.
func (c *Campaign) Last() bool { return c.idx == len(c.pack.Levels)-1 }

// Next moves to the following level. It reports false on the last level.
func (c *Campaign) Next() bool {
	if c.Last() {
		return false
	}
	c.enter(c.idx + 1)
	return true
}

// Prev moves to the preceding level. It reports false on the first level.
func (c *Campaign) Prev() bool {
	if c.idx == 0 {
		return false
	}
	c.enter(c.idx - 1)
	return true
}

// Goto jumps to the level with the given id.
func (c *Campaign) Goto(id int) error {
	_, idx, err := c.pack.Find(id)
	if err != nil {
		return err
	}
	c.enter(idx)
	return nil
}

// Reload swaps in a new version of the pack, staying on the same level id
// when it still exists. The player's rules for that level are replaced by the
// pack's.
func (c *Campaign) Reload(p *level.Pack) error {
	if p == nil || len(p.Levels) == 0 {
		return ErrEmptyPack
	}
	id := c.sess.Level().ID
	c.pack = p
	if _, idx, err := p.Find(id); err == nil {
		c.enter(idx)
		return nil
	}
	c.enter(min(c.idx, len(p.Levels)-1))
	return nil
}

func (c *Campaign) enter(idx int) {
	c.idx = idx
	c.sess = NewSession(c.pack.Levels[idx].Clone())
}
