package play

import (
	"context"
	"errors"
	"time"

	"cellrules/internal/core"
)

// ErrLoopStopped is returned by Do once Run has returned.
var ErrLoopStopped = errors.New("play: loop stopped")

// Frame is a snapshot of the session published after every change.
type Frame struct {
	Level     int
	Grid      *core.Grid
	Steps     int
	Status    Status
	Animating bool
}

// LoopOptions configures a Loop.
type LoopOptions struct {
	// Interval between animation ticks. Zero means core.DefaultInterval.
	Interval time.Duration
	// Animating starts the loop stepping on every tick.
	Animating bool
	// OnFrame receives every snapshot on the loop goroutine. It must not
	// call back into the Loop.
	OnFrame func(Frame)
}

type command struct {
	fn    func(*Session) error
	reply chan error
}

// Loop is the single owner of a Session. Run processes animation ticks and
// commands one at a time, so commands see the session exclusively.
type Loop struct {
	sess      *Session
	interval  time.Duration
	animating bool
	onFrame   func(Frame)

	cmds chan command
	done chan struct{}
}

// NewLoop wraps s. The session must not be touched elsewhere once Run starts.
func NewLoop(s *Session, opts LoopOptions) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = core.DefaultInterval
	}
	return &Loop{
		sess:      s,
		interval:  opts.Interval,
		animating: opts.Animating,
		onFrame:   opts.OnFrame,
		cmds:      make(chan command),
		done:      make(chan struct{}),
	}
}

// Run owns the session until ctx is done. It publishes an initial frame.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.publish()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if l.animating && l.sess.Advance() {
				l.publish()
			}
		case c := <-l.cmds:
			err := c.fn(l.sess)
			c.reply <- err
			l.publish()
		}
	}
}

// Do runs fn on the loop goroutine and returns its error. It fails with
// ErrLoopStopped when Run is no longer running.
func (l *Loop) Do(ctx context.Context, fn func(*Session) error) error {
	c := command{fn: fn, reply: make(chan error, 1)}
	select {
	case l.cmds <- c:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// The command is accepted; Run always replies.
	return <-c.reply
}

// SetAnimating turns tick-driven stepping on or off.
func (l *Loop) SetAnimating(ctx context.Context, on bool) error {
	return l.Do(ctx, func(*Session) error {
		l.animating = on
		return nil
	})
}

// Snapshot returns the current frame.
func (l *Loop) Snapshot(ctx context.Context) (Frame, error) {
	var f Frame
	err := l.Do(ctx, func(*Session) error {
		f = l.frame()
		return nil
	})
	return f, err
}

func (l *Loop) frame() Frame {
	return Frame{
		Level:     l.sess.Level().ID,
		Grid:      core.Snapshot(l.sess),
		Steps:     l.sess.Steps(),
		Status:    l.sess.Status(),
		Animating: l.animating,
	}
}

func (l *Loop) publish() {
	if l.onFrame != nil {
		l.onFrame(l.frame())
	}
}
