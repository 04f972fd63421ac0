package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cellrules/internal/level"
	"cellrules/internal/play"
)

// Options configures Run.
type Options struct {
	Interval time.Duration
	Logger   *slog.Logger
	// Watch, when set, is started in the background and should call its
	// callback with every reloaded pack until ctx is done.
	Watch func(ctx context.Context, fn func(*level.Pack)) error
	// Input and Output override the terminal; used by tests.
	Input  io.Reader
	Output io.Writer
}

// Run plays until the user quits or ctx is done.
func Run(ctx context.Context, ctl *play.Controller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	} else {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	prog := tea.NewProgram(New(ctl, opts.Interval, opts.Logger), progOpts...)

	watchDone := make(chan error, 1)
	if opts.Watch != nil {
		go func() {
			watchDone <- opts.Watch(ctx, func(p *level.Pack) { prog.Send(ReloadMsg{Pack: p}) })
		}()
	} else {
		watchDone <- nil
	}

	_, err := prog.Run()
	cancel()
	werr := <-watchDone
	// Killed means ctx was canceled, which is a normal way to stop.
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	return errors.Join(err, werr)
}
