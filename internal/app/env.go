package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"cellrules/internal/level"
	"cellrules/internal/logging"
	"cellrules/internal/play"
	"cellrules/internal/progress"
)

// Env is everything a host needs to run a game: logger, level pack, progress
// store and the controller that ties them together.
type Env struct {
	Config     *Config
	Logger     *slog.Logger
	SessionID  string
	Pack       *level.Pack
	Store      *progress.Store
	Controller *play.Controller

	closers []io.Closer
}

// Open builds an Env from cfg. Logs go to cfg.LogFile when set, otherwise to
// fallback. The caller must Close the Env.
func Open(cfg *Config, fallback io.Writer) (_ *Env, err error) {
	env := &Env{Config: cfg, SessionID: uuid.NewString()}
	defer func() {
		if err != nil {
			_ = env.Close()
		}
	}()

	out := fallback
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		env.closers = append(env.closers, f)
		out = f
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})
	if err != nil {
		return nil, err
	}
	env.Logger = logger.With("session", env.SessionID)

	env.Pack, err = level.LoadOrBuiltin(cfg.Levels)
	if err != nil {
		return nil, err
	}

	var rec play.Recorder
	if cfg.State != "" {
		pcfg := progress.DefaultConfig(cfg.State)
		pcfg.Logger = env.Logger.With("component", "progress")
		env.Store, err = progress.Open(pcfg)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, env.Store)
		rec = env.Store
	}

	camp, err := play.NewCampaign(env.Pack)
	if err != nil {
		return nil, err
	}
	if cfg.Level != 0 {
		if err := camp.Goto(cfg.Level); err != nil {
			return nil, err
		}
	}
	env.Controller = play.NewController(camp, rec, env.Logger)
	env.Logger.Info("session started",
		"pack", env.Pack.Name,
		"levels", len(env.Pack.Levels),
		"level", camp.Session().Level().ID,
		"progress", cfg.State != "",
	)
	return env, nil
}

// Context returns ctx carrying the Env's logger.
func (e *Env) Context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, e.Logger)
}

// Watch reloads the level pack on change and hands every new version to fn.
// It returns immediately with nil when watching is off or the pack is the
// built-in one.
func (e *Env) Watch(ctx context.Context, fn func(*level.Pack)) error {
	if !e.Config.Watch || e.Config.Levels == "" {
		return nil
	}
	e.Logger.Info("watching level pack", "path", e.Config.Levels)
	return level.Watch(ctx, e.Config.Levels, level.DefaultDebounce, func(p *level.Pack, err error) {
		if err != nil {
			e.Logger.Warn("reload level pack", "path", e.Config.Levels, "error", err)
			return
		}
		e.Logger.Info("level pack reloaded", "path", e.Config.Levels, "levels", len(p.Levels))
		fn(p)
	})
}

// Close releases the store and log file.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
