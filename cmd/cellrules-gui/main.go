//go:build ebiten

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"cellrules/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.State = app.DefaultStateDir()
	fs := pflag.CommandLine
	configPath := fs.String("config", "", "YAML file with default settings")
	cfg.Bind(fs)
	pflag.Parse()

	var err error
	if *configPath != "" {
		err = cfg.ApplyFile(*configPath, fs)
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *app.Config) error {
	env, err := app.Open(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = env.Context(ctx)

	game := app.New(env)
	go func() {
		if err := env.Watch(ctx, game.Reload); err != nil && !errors.Is(err, context.Canceled) {
			env.Logger.Warn("level watcher stopped", "error", err)
		}
	}()

	w, h := game.WindowSize()
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	env.Logger.Info("session ended")
	return nil
}
