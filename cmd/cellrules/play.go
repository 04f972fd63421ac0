package main

import (
	"io"

	"github.com/spf13/cobra"

	"cellrules/internal/app"
	"cellrules/internal/tui"
)

func (c *cli) newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play the level pack in the terminal.

Arrow keys move the cursor over the rule boxes. Typing a character writes it
into the cell under the cursor; space writes a blank. Move below the rules to
the state row, where space starts or pauses the animation, s steps once, n and
p switch levels and q quits. Backspace restarts the simulation. Esc or ctrl-c
quit from anywhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The terminal belongs to the game; logs only go to --log-file.
			env, err := app.Open(c.cfg, io.Discard)
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := env.Context(cmd.Context())
			return tui.Run(ctx, env.Controller, tui.Options{
				Interval: c.cfg.Interval,
				Logger:   env.Logger,
				Watch:    env.Watch,
			})
		},
	}
}
