package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cellrules/internal/logging"
	"cellrules/internal/play"
	"cellrules/internal/rewrite"
)

func (c *cli) newRunCmd() *cobra.Command {
	var (
		maxSteps int
		solution bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate a level headlessly and print each generation",
		Long: `run steps one level at --interval and prints every generation until the
goal appears. It exits with status 1 when the goal is not reached within
--max-steps generations or the grid starts repeating.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.openEnv()
			if err != nil {
				return err
			}
			defer env.Close()
			ctx := env.Context(cmd.Context())

			lvl := env.Controller.Session().Level().Clone()
			if solution {
				if len(lvl.Solution) == 0 {
					return fmt.Errorf("level %d has no reference solution", lvl.ID)
				}
				lvl.Auto = rewrite.New(lvl.Solution...)
			}
			return c.animate(ctx, play.NewSession(lvl), maxSteps)
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", play.DefaultMaxSteps, "give up after this many generations (0 means the default)")
	cmd.Flags().BoolVar(&solution, "solution", false, "use the level's reference solution instead of its preset rules")
	return cmd
}

// animate drives s through a play.Loop, printing each frame, until it is
// solved, repeats a grid or runs out of steps.
func (c *cli) animate(parent context.Context, s *play.Session, maxSteps int) error {
	log := logging.FromContext(parent)
	if maxSteps <= 0 {
		maxSteps = play.DefaultMaxSteps
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		outcome = play.Outcome{Reason: play.ReasonStepBound}
		decided bool
		seen    = map[string]struct{}{}
	)
	loop := play.NewLoop(s, play.LoopOptions{
		Interval:  c.cfg.Interval,
		Animating: true,
		OnFrame: func(f play.Frame) {
			if decided {
				return
			}
			fmt.Fprintf(c.stdout, "step %d (%s)\n%s\n\n", f.Steps, f.Status, f.Grid)
			outcome.Steps = f.Steps
			outcome.Final = f.Grid
			k := f.Grid.Key()
			_, repeated := seen[k]
			seen[k] = struct{}{}
			switch {
			case f.Status == play.StatusSolved:
				outcome.Solved, outcome.Reason = true, play.ReasonSolved
			case repeated:
				outcome.Reason = play.ReasonCycle
			case f.Steps >= maxSteps:
			default:
				return
			}
			decided = true
			cancel()
		},
	})
	log.Info("animating level", "level", s.Level().ID, "interval", c.cfg.Interval, "max_steps", maxSteps)
	if err := loop.Run(ctx); err != nil {
		return err
	}
	if !decided {
		return parent.Err()
	}
	log.Info("animation finished", "level", s.Level().ID, "reason", outcome.Reason, "steps", outcome.Steps)
	if !outcome.Solved {
		return &exitError{code: 1, msg: fmt.Sprintf("no convergence: %s after %d steps", outcome.Reason, outcome.Steps)}
	}
	fmt.Fprintf(c.stdout, "solved in %d steps\n", outcome.Steps)
	return nil
}
