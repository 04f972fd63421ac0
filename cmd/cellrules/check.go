package main

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cellrules/internal/level"
	"cellrules/internal/logging"
	"cellrules/internal/play"
	"cellrules/internal/rewrite"
)

type checkResult struct {
	lvl     *level.Level
	rules   string
	outcome play.Outcome
}

func (c *cli) newCheckCmd() *cobra.Command {
	var (
		maxSteps int
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every level in the pack can be solved",
		Long: `check runs each level's reference solution, or its preset rules when it
has none, from the start grid and reports whether the goal is reached. It
exits with status 1 if any level fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.openEnv()
			if err != nil {
				return err
			}
			defer env.Close()
			ctx := env.Context(cmd.Context())

			results, err := checkPack(ctx, env.Pack, maxSteps, workers)
			if err != nil {
				return err
			}
			failed := printCheck(c, results)
			if failed > 0 {
				return &exitError{code: 1, msg: fmt.Sprintf("%d of %d levels failed", failed, len(results))}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", play.DefaultMaxSteps, "generations tried per level")
	cmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "levels checked in parallel")
	return cmd
}

// checkPack solves every level of p concurrently. Results keep pack order.
func checkPack(ctx context.Context, p *level.Pack, maxSteps, workers int) ([]checkResult, error) {
	log := logging.FromContext(ctx)
	results := make([]checkResult, len(p.Levels))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, lvl := range p.Levels {
		g.Go(func() error {
			res := checkResult{lvl: lvl, rules: "preset"}
			var opts play.Options
			opts.MaxSteps = maxSteps
			if len(lvl.Solution) > 0 {
				res.rules = "solution"
				opts.Rules = rewrite.New(lvl.Solution...)
			} else {
				opts.Rules = lvl.Auto.Clone()
			}
			out, err := play.Solve(ctx, lvl, opts)
			if err != nil {
				return fmt.Errorf("level %d: %w", lvl.ID, err)
			}
			res.outcome = out
			results[i] = res
			log.Debug("level checked", "level", lvl.ID, "rules", res.rules, "solved", out.Solved, "steps", out.Steps, "reason", out.Reason)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// printCheck writes the results table and returns the number of failures.
func printCheck(c *cli, results []checkResult) int {
	var (
		failed int
		pass   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		fail   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "RULES", "RESULT", "STEPS")
	for _, r := range results {
		result := pass.Render("ok")
		if !r.outcome.Solved {
			failed++
			result = fail.Render(r.outcome.Reason.String())
		}
		t.Row(strconv.Itoa(r.lvl.ID), r.lvl.Title(), r.rules, result, strconv.Itoa(r.outcome.Steps))
	}
	fmt.Fprintln(c.stdout, t.String())
	return failed
}
