package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"cellrules/internal/progress"
)

func (c *cli) newLevelsCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the levels in the pack and saved progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			pack := env.Controller.PackName()
			records := map[int]progress.Record{}
			if env.Store != nil {
				if reset {
					if err := env.Store.Reset(pack); err != nil {
						return err
					}
					env.Logger.Info("progress reset", "pack", pack)
				}
				list, err := env.Store.List(pack)
				if err != nil {
					return err
				}
				for _, r := range list {
					records[r.LevelID] = r
				}
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "TITLE", "SIZE", "RULES", "SOLVED", "BEST")
			solved := 0
			for _, lvl := range env.Pack.Levels {
				rec := records[lvl.ID]
				mark, best := "", ""
				if rec.Solved {
					solved++
					mark, best = "yes", strconv.Itoa(rec.BestSteps)
				}
				size := lvl.Start.Size()
				t.Row(
					strconv.Itoa(lvl.ID),
					lvl.Title(),
					fmt.Sprintf("%dx%d", size.W, size.H),
					strconv.Itoa(lvl.Auto.Len()),
					mark,
					best,
				)
			}
			fmt.Fprintln(c.stdout, t.String())
			fmt.Fprintf(c.stdout, "%s: %d of %d solved\n", pack, solved, len(env.Pack.Levels))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "forget saved progress for this pack first")
	return cmd
}
