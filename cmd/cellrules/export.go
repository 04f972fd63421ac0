package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cellrules/internal/level"
	"cellrules/internal/play"
)

func (c *cli) newExportCmd() *cobra.Command {
	var (
		format string
		out    string
		saved  bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the level pack in another format",
		Long: `export encodes the current level pack as YAML or HCL. With --saved, each
level's rules are replaced by the rules saved in the progress store, which
turns a play-through into a pack of solutions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			switch {
			case format != "":
			case out != "":
				format = out
			default:
				format = "yaml"
			}
			codec, err := level.CodecFor(format)
			if err != nil {
				return err
			}

			pack := env.Pack
			if saved {
				if env.Store == nil {
					return fmt.Errorf("--saved needs a progress store, set --state")
				}
				pack = &level.Pack{Name: env.Pack.Name}
				for _, lvl := range env.Pack.Levels {
					lvl = lvl.Clone()
					rules, ok, err := env.Store.LoadRules(env.Controller.PackName(), lvl.ID)
					if err != nil {
						return err
					}
					if ok {
						if err := play.NewSession(lvl).LoadRules(rules); err != nil {
							env.Logger.Warn("saved rules skipped", "level", lvl.ID, "error", err)
						}
					}
					pack.Levels = append(pack.Levels, lvl)
				}
			}

			data, err := codec.Encode(pack)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = c.stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			env.Logger.Info("level pack exported", "path", out, "levels", len(pack.Levels))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: "+strings.Join(level.Formats(), ", ")+" (default from --out, else yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&saved, "saved", false, "export saved player rules instead of the preset ones")
	return cmd
}
