package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cellrules/internal/app"
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.msg)
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

type cli struct {
	cfg        *app.Config
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{cfg: app.NewConfig(), stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "cellrules",
		Short: "A puzzle about writing cellular automaton rules",
		Long: `cellrules shows a start grid and a goal grid. You edit a short, ordered
list of 3x3 rewrite rules until stepping them turns the start into the goal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.configPath == "" {
				return c.cfg.Validate()
			}
			return c.cfg.ApplyFile(c.configPath, cmd.Flags())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	fs := root.PersistentFlags()
	fs.StringVar(&c.configPath, "config", "", "YAML file with default settings")
	c.cfg.Bind(fs)

	root.AddCommand(
		c.newPlayCmd(),
		c.newRunCmd(),
		c.newCheckCmd(),
		c.newLevelsCmd(),
		c.newExportCmd(),
	)
	return root
}

// openEnv opens the shared environment with logs on stderr.
func (c *cli) openEnv() (*app.Env, error) {
	return app.Open(c.cfg, c.stderr)
}
