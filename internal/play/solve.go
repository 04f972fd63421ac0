package play

import (
	"context"

	"cellrules/internal/core"
	"cellrules/internal/level"
	"cellrules/internal/rewrite"
)

// DefaultMaxSteps bounds Solve when Options.MaxSteps is unset.
const DefaultMaxSteps = 1000

// Reason says why Solve stopped.
type Reason int

const (
	ReasonSolved Reason = iota
	ReasonStepBound
	ReasonCycle
)

func (r Reason) String() string {
	switch r {
	case ReasonSolved:
		return "solved"
	case ReasonStepBound:
		return "step bound"
	case ReasonCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Options tunes Solve.
type Options struct {
	// MaxSteps is the largest number of generations tried. Zero means
	// DefaultMaxSteps.
	MaxSteps int
	// Rules replaces the level's own rules when non-nil, e.g. with its
	// reference solution.
	Rules *rewrite.Automaton
}

// Outcome is the result of Solve. Steps is the number of generations taken
// until the goal appeared, or until the search stopped.
type Outcome struct {
	Solved bool
	Steps  int
	Reason Reason
	// Final is the last generation examined.
	Final *core.Grid
}

// Solve steps lvl from its start grid until the goal appears, the step bound
// runs out or a generation repeats. Stepping is deterministic so a repeated
// grid that is not the goal never converges. Only ctx cancellation is
// reported as an error.
func Solve(ctx context.Context, lvl *level.Level, opts Options) (Outcome, error) {
	max := opts.MaxSteps
	if max <= 0 {
		max = DefaultMaxSteps
	}
	auto := opts.Rules
	if auto == nil {
		auto = lvl.Auto
	}

	cur := lvl.Start.Clone()
	nxt := core.NewGrid(cur.W, cur.H)
	seen := map[string]struct{}{cur.Key(): {}}

	for steps := 0; ; steps++ {
		if cur.Equal(lvl.Goal) {
			return Outcome{Solved: true, Steps: steps, Reason: ReasonSolved, Final: cur}, nil
		}
		if steps >= max {
			return Outcome{Steps: steps, Reason: ReasonStepBound, Final: cur}, nil
		}
		if err := ctx.Err(); err != nil {
			return Outcome{Steps: steps, Final: cur}, err
		}
		auto.StepInto(nxt, cur)
		cur, nxt = nxt, cur
		k := cur.Key()
		if _, dup := seen[k]; dup && !cur.Equal(lvl.Goal) {
			return Outcome{Steps: steps + 1, Reason: ReasonCycle, Final: cur}, nil
		}
		seen[k] = struct{}{}
	}
}
