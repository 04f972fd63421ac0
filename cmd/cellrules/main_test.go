package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellrules/internal/level"
	"cellrules/internal/progress"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr, append(args, "--log-level", "error"))
	return stdout.String(), stderr.String(), err
}

func TestCheckBuiltinPack(t *testing.T) {
	out, _, err := runCLI(t, "check", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "First steps")
	assert.Contains(t, out, "Rain")
	assert.Contains(t, out, "Mirror")
	assert.Contains(t, out, "solution")
	assert.NotContains(t, out, "cycle")
}

func TestCheckReportsFailures(t *testing.T) {
	p := level.Builtin()
	p.Levels[1].Solution = nil
	path := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, level.Save(path, p))

	out, _, err := runCLI(t, "check", "--levels", path)
	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 1, exitErr.code)
	assert.Equal(t, "1 of 3 levels failed", exitErr.msg)
	assert.Contains(t, out, "preset")
	assert.Contains(t, out, "cycle")
}

func TestRunSolution(t *testing.T) {
	out, _, err := runCLI(t, "run", "--solution", "--interval", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, "step 0 (running)")
	assert.Contains(t, out, "....x")
	assert.Contains(t, out, "solved in 4 steps")
}

func TestRunPresetRulesCycle(t *testing.T) {
	_, _, err := runCLI(t, "run", "--interval", "1ms", "--level", "2")
	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 1, exitErr.code)
	assert.Contains(t, exitErr.msg, "no convergence: cycle")
}

func TestRunStepBound(t *testing.T) {
	_, _, err := runCLI(t, "run", "--solution", "--interval", "1ms", "--max-steps", "2")
	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, "no convergence: step bound after 2 steps", exitErr.msg)
}

func TestRunNonPositiveMaxStepsUsesDefault(t *testing.T) {
	for _, n := range []string{"0", "-3"} {
		out, _, err := runCLI(t, "run", "--solution", "--interval", "1ms", "--max-steps="+n)
		require.NoError(t, err, "--max-steps %s", n)
		assert.Contains(t, out, "solved in 4 steps")
	}
}

func TestExportHCLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.hcl")
	_, _, err := runCLI(t, "export", "--out", path)
	require.NoError(t, err)

	p, err := level.Load(path)
	require.NoError(t, err)
	require.Len(t, p.Levels, 3)
	assert.Equal(t, "Mirror", p.Levels[2].Name)

	out, _, err := runCLI(t, "check", "--levels", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rain")
}

func TestExportUnknownFormat(t *testing.T) {
	_, _, err := runCLI(t, "export", "--format", "toml")
	require.ErrorIs(t, err, level.ErrUnknownFormat)
}

func TestExportSavedRules(t *testing.T) {
	dir := t.TempDir()
	store, err := progress.Open(progress.DefaultConfig(dir))
	require.NoError(t, err)
	sol := level.Builtin().Levels[1].Solution
	require.NoError(t, store.SaveRules("builtin", 2, sol))
	require.NoError(t, store.Close())

	out, _, err := runCLI(t, "export", "--state", dir, "--saved")
	require.NoError(t, err)

	p, err := level.CodecFor("yaml")
	require.NoError(t, err)
	pack, err := p.Decode("stdout.yaml", []byte(out))
	require.NoError(t, err)
	got := pack.Levels[1].Auto.Rules()
	assert.Equal(t, sol, got)
}

func TestLevelsShowsProgress(t *testing.T) {
	dir := t.TempDir()
	store, err := progress.Open(progress.DefaultConfig(dir))
	require.NoError(t, err)
	_, err = store.MarkSolved("builtin", 1, 4, level.Builtin().Levels[0].Solution)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, _, err := runCLI(t, "levels", "--state", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "7x7")
	assert.Contains(t, out, "builtin: 1 of 3 solved")

	out, _, err = runCLI(t, "levels", "--state", dir, "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "builtin: 0 of 3 solved")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cellrules.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("interval: 1ms\nlevel: 3\n"), 0o644))

	out, _, err := runCLI(t, "run", "--config", cfg, "--solution")
	require.NoError(t, err)
	assert.Contains(t, out, "solved in 1 steps")

	require.NoError(t, os.WriteFile(cfg, []byte("bogus: true\n"), 0o644))
	_, _, err = runCLI(t, "check", "--config", cfg)
	assert.ErrorContains(t, err, "bogus")
}

func TestUnknownLevel(t *testing.T) {
	_, _, err := runCLI(t, "run", "--level", "99")
	assert.ErrorIs(t, err, level.ErrNotFound)
}
