package level

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellrules/internal/core"
	"cellrules/internal/rewrite"
)

func samplePack() *Pack {
	l := New(7,
		core.MustParseGrid("x   ", "  ${"),
		core.MustParseGrid(".x  ", "  ${"),
		rewrite.MustRule("____x____", "."),
		rewrite.MustRule("___x ____", "x"),
	)
	l.Name = "sample"
	l.Hint = `quotes "and" backslashes \ survive`
	locked := rewrite.MustRule("A_A_ _B_B", "A")
	locked.Locked = true
	l.Auto.Append(locked)
	l.Solution = []rewrite.Rule{rewrite.MustRule("_________", "#")}
	return &Pack{Name: "round trip", Levels: []*Level{l}}
}

func assertSamePack(t *testing.T, want, got *Pack) {
	t.Helper()
	require.Len(t, got.Levels, len(want.Levels))
	assert.Equal(t, want.Name, got.Name)
	for i, w := range want.Levels {
		g := got.Levels[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Hint, g.Hint)
		assert.True(t, w.Start.Equal(g.Start), "start:\n%s\n---\n%s", w.Start, g.Start)
		assert.True(t, w.Goal.Equal(g.Goal), "goal")
		assert.Equal(t, w.Auto.Rules(), g.Auto.Rules())
		assert.Equal(t, w.Solution, g.Solution)

		// Observationally identical stepping.
		cw, cg := w.Start, g.Start
		for step := 0; step < 5; step++ {
			cw, cg = w.Auto.Step(cw), g.Auto.Step(cg)
			require.True(t, cw.Equal(cg), "step %d diverged", step)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".hcl"} {
		t.Run(ext, func(t *testing.T) {
			want := samplePack()
			path := filepath.Join(t.TempDir(), "pack"+ext)
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assertSamePack(t, want, got)
		})
	}
}

func TestBuiltinIsValid(t *testing.T) {
	p := Builtin()
	require.NotEmpty(t, p.Levels)
	require.NoError(t, p.Validate())
	for _, l := range p.Levels {
		assert.NotEmpty(t, l.Solution, "level %d ships without a reference solution", l.ID)
		assert.NotEmpty(t, l.Auto.Rules(), "level %d has no editable rules", l.ID)
	}

	// Each call hands out an independent copy.
	a, b := Builtin(), Builtin()
	require.NoError(t, a.Levels[0].Auto.SetReplace(0, 'z'))
	r, _ := b.Levels[0].Auto.Rule(0)
	assert.Equal(t, core.Blank, r.Replace)
}

func TestDecodeYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "short pattern row",
			doc: `levels:
  - id: 1
    start: ["x "]
    goal: [" x"]
    rules:
      - pattern: ["  ", "   ", "   "]
        replace: " "
`,
			want: rewrite.ErrPatternLength,
		},
		{
			name: "two symbol replace",
			doc: `levels:
  - id: 1
    start: ["x "]
    goal: [" x"]
    rules:
      - pattern: ["   ", "   ", "   "]
        replace: "ab"
`,
			want: rewrite.ErrInvalidSymbol,
		},
		{
			name: "ragged grid",
			doc: `levels:
  - id: 1
    start: ["x ", "   "]
    goal: [" x", "  "]
    rules: []
`,
			want: core.ErrInvalidGrid,
		},
		{
			name: "size mismatch",
			doc: `levels:
  - id: 1
    start: ["x "]
    goal: [" x "]
    rules: []
`,
			want: ErrInvalidLevel,
		},
		{
			name: "duplicate id",
			doc: `levels:
  - id: 1
    start: ["x"]
    goal: ["x"]
    rules: []
  - id: 1
    start: ["x"]
    goal: ["x"]
    rules: []
`,
			want: ErrDuplicateID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yamlCodec{}.Decode("test.yaml", []byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeYAMLUnknownField(t *testing.T) {
	doc := "levels:\n  - id: 1\n    colour: red\n"
	_, err := yamlCodec{}.Decode("test.yaml", []byte(doc))
	assert.Error(t, err)
}

func TestDecodeHCL(t *testing.T) {
	src := `
name = "hand written"

level "4" {
  name  = "copy"
  start = ["ab", "  "]
  goal  = ["ab", "ab"]

  rule {
    pattern = ["_A_", "_ _", "___"]
    replace = "A"
  }

  rule {
    pattern = ["___", "___", "___"]
    replace = "#"
    locked  = true
  }
}
`
	p, err := hclCodec{}.Decode("hand.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, p.Levels, 1)
	l := p.Levels[0]
	assert.Equal(t, 4, l.ID)
	assert.Equal(t, "copy", l.Name)
	rules := l.Auto.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, rewrite.MustRule("_A__ ____", "A"), rules[0])
	assert.True(t, rules[1].Locked)
}

func TestDecodeHCLBadLabel(t *testing.T) {
	src := `level "first" {
  start = ["x"]
  goal  = ["x"]
}`
	_, err := hclCodec{}.Decode("bad.hcl", []byte(src))
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestCodecFor(t *testing.T) {
	_, err := CodecFor("levels.toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	c, err := CodecFor("hcl")
	require.NoError(t, err)
	assert.IsType(t, hclCodec{}, c)

	c, err = CodecFor("LEVELS.YAML")
	require.NoError(t, err)
	assert.IsType(t, yamlCodec{}, c)
}

func TestFind(t *testing.T) {
	p := Builtin()
	l, idx, err := p.Find(2)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, l.ID)

	_, _, err = p.Find(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloneIsolatesAutomaton(t *testing.T) {
	l := Builtin().Levels[0]
	c := l.Clone()
	require.NoError(t, c.Auto.SetReplace(0, 'q'))
	r, _ := l.Auto.Rule(0)
	assert.Equal(t, core.Blank, r.Replace)
	assert.Same(t, l.Start, c.Start)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yaml")
	require.NoError(t, Save(path, samplePack()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan *Pack, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func(p *Pack, err error) {
			if err == nil {
				reloads <- p
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	edited := samplePack()
	edited.Levels[0].Name = "edited"
	require.NoError(t, Save(path, edited))

	select {
	case p := <-reloads:
		assert.Equal(t, "edited", p.Levels[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing the pack")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestHCLEncodingIsReadable(t *testing.T) {
	data, err := hclCodec{}.Encode(samplePack())
	require.NoError(t, err)
	src := string(data)
	assert.True(t, strings.Contains(src, `level "7"`), src)
	assert.True(t, strings.Contains(src, "locked"), src)
}
