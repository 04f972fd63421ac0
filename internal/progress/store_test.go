package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellrules/internal/rewrite"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRules() []rewrite.Rule {
	locked := rewrite.MustRule("___ r ___", "r")
	locked.Locked = true
	return []rewrite.Rule{rewrite.MustRule("___A A___", "A"), locked}
}

func TestSaveAndLoadRules(t *testing.T) {
	s := openTest(t)

	_, ok, err := s.LoadRules("builtin", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveRules("builtin", 3, sampleRules()))
	got, ok, err := s.LoadRules("builtin", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleRules(), got)

	// Packs do not share progress.
	_, ok, err = s.LoadRules("other", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkSolvedKeepsBest(t *testing.T) {
	s := openTest(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	best, err := s.MarkSolved("builtin", 1, 6, sampleRules())
	require.NoError(t, err)
	assert.True(t, best)

	best, err = s.MarkSolved("builtin", 1, 9, sampleRules())
	require.NoError(t, err)
	assert.False(t, best)

	best, err = s.MarkSolved("builtin", 1, 4, sampleRules())
	require.NoError(t, err)
	assert.True(t, best)

	rec, ok, err := s.Get("builtin", 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Solved)
	assert.Equal(t, 4, rec.BestSteps)
	assert.Equal(t, fixed, rec.SolvedAt)
}

func TestListOrdersByLevel(t *testing.T) {
	s := openTest(t)
	for _, id := range []int{12, 2, 7} {
		require.NoError(t, s.SaveRules("builtin", id, sampleRules()))
	}
	require.NoError(t, s.SaveRules("other", 1, sampleRules()))

	recs, err := s.List("builtin")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int{2, 7, 12}, []int{recs[0].LevelID, recs[1].LevelID, recs[2].LevelID})

	require.NoError(t, s.Reset("builtin"))
	recs, err = s.List("builtin")
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = s.List("other")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestNestedPackNamesStayApart(t *testing.T) {
	s := openTest(t)
	require.NoError(t, s.SaveRules("a/b", 1, sampleRules()))
	require.NoError(t, s.SaveRules("a%2Fb", 2, sampleRules()))
	require.NoError(t, s.SaveRules("a", 3, sampleRules()))

	recs, err := s.List("a")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].Pack)

	require.NoError(t, s.Reset("a"))
	for pack, id := range map[string]int{"a/b": 1, "a%2Fb": 2} {
		recs, err := s.List(pack)
		require.NoError(t, err)
		require.Len(t, recs, 1, pack)
		assert.Equal(t, id, recs[0].LevelID)
	}
	_, ok, err := s.Get("a", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	_, err = s.MarkSolved("builtin", 2, 3, sampleRules())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()
	rec, ok, err := s.Get("builtin", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, rec.BestSteps)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Close(), ErrClosed)
	assert.ErrorIs(t, s.SaveRules("builtin", 1, nil), ErrClosed)
	_, _, err = s.Get("builtin", 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.List("builtin")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}
