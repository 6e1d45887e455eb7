package explore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stacklens/internal/index"
	"stacklens/internal/repo"
)

// Test Plan for Rank:
// - Each factor scores per the weight table (recency 3/2/1/0,
//   handling +3, null check +2, fan-in 3/2/1/0)
// - Missing commit metadata contributes 0, never errors
// - Unparsable commit dates still count as a recorded change (1)
// - Output is descending by weight with stable ties
// - Re-ranking unchanged input produces identical order

var rankNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func commitDaysAgo(days int) *repo.CommitInfo {
	return &repo.CommitInfo{
		Hash: "abc",
		Date: rankNow.AddDate(0, 0, -days).Format(time.RFC3339),
	}
}

func TestRecencyScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, recencyScore(commitDaysAgo(10), rankNow))
	assert.Equal(t, 3, recencyScore(commitDaysAgo(30), rankNow))
	assert.Equal(t, 2, recencyScore(commitDaysAgo(60), rankNow))
	assert.Equal(t, 2, recencyScore(commitDaysAgo(90), rankNow))
	assert.Equal(t, 1, recencyScore(commitDaysAgo(365), rankNow))
	assert.Equal(t, 1, recencyScore(&repo.CommitInfo{Date: "not-a-date"}, rankNow))
	assert.Equal(t, 0, recencyScore(nil, rankNow))
}

func TestHandlingScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, handlingScore(BodyFlags{}))
	assert.Equal(t, 3, handlingScore(BodyFlags{HasExceptionHandling: true}))
	assert.Equal(t, 2, handlingScore(BodyFlags{HasNullCheck: true}))
	assert.Equal(t, 5, handlingScore(BodyFlags{HasExceptionHandling: true, HasNullCheck: true}))
}

func TestFanInScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, fanInScore(0))
	assert.Equal(t, 1, fanInScore(1))
	assert.Equal(t, 2, fanInScore(2))
	assert.Equal(t, 2, fanInScore(4))
	assert.Equal(t, 3, fanInScore(5))
	assert.Equal(t, 3, fanInScore(12))
}

// hubIndex builds a graph where Util.log has five distinct callers and
// Helper.aid has one.
func hubIndex(t *testing.T) *index.Index {
	t.Helper()
	return buildIndex(t, map[string]string{
		"Util.java":   "class Util { void log() {} }",
		"Helper.java": "class Helper { void aid() { Util.log(); } }",
		"C1.java":     "class C1 { void r() { Util.log(); } }",
		"C2.java":     "class C2 { void r() { Util.log(); } }",
		"C3.java":     "class C3 { void r() { Util.log(); } }",
		"C4.java":     "class C4 { void r() { Helper.aid(); Util.log(); } }",
	})
}

func TestRank_WeightComposition(t *testing.T) {
	t.Parallel()

	idx := hubIndex(t)
	set := Related(idx, "Util.log", 2)

	commits := map[string]*repo.CommitInfo{}
	for _, key := range set.Keys() {
		m, _ := set.Method(key)
		if m.ClassName == "Util" {
			commits[m.FilePath] = commitDaysAgo(5)
		}
	}

	flags := map[string]BodyFlags{
		"Util.log": {HasExceptionHandling: true, HasNullCheck: true},
	}

	ranked := Rank(idx, set, commits, flags, rankNow)
	require.NotEmpty(t, ranked)

	// Util.log: recency 3 + handling 5 + fan-in 3 (five callers) = 11.
	top := ranked[0]
	assert.Equal(t, "Util.log", top.Method.Key())
	assert.Equal(t, 11, top.Weight)
	assert.True(t, top.Flags.HasExceptionHandling)
	assert.NotNil(t, top.LastCommit)
}

func TestRank_MissingCommitMetadataScoresZero(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t, map[string]string{
		"Solo.java": "class Solo { void run() {} }",
	})
	set := Related(idx, "Solo.run", 0)

	ranked := Rank(idx, set, map[string]*repo.CommitInfo{}, map[string]BodyFlags{}, rankNow)

	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Weight)
	assert.Nil(t, ranked[0].LastCommit)
}

func TestRank_StableTies(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t, map[string]string{
		"Hub.java": "class Hub { void spin() { X.go(); Y.go(); } }",
		"X.java":   "class X { void go() {} }",
		"Y.java":   "class Y { void go() {} }",
	})
	set := Related(idx, "Hub.spin", 1)

	ranked := Rank(idx, set, nil, nil, rankNow)
	require.Len(t, ranked, 3)

	// X.go and Y.go tie (fan-in 1 each); traversal order is preserved.
	assert.Equal(t, "X.go", ranked[0].Method.Key())
	assert.Equal(t, "Y.go", ranked[1].Method.Key())
	assert.Equal(t, "Hub.spin", ranked[2].Method.Key())
}

func TestRank_Idempotent(t *testing.T) {
	t.Parallel()

	idx := hubIndex(t)
	set := Related(idx, "Util.log", 2)
	flags := map[string]BodyFlags{"Helper.aid": {HasNullCheck: true}}

	first := Rank(idx, set, nil, flags, rankNow)
	second := Rank(idx, set, nil, flags, rankNow)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Method.Key(), second[i].Method.Key())
		assert.Equal(t, first[i].Weight, second[i].Weight)
	}
}
