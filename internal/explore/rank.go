package explore

import (
	"sort"
	"time"

	"stacklens/internal/index"
	"stacklens/internal/repo"
)

// Weight contributions per relevance factor. The three factors are
// independently additive.
const (
	recencyRecent   = 3 // last change within 30 days
	recencyModerate = 2 // within 90 days
	recencyOld      = 1 // older, or the date does not parse

	handlingWeight  = 3
	nullCheckWeight = 2

	fanInHigh   = 3 // 5+ distinct callers
	fanInMedium = 2 // 2+
	fanInLow    = 1
)

// RankedMethod is one method with its computed relevance weight.
type RankedMethod struct {
	Method     index.Method
	Weight     int
	Flags      BodyFlags
	LastCommit *repo.CommitInfo
}

// Rank orders the explored methods by descending weight. Ties keep their
// traversal order: the sort is stable and the input order is the
// MethodSet's insertion order, so repeated runs over unchanged input
// produce identical output.
func Rank(idx *index.Index, set *MethodSet, commits map[string]*repo.CommitInfo, flags map[string]BodyFlags, now time.Time) []RankedMethod {
	ranked := make([]RankedMethod, 0, set.Len())

	for _, key := range set.Keys() {
		m, ok := set.Method(key)
		if !ok {
			continue
		}

		rm := RankedMethod{
			Method:     m,
			Flags:      flags[key],
			LastCommit: commits[m.FilePath],
		}
		rm.Weight = recencyScore(rm.LastCommit, now) +
			handlingScore(rm.Flags) +
			fanInScore(idx.CallerCount(key))

		ranked = append(ranked, rm)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	return ranked
}

// recencyScore weighs how recently the method's file changed.
// No metadata contributes nothing; an unparsable date still counts as a
// recorded change.
func recencyScore(commit *repo.CommitInfo, now time.Time) int {
	if commit == nil {
		return 0
	}

	date, err := time.Parse(time.RFC3339, commit.Date)
	if err != nil {
		return recencyOld
	}

	days := int(now.Sub(date).Hours() / 24)
	switch {
	case days <= 30:
		return recencyRecent
	case days <= 90:
		return recencyModerate
	default:
		return recencyOld
	}
}

// handlingScore weighs defensive-coding signals in the method body.
func handlingScore(flags BodyFlags) int {
	score := 0
	if flags.HasExceptionHandling {
		score += handlingWeight
	}
	if flags.HasNullCheck {
		score += nullCheckWeight
	}
	return score
}

// fanInScore weighs the method's topological importance by distinct
// caller count.
func fanInScore(callers int) int {
	switch {
	case callers >= 5:
		return fanInHigh
	case callers >= 2:
		return fanInMedium
	case callers >= 1:
		return fanInLow
	default:
		return 0
	}
}
