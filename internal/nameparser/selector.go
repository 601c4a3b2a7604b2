package nameparser

import (
	"slices"
	"strings"
)

// selectBest orders candidates by their provenance names, greatest first,
// and returns the first candidate holding the highest score. Equal scores
// therefore resolve to the greater "<position>_<name>" list, and candidates
// with identical provenance keep their extraction order. Returns nil when
// there are no candidates.
func selectBest(candidates []*ParseResult) *ParseResult {
	if len(candidates) == 0 {
		return nil
	}

	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b *ParseResult) int {
		return compareProvenance(b.Provenance, a.Provenance)
	})

	best := ordered[0]
	for _, c := range ordered[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

// compareProvenance compares two provenance lists element by element on
// their string form; a shorter list sorts first when it is a prefix.
func compareProvenance(a, b []PatternRef) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i].String(), b[i].String()); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}
