package snap

import (
	"math"
	"sort"
)

// SameOffsetEpsilon is the per-axis difference under which two offsets are
// treated as the same correction.
const SameOffsetEpsilon = 1e-4

// Rank orders results by kind, then by offset magnitude. The input slice
// is not modified.
func Rank(results []*Result) []*Result {
	out := append([]*Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].kind != out[j].kind {
			return out[i].kind < out[j].kind
		}
		return out[i].Offset().Length() < out[j].Offset().Length()
	})
	return out
}

// Select picks the primary result and a secondary one whose correction
// differs from the primary. Either may be nil.
func Select(results []*Result) (first, second *Result) {
	ranked := Rank(results)
	if len(ranked) == 0 {
		return nil, nil
	}
	first = ranked[0]
	for _, r := range ranked[1:] {
		if !SameOffset(first, r) {
			return first, r
		}
	}
	return first, nil
}

// Filter drops results of the excluded kinds.
func Filter(results []*Result, exclude ...Kind) []*Result {
	if len(exclude) == 0 {
		return results
	}
	var out []*Result
next:
	for _, r := range results {
		for _, k := range exclude {
			if r.kind == k {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// SameOffset reports whether a and b apply the same translation.
func SameOffset(a, b *Result) bool {
	if a == nil || b == nil {
		return a == b
	}
	d := a.Offset().Sub(b.Offset())
	return math.Abs(d.X) < SameOffsetEpsilon && math.Abs(d.Y) < SameOffsetEpsilon
}
