package layout

import (
	"cmp"
	"slices"
)

// Descending returns the integer sizes from hi down to lo inclusive. lo is
// clamped to 1 and hi to lo.
func Descending(hi, lo int) []int {
	lo = max(lo, 1)
	hi = max(hi, lo)
	sizes := make([]int, 0, hi-lo+1)
	for s := hi; s >= lo; s-- {
		sizes = append(sizes, s)
	}
	return sizes
}

// FitLargestSize returns the largest candidate for which fits holds.
//
// Candidates are tried from largest to smallest and the first success wins.
// When none succeeds the smallest candidate is returned as a floor, so the
// result is always a usable size. An empty candidate list returns 0.
func FitLargestSize(candidates []int, fits func(size int) bool) int {
	if len(candidates) == 0 {
		return 0
	}
	sizes := slices.SortedFunc(slices.Values(candidates), func(a, b int) int { return cmp.Compare(b, a) })
	for _, s := range sizes {
		if fits(s) {
			return s
		}
	}
	return sizes[len(sizes)-1]
}
