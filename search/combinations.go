package search

import (
	"iter"
	"slices"
)

// Combinations yields every selection of size items from items, preserving
// their relative order. Enumeration takes each index in ascending order and
// recurses on the suffix after it, so for [a b c] and size 2 the sequence is
// [a b], [a c], [b c]. Duplicate values are treated as distinct positions.
//
// Each yielded slice is freshly allocated and may be retained by the caller.
// Nothing is yielded when size is not in 1..len(items).
func Combinations(items []string, size int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if size < 1 || size > len(items) {
			return
		}
		combine(items, size, nil, yield)
	}
}

// combine extends prefix with combinations of size items drawn from items.
// Returns false once yield asks to stop.
func combine(items []string, size int, prefix []string, yield func([]string) bool) bool {
	for i := range items {
		combo := append(slices.Clone(prefix), items[i])
		if size == 1 {
			if !yield(combo) {
				return false
			}
			continue
		}
		if !combine(items[i+1:], size-1, combo, yield) {
			return false
		}
	}
	return true
}
