package slices

import (
	"fmt"

	goslices "golang.org/x/exp/slices"
)

// ChunkToMaxLen splits s into contiguous, non-overlapping slices of exactly maxLen elements, except for the last
// one which holds the remainder. Ordering is preserved, so concatenating the chunks gives back s.
// An empty s yields no chunks.
func ChunkToMaxLen[S ~[]E, E any](s S, maxLen int) []S {
	if maxLen < 1 {
		panic(fmt.Sprintf("maxLen is %d but must be at least 1", maxLen))
	}
	rv := make([]S, 0, (len(s)+maxLen-1)/maxLen)
	for i := 0; i < len(s); i += maxLen {
		j := i + maxLen
		if j > len(s) {
			j = len(s)
		}
		rv = append(rv, goslices.Clone(s[i:j]))
	}
	return rv
}

// Map returns a new slice holding fn(e) for every element e of s.
func Map[S ~[]E, E any, V any](s S, fn func(E) V) []V {
	if s == nil {
		return nil
	}
	rv := make([]V, len(s))
	for i, e := range s {
		rv[i] = fn(e)
	}
	return rv
}

// Unique returns a copy of s with duplicate elements removed, keeping only the first occurrence.
func Unique[S ~[]E, E comparable](s S) S {
	if s == nil {
		return nil
	}
	rv := make(S, 0, len(s))
	seen := make(map[E]bool, len(s))
	for _, v := range s {
		if !seen[v] {
			rv = append(rv, v)
			seen[v] = true
		}
	}
	return rv
}
