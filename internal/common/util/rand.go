package util

import (
	"math/rand"
	"time"
)

// NewRand returns a *rand.Rand seeded with *seed, or with the current time if seed is nil.
// Each task gets its own source so that no two tasks share a sequence unless they share a seed.
func NewRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Seeds draws n seeds from rng.
func Seeds(rng *rand.Rand, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return seeds
}
