package utils

import (
	"cmp"

	"golang.org/x/exp/rand"
)

// Rand is the random source threaded through every stochastic step of the search.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform draws from [lo, hi)
func Uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// ArgMax returns the index of the first maximal element, or -1 for an empty slice.
func ArgMax[T cmp.Ordered](values []T) int {
	maxIndex := -1
	for i, v := range values {
		if maxIndex < 0 || v > values[maxIndex] {
			maxIndex = i
		}
	}
	return maxIndex
}
