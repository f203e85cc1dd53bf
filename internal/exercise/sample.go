package exercise

import (
	"math/rand/v2"

	"github.com/palemoky/chinese-trainer/internal/loader"
)

// Shuffle permutes s in place.
func Shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// Choice returns a uniformly chosen element of s. s must not be empty.
func Choice[T any](rng *rand.Rand, s []T) T {
	return s[rng.IntN(len(s))]
}

// SampleDistractors returns up to n distinct, non-empty values of field from
// pool, never including correct, in random order.
func SampleDistractors(rng *rand.Rand, correct string, pool []loader.Record, field loader.Field, n int) []string {
	seen := make(map[string]bool, len(pool))
	var candidates []string
	for _, r := range pool {
		v := r.Value(field)
		if v == "" || v == correct || seen[v] {
			continue
		}
		seen[v] = true
		candidates = append(candidates, v)
	}

	Shuffle(rng, candidates)
	if len(candidates) > n {
		candidates = candidates[:max(n, 0)]
	}
	return candidates
}
