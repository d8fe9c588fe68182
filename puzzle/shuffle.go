// Package puzzle implements the unjumble core: jumbling sentence text and
// scoring submitted answers. Everything in here is pure and has no knowledge
// of storage or transport.
package puzzle

import "math/rand"

// maxShuffleAttempts bounds the retry loop for inputs whose permutations keep
// collapsing back onto the original (e.g. "aa", "aba").
const maxShuffleAttempts = 10

// Shuffle returns a permutation of s that differs from s whenever one exists.
// After maxShuffleAttempts Fisher-Yates passes it falls back to rotating the
// runes left by one, so a string of identical characters comes back unchanged
// instead of looping forever.
func Shuffle(s string) string {
	return shuffle(s, rand.Shuffle)
}

// ShuffleWith is Shuffle driven by the caller's random source. Used by tests
// that need reproducible permutations.
func ShuffleWith(r *rand.Rand, s string) string {
	return shuffle(s, r.Shuffle)
}

func shuffle(s string, shuf func(n int, swap func(i, j int))) string {
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}

	for attempt := 0; attempt < maxShuffleAttempts; attempt++ {
		shuf(len(runes), func(i, j int) {
			runes[i], runes[j] = runes[j], runes[i]
		})
		if candidate := string(runes); candidate != s {
			return candidate
		}
	}

	// No distinct permutation found within the cap. Rotate deterministically;
	// for all-identical inputs this is the identity and that is fine.
	rotated := append(runes[1:], runes[0])
	return string(rotated)
}
