package puzzle_test

import (
	"math/rand"
	"sort"
	"testing"

	"unjumble/puzzle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedRunes(s string) string {
	runes := []rune(s)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

func TestShuffleReturnsDistinctPermutation(t *testing.T) {
	inputs := []string{
		"ab",
		"apple",
		"the quick brown fox",
		"abcdefghijklmnop",
		"héllo wörld",
	}

	rng := rand.New(rand.NewSource(42))
	for _, input := range inputs {
		for i := 0; i < 100; i++ {
			shuffled := puzzle.ShuffleWith(rng, input)
			require.NotEqual(t, input, shuffled, "input %q", input)
			require.Equal(t, sortedRunes(input), sortedRunes(shuffled), "input %q", input)
		}
	}
}

func TestShuffleTwoCharacters(t *testing.T) {
	// The only distinct permutation of "ab" is "ba".
	assert.Equal(t, "ba", puzzle.Shuffle("ab"))
}

func TestShuffleIdenticalCharactersTerminates(t *testing.T) {
	// No distinct permutation exists; the rotation fallback is the identity.
	assert.Equal(t, "aaaa", puzzle.Shuffle("aaaa"))
	assert.Equal(t, "aa", puzzle.Shuffle("aa"))
}

func TestShuffleTrivialInputs(t *testing.T) {
	assert.Equal(t, "", puzzle.Shuffle(""))
	assert.Equal(t, "x", puzzle.Shuffle("x"))
	assert.Equal(t, "é", puzzle.Shuffle("é"))
}

func TestShuffleIsNotDeterministic(t *testing.T) {
	input := "abcdefghijklmnopqrstuvwxyz"

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		seen[puzzle.Shuffle(input)] = true
	}
	// 20 shuffles of a 26-character string collapsing to one permutation
	// would mean the source of randomness is broken.
	assert.Greater(t, len(seen), 1)
}
