package puzzle_test

import (
	"testing"

	"unjumble/puzzle"

	"github.com/stretchr/testify/assert"
)

func TestCheckIsCaseInsensitive(t *testing.T) {
	assert.True(t, puzzle.Check("apple", "Apple"))
	assert.True(t, puzzle.Check("APPLE", "apple"))
	assert.True(t, puzzle.Check("The Quick Brown Fox", "the quick brown fox"))
}

func TestCheckDoesNotTrimWhitespace(t *testing.T) {
	assert.False(t, puzzle.Check("apple", " apple"))
	assert.False(t, puzzle.Check("apple", "apple "))
	assert.False(t, puzzle.Check("apple ", "apple"))
}

func TestCheckMismatch(t *testing.T) {
	assert.False(t, puzzle.Check("apple", "banana"))
	assert.False(t, puzzle.Check("apple", ""))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 10, puzzle.Score(true, puzzle.DefaultScorePerSentence))
	assert.Equal(t, 0, puzzle.Score(false, puzzle.DefaultScorePerSentence))
	assert.Equal(t, 25, puzzle.Score(true, 25))
	assert.Equal(t, 0, puzzle.Score(true, 0))
}
