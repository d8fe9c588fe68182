package puzzle

import "strings"

// DefaultScorePerSentence is awarded per correct sentence when a game does
// not configure its own value.
const DefaultScorePerSentence = 10

// Normalize lowercases an answer for comparison. Whitespace is deliberately
// preserved: " apple" does not match "apple".
func Normalize(s string) string {
	return strings.ToLower(s)
}

// Check reports whether submitted matches correct, ignoring case.
func Check(correct, submitted string) bool {
	return Normalize(correct) == Normalize(submitted)
}

// Score returns perSentence for a correct answer and 0 otherwise.
func Score(correct bool, perSentence int) int {
	if !correct {
		return 0
	}
	return perSentence
}
