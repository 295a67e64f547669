// Package grading holds the pure answer-checking rules shared by the
// mini-games. All comparisons are case-insensitive and total: no input
// combination produces an error.
package grading

import (
	"strings"
	"unicode/utf8"

	"wordquest/internal/models"
)

// Word reports whether a submitted word matches the expected word,
// ignoring case and surrounding whitespace.
func Word(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

// LetterOrder grades an anagram submission: the concatenation of the
// current letter order must equal the target word exactly. No partial
// credit.
func LetterOrder(letters []string, expected string) bool {
	return Word(strings.Join(letters, ""), expected)
}

// SlotWord grades a match-up placement. The submitted word is graded
// against the word owned by the slot it was placed into, never against
// the global word list.
func SlotWord(submitted, slotWord string) bool {
	return Word(submitted, slotWord)
}

// PairMatch grades two memory cards. Equality is on PairID, not on
// content value: a word card and an image card of the same pair match.
// A card never matches itself.
func PairMatch(a, b models.Card) bool {
	return a.ID != b.ID && a.PairID == b.PairID
}

// FullLength grades a spelling-bee buffer. Grading only runs once the
// typed text reaches the target length; before that ready is false and
// no attempt is consumed.
func FullLength(typed, expected string) (ready, correct bool) {
	if utf8.RuneCountInString(typed) < utf8.RuneCountInString(strings.TrimSpace(expected)) {
		return false, false
	}
	return true, Word(typed, expected)
}
