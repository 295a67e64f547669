package models

import (
	"fmt"
	"strings"
)

// GameType identifies one of the mini-game variants
type GameType string

const (
	GameAnagram     GameType = "anagram"
	GameMatchUp     GameType = "matchup"
	GameMemory      GameType = "memory"
	GameSpellingBee GameType = "spellingbee"
)

// ParseGameType validates a game type string from a request path
func ParseGameType(s string) (GameType, error) {
	switch GameType(strings.ToLower(strings.TrimSpace(s))) {
	case GameAnagram:
		return GameAnagram, nil
	case GameMatchUp:
		return GameMatchUp, nil
	case GameMemory:
		return GameMemory, nil
	case GameSpellingBee:
		return GameSpellingBee, nil
	}
	return "", fmt.Errorf("unknown game type: %q", s)
}

// Difficulty is the content difficulty band for a question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty validates a difficulty string from a request
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// MediaRef is an opaque reference (URL or file path) to an image or
// audio asset. The engine never inspects the bytes; the UI resolves it.
type MediaRef string

// CardContent describes what a memory card shows
type CardContent string

const (
	CardWord  CardContent = "word"
	CardImage CardContent = "image"
	CardAudio CardContent = "audio"
	CardText  CardContent = "text"
)

// Card is one facet of a memory pair. Two cards share a PairID and
// must be flipped consecutively to match.
type Card struct {
	ID          string
	PairID      int64
	ContentType CardContent
	Content     string
}

// Question is one unit of game content. Word, ImageSrc and AudioSrc
// come from the content catalog; Choices and Cards are derived per
// batch by the content source depending on the game variant.
type Question struct {
	ID         int64
	TopicID    int64
	Difficulty Difficulty
	Word       string
	ImageSrc   MediaRef
	AudioSrc   MediaRef

	// Choices holds the word options shown for a match-up slot: the
	// correct word plus distractors drawn from the same batch.
	Choices []string

	// Cards holds exactly two facets for a memory pair.
	Cards []Card
}

// HasImage reports whether the question carries an image asset
func (q Question) HasImage() bool {
	return q.ImageSrc != ""
}

// HasAudio reports whether the question carries an audio asset
func (q Question) HasAudio() bool {
	return q.AudioSrc != ""
}
