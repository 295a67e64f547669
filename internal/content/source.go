// Package content supplies question batches to game sessions. The
// Library implementation draws on the question catalog in the
// database and derives the per-variant payloads (match-up choices,
// memory card pairs) per batch.
package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"wordquest/internal/models"
)

// ErrNoContent indicates the catalog has no questions for the
// requested topic and difficulty.
var ErrNoContent = errors.New("no questions available")

// Source provides a finite question batch for one session. It may
// return fewer questions than requested; the session decides whether
// the batch is viable.
type Source interface {
	Fetch(ctx context.Context, gameType models.GameType, difficulty models.Difficulty, topicID int64, count int) ([]models.Question, error)
}

// Catalog is the slice of the question repository the library needs
type Catalog interface {
	QuestionsByTopic(topicID int64, difficulty models.Difficulty) ([]models.Question, error)
}

// Library is the catalog-backed Source
type Library struct {
	catalog Catalog
}

// NewLibrary creates a library over a question catalog
func NewLibrary(catalog Catalog) *Library {
	return &Library{catalog: catalog}
}

// Fetch selects up to count questions for the topic and difficulty,
// shuffled, with variant payloads derived from the batch itself.
func (l *Library) Fetch(ctx context.Context, gameType models.GameType, difficulty models.Difficulty, topicID int64, count int) ([]models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	questions, err := l.catalog.QuestionsByTopic(topicID, difficulty)
	if err != nil {
		return nil, fmt.Errorf("load questions for topic %d: %w", topicID, err)
	}
	questions = filterForGame(gameType, questions)
	if len(questions) == 0 {
		return nil, ErrNoContent
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if count > 0 && len(questions) > count {
		questions = questions[:count]
	}

	switch gameType {
	case models.GameMatchUp:
		deriveChoices(questions)
	case models.GameMemory:
		for i := range questions {
			questions[i].Cards = BuildPair(questions[i])
		}
	}
	return questions, nil
}

// filterForGame drops questions missing assets the variant requires.
// Match-up needs an image for every slot; the other variants play
// with the word alone.
func filterForGame(gameType models.GameType, questions []models.Question) []models.Question {
	if gameType != models.GameMatchUp {
		return questions
	}
	out := questions[:0]
	for _, q := range questions {
		if q.HasImage() {
			out = append(out, q)
		}
	}
	return out
}

// deriveChoices gives every question the full word set of the batch,
// shuffled: its own word plus the others as distractors.
func deriveChoices(questions []models.Question) {
	words := make([]string, len(questions))
	for i, q := range questions {
		words[i] = q.Word
	}
	for i := range questions {
		choices := make([]string, len(words))
		copy(choices, words)
		rand.Shuffle(len(choices), func(a, b int) {
			choices[a], choices[b] = choices[b], choices[a]
		})
		questions[i].Choices = choices
	}
}

// BuildPair expands a question into its two memory card facets. The
// second facet prefers the question's image, then audio, falling back
// to a second word card.
func BuildPair(q models.Question) []models.Card {
	first := models.Card{
		ID:          fmt.Sprintf("%d-a", q.ID),
		PairID:      q.ID,
		ContentType: models.CardWord,
		Content:     q.Word,
	}
	second := models.Card{
		ID:     fmt.Sprintf("%d-b", q.ID),
		PairID: q.ID,
	}
	switch {
	case q.HasImage():
		second.ContentType = models.CardImage
		second.Content = string(q.ImageSrc)
	case q.HasAudio():
		second.ContentType = models.CardAudio
		second.Content = string(q.AudioSrc)
	default:
		second.ContentType = models.CardWord
		second.Content = q.Word
	}
	return []models.Card{first, second}
}
