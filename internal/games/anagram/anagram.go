// Package anagram implements the letter-unscramble mini-game. The
// player reorders letter tokens freely and submits the order
// explicitly; only the submission is graded.
package anagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"wordquest/internal/content"
	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/grading"
	"wordquest/internal/models"
)

const (
	attemptsCap    = 5
	scoreIncrement = 10
	questionCount  = 5
)

// ErrNoLetter is returned for an out-of-range letter index
var ErrNoLetter = errors.New("letter index out of range")

// initialSeconds returns the countdown length for a difficulty
func initialSeconds(d models.Difficulty) int {
	switch d {
	case models.DifficultyHard:
		return 300
	case models.DifficultyMedium:
		return 450
	default:
		return 600
	}
}

// DefaultConfig builds the engine configuration for an anagram game
func DefaultConfig(difficulty models.Difficulty, topicID int64) engine.Config {
	return engine.Config{
		GameType:       models.GameAnagram,
		Difficulty:     difficulty,
		TopicID:        topicID,
		RequestCount:   questionCount,
		MinimumViable:  1,
		InitialSeconds: initialSeconds(difficulty),
		ScoreIncrement: scoreIncrement,
		AttemptsCap:    attemptsCap,
		TickInterval:   time.Second,
	}
}

// Game is one anagram play-through
type Game struct {
	mu        sync.Mutex
	sess      *engine.Session
	questions []models.Question
	cursor    int
	letters   []string
}

// New creates an anagram game in the idle phase
func New(difficulty models.Difficulty, topicID int64, hooks engine.Hooks) *Game {
	return NewWithConfig(DefaultConfig(difficulty, topicID), hooks)
}

// NewWithConfig creates a game with an explicit engine configuration
func NewWithConfig(cfg engine.Config, hooks engine.Hooks) *Game {
	g := &Game{}
	cfg.Grade = g.grade
	g.sess = engine.New(cfg, hooks)
	return g
}

// Type returns the game type
func (g *Game) Type() models.GameType { return models.GameAnagram }

// Session returns the underlying session
func (g *Game) Session() *engine.Session { return g.sess }

// Exit discards the session
func (g *Game) Exit() { g.sess.Exit() }

// Start loads the word batch and scrambles the first word
func (g *Game) Start(ctx context.Context, src content.Source) error {
	cfg := g.sess.Config()
	err := g.sess.Load(ctx, func(ctx context.Context) ([]models.Question, error) {
		return src.Fetch(ctx, models.GameAnagram, cfg.Difficulty, cfg.TopicID, cfg.RequestCount)
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.questions = g.sess.Questions()
	g.scramble()
	return nil
}

// grade runs inside Session.Submit; the submitting goroutine already
// holds g.mu.
func (g *Game) grade(att engine.Attempt) engine.Graded {
	if g.cursor >= len(g.questions) {
		return engine.Graded{Verdict: engine.VerdictPending}
	}
	q := g.questions[g.cursor]
	verdict := engine.VerdictIncorrect
	if grading.Word(att.Value, q.Word) {
		verdict = engine.VerdictCorrect
	}
	return engine.Graded{Verdict: verdict, UnitID: strconv.FormatInt(q.ID, 10)}
}

// Move reorders one letter token. Reordering is free: it has no side
// effects until the order is submitted.
func (g *Game) Move(from, to int) error {
	if g.sess.Phase() != engine.PhaseActive {
		return engine.ErrNotActive
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if from < 0 || from >= len(g.letters) || to < 0 || to >= len(g.letters) {
		return ErrNoLetter
	}
	letter := g.letters[from]
	g.letters = append(g.letters[:from], g.letters[from+1:]...)
	rest := append([]string{}, g.letters[to:]...)
	g.letters = append(append(g.letters[:to], letter), rest...)
	return nil
}

// SubmitOrder freezes the current letter order and grades it
func (g *Game) SubmitOrder() (engine.Verdict, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	verdict, err := g.sess.Submit(engine.Attempt{Value: strings.Join(g.letters, "")})
	if err != nil {
		return verdict, err
	}
	if verdict == engine.VerdictCorrect {
		g.cursor++
		g.scramble()
	}
	return verdict, nil
}

// scramble shuffles the current word's letters, avoiding the solved
// order for words longer than one letter. Caller holds g.mu.
func (g *Game) scramble() {
	if g.cursor >= len(g.questions) {
		g.letters = nil
		return
	}
	word := g.questions[g.cursor].Word
	letters := strings.Split(word, "")
	rand.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	if len(letters) > 1 && strings.Join(letters, "") == word {
		for i := 1; i < len(letters); i++ {
			if letters[i] != letters[0] {
				letters[0], letters[i] = letters[i], letters[0]
				break
			}
		}
	}
	g.letters = letters
}

// Letters returns the current letter order
func (g *Game) Letters() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.letters))
	copy(out, g.letters)
	return out
}

// Current returns the question being unscrambled
func (g *Game) Current() (models.Question, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursor >= len(g.questions) {
		return models.Question{}, false
	}
	return g.questions[g.cursor], true
}

type movePayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Apply handles the "move" and "submit" actions
func (g *Game) Apply(action games.Action) error {
	switch action.Type {
	case "move":
		var p movePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("move payload: %w", err)
		}
		return g.Move(p.From, p.To)
	case "submit":
		_, err := g.SubmitOrder()
		return err
	}
	return fmt.Errorf("unknown anagram action: %q", action.Type)
}

type detail struct {
	Letters   []string        `json:"letters"`
	WordIndex int             `json:"wordIndex"`
	WordCount int             `json:"wordCount"`
	ImageSrc  models.MediaRef `json:"imageSrc,omitempty"`
	AudioSrc  models.MediaRef `json:"audioSrc,omitempty"`
}

// View returns the UI snapshot
func (g *Game) View() games.View {
	v := games.BaseView(models.GameAnagram, g.sess)
	g.mu.Lock()
	defer g.mu.Unlock()
	d := detail{
		Letters:   append([]string{}, g.letters...),
		WordIndex: g.cursor,
		WordCount: len(g.questions),
	}
	if g.cursor < len(g.questions) {
		d.ImageSrc = g.questions[g.cursor].ImageSrc
		d.AudioSrc = g.questions[g.cursor].AudioSrc
	}
	v.Detail = d
	return v
}
