// Package spellingbee implements the spelling mini-game. The player
// spells the prompted word one letter at a time on an on-screen
// keyboard; grading runs only once the buffer reaches the target
// length, and backspace is always free.
package spellingbee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode"

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

// ErrNotALetter is returned for non-letter keyboard input
var ErrNotALetter = errors.New("input is not a letter")

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

// DefaultConfig builds the engine configuration for a spelling game
func DefaultConfig(difficulty models.Difficulty, topicID int64) engine.Config {
	return engine.Config{
		GameType:       models.GameSpellingBee,
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

// Game is one spelling-bee play-through
type Game struct {
	mu        sync.Mutex
	sess      *engine.Session
	questions []models.Question
	cursor    int
	typed     []rune
}

// New creates a spelling-bee game in the idle phase
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
func (g *Game) Type() models.GameType { return models.GameSpellingBee }

// Session returns the underlying session
func (g *Game) Session() *engine.Session { return g.sess }

// Exit discards the session
func (g *Game) Exit() { g.sess.Exit() }

// Start loads the word batch
func (g *Game) Start(ctx context.Context, src content.Source) error {
	cfg := g.sess.Config()
	err := g.sess.Load(ctx, func(ctx context.Context) ([]models.Question, error) {
		return src.Fetch(ctx, models.GameSpellingBee, cfg.Difficulty, cfg.TopicID, cfg.RequestCount)
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.questions = g.sess.Questions()
	return nil
}

// grade runs inside Session.Submit; the typing goroutine already
// holds g.mu.
func (g *Game) grade(att engine.Attempt) engine.Graded {
	if g.cursor >= len(g.questions) {
		return engine.Graded{Verdict: engine.VerdictPending}
	}
	q := g.questions[g.cursor]
	ready, correct := grading.FullLength(att.Value, q.Word)
	if !ready {
		return engine.Graded{Verdict: engine.VerdictPending}
	}
	verdict := engine.VerdictIncorrect
	if correct {
		verdict = engine.VerdictCorrect
	}
	return engine.Graded{Verdict: verdict, UnitID: strconv.FormatInt(q.ID, 10)}
}

// TypeLetter appends one letter to the buffer. Grading runs only when
// the buffer reaches the target word's length; on a wrong word the
// buffer clears for another try.
func (g *Game) TypeLetter(r rune) (engine.Verdict, error) {
	if !unicode.IsLetter(r) {
		return engine.VerdictPending, ErrNotALetter
	}
	if g.sess.Phase() != engine.PhaseActive {
		return engine.VerdictPending, engine.ErrNotActive
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursor >= len(g.questions) {
		return engine.VerdictPending, nil
	}

	g.typed = append(g.typed, unicode.ToLower(r))
	if len(g.typed) < len([]rune(g.questions[g.cursor].Word)) {
		return engine.VerdictPending, nil
	}

	verdict, err := g.sess.Submit(engine.Attempt{Value: string(g.typed)})
	if err != nil {
		return verdict, err
	}
	g.typed = nil
	if verdict == engine.VerdictCorrect {
		g.cursor++
	}
	return verdict, nil
}

// Backspace removes the last typed letter. It is always permitted
// before grading and never counts as an attempt.
func (g *Game) Backspace() {
	if g.sess.Phase() != engine.PhaseActive {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.typed) > 0 {
		g.typed = g.typed[:len(g.typed)-1]
	}
}

// Typed returns the current buffer
func (g *Game) Typed() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return string(g.typed)
}

// Current returns the question being spelled
func (g *Game) Current() (models.Question, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursor >= len(g.questions) {
		return models.Question{}, false
	}
	return g.questions[g.cursor], true
}

type letterPayload struct {
	Letter string `json:"letter"`
}

// Apply handles the "letter" and "backspace" actions
func (g *Game) Apply(action games.Action) error {
	switch action.Type {
	case "letter":
		var p letterPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("letter payload: %w", err)
		}
		runes := []rune(p.Letter)
		if len(runes) != 1 {
			return ErrNotALetter
		}
		_, err := g.TypeLetter(runes[0])
		return err
	case "backspace":
		g.Backspace()
		return nil
	}
	return fmt.Errorf("unknown spellingbee action: %q", action.Type)
}

type detail struct {
	Typed      string          `json:"typed"`
	WordLength int             `json:"wordLength"`
	WordIndex  int             `json:"wordIndex"`
	WordCount  int             `json:"wordCount"`
	AudioSrc   models.MediaRef `json:"audioSrc,omitempty"`
	ImageSrc   models.MediaRef `json:"imageSrc,omitempty"`
}

// View returns the UI snapshot. The target word itself is never
// included; the UI gets its length and the audio prompt.
func (g *Game) View() games.View {
	v := games.BaseView(models.GameSpellingBee, g.sess)
	g.mu.Lock()
	defer g.mu.Unlock()
	d := detail{
		Typed:     string(g.typed),
		WordIndex: g.cursor,
		WordCount: len(g.questions),
	}
	if g.cursor < len(g.questions) {
		q := g.questions[g.cursor]
		d.WordLength = len([]rune(q.Word))
		d.AudioSrc = q.AudioSrc
		d.ImageSrc = q.ImageSrc
	}
	v.Detail = d
	return v
}
