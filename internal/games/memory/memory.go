// Package memory implements the memory-pairs mini-game. Cards match
// on pair identity, not content, so a word card can match an image or
// audio card of the same pair. Mismatched cards flip back after a
// fixed delay during which no further flips are accepted.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"wordquest/internal/content"
	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/grading"
	"wordquest/internal/models"
)

const (
	scoreIncrement = 10
	pairCount      = 6
	mismatchDelay  = time.Second
)

var (
	// ErrFlipPending is returned while two mismatched cards are
	// face-up awaiting their flip-back.
	ErrFlipPending = errors.New("waiting for cards to flip back")

	// ErrCardUnavailable is returned for a card that is unknown,
	// already face-up, or already matched.
	ErrCardUnavailable = errors.New("card cannot be flipped")
)

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

// DefaultConfig builds the engine configuration for a memory game.
// There is no wrong-attempt cap: mismatches are counted as turns, not
// wrong attempts.
func DefaultConfig(difficulty models.Difficulty, topicID int64) engine.Config {
	return engine.Config{
		GameType:            models.GameMemory,
		Difficulty:          difficulty,
		TopicID:             topicID,
		RequestCount:        pairCount,
		MinimumViable:       2,
		InitialSeconds:      initialSeconds(difficulty),
		ScoreIncrement:      scoreIncrement,
		IgnoreWrongAttempts: true,
		TickInterval:        time.Second,
	}
}

// card is one face on the board
type card struct {
	models.Card
	FaceUp  bool
	Matched bool
}

// Game is one memory play-through
type Game struct {
	mu      sync.Mutex
	sess    *engine.Session
	cards   []card
	faceUp  []int
	pending bool
	turns   int

	// schedule defers the mismatch flip-back; tests inject their own.
	// The returned func cancels the callback.
	schedule func(d time.Duration, fn func()) func()
	cancel   func()
}

// New creates a memory game in the idle phase
func New(difficulty models.Difficulty, topicID int64, hooks engine.Hooks) *Game {
	return NewWithConfig(DefaultConfig(difficulty, topicID), hooks)
}

// NewWithConfig creates a game with an explicit engine configuration
func NewWithConfig(cfg engine.Config, hooks engine.Hooks) *Game {
	g := &Game{
		schedule: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
	}
	cfg.Grade = g.grade
	g.sess = engine.New(cfg, hooks)
	return g
}

// SetScheduler replaces the mismatch-delay scheduler (used by tests)
func (g *Game) SetScheduler(schedule func(d time.Duration, fn func()) func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.schedule = schedule
}

// Type returns the game type
func (g *Game) Type() models.GameType { return models.GameMemory }

// Session returns the underlying session
func (g *Game) Session() *engine.Session { return g.sess }

// Exit discards the session and cancels a pending flip-back
func (g *Game) Exit() {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.pending = false
	g.mu.Unlock()
	g.sess.Exit()
}

// Start loads the pair batch and lays out the shuffled board
func (g *Game) Start(ctx context.Context, src content.Source) error {
	cfg := g.sess.Config()
	err := g.sess.Load(ctx, func(ctx context.Context) ([]models.Question, error) {
		return src.Fetch(ctx, models.GameMemory, cfg.Difficulty, cfg.TopicID, cfg.RequestCount)
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, q := range g.sess.Questions() {
		for _, c := range q.Cards {
			g.cards = append(g.cards, card{Card: c})
		}
	}
	rand.Shuffle(len(g.cards), func(i, j int) {
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	})
	return nil
}

// grade runs inside Session.Submit; the flipping goroutine already
// holds g.mu. Value and SlotID are the two face-up card IDs.
func (g *Game) grade(att engine.Attempt) engine.Graded {
	a := g.findCard(att.Value)
	b := g.findCard(att.SlotID)
	if a == nil || b == nil {
		return engine.Graded{Verdict: engine.VerdictPending}
	}
	if grading.PairMatch(a.Card, b.Card) {
		return engine.Graded{
			Verdict: engine.VerdictCorrect,
			UnitID:  strconv.FormatInt(a.PairID, 10),
		}
	}
	return engine.Graded{Verdict: engine.VerdictIncorrect}
}

// Flip turns one card face-up. The flip is rejected while a mismatch
// window is pending or when the card is already face-up or matched;
// the second flip of a turn grades immediately.
func (g *Game) Flip(cardID string) (engine.Verdict, error) {
	if g.sess.Phase() != engine.PhaseActive {
		return engine.VerdictPending, engine.ErrNotActive
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending {
		return engine.VerdictPending, ErrFlipPending
	}
	idx := g.findIndex(cardID)
	if idx < 0 || g.cards[idx].FaceUp || g.cards[idx].Matched {
		return engine.VerdictPending, ErrCardUnavailable
	}

	g.cards[idx].FaceUp = true
	g.faceUp = append(g.faceUp, idx)
	if len(g.faceUp) < 2 {
		return engine.VerdictPending, nil
	}

	first, second := g.faceUp[0], g.faceUp[1]
	g.turns++
	verdict, err := g.sess.Submit(engine.Attempt{
		Value:  g.cards[first].ID,
		SlotID: g.cards[second].ID,
	})
	if err != nil {
		g.revert(first, second)
		return verdict, err
	}

	switch verdict {
	case engine.VerdictCorrect:
		g.cards[first].Matched = true
		g.cards[second].Matched = true
		g.faceUp = nil
	case engine.VerdictIncorrect:
		// Leave both face-up for the feedback window, then flip back.
		// A new schedule supersedes any earlier one.
		g.pending = true
		if g.cancel != nil {
			g.cancel()
		}
		g.cancel = g.schedule(mismatchDelay, g.flipBack)
	}
	return verdict, nil
}

// flipBack resolves the mismatch window
func (g *Game) flipBack() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.pending {
		return
	}
	for _, idx := range g.faceUp {
		g.cards[idx].FaceUp = false
	}
	g.faceUp = nil
	g.pending = false
	g.cancel = nil
}

// revert undoes a flip whose grading could not run. Caller holds g.mu.
func (g *Game) revert(first, second int) {
	g.cards[first].FaceUp = false
	g.cards[second].FaceUp = false
	g.faceUp = nil
}

// findIndex returns the board index of a card ID. Caller holds g.mu.
func (g *Game) findIndex(cardID string) int {
	for i := range g.cards {
		if g.cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// findCard returns the card with the given ID. Caller holds g.mu.
func (g *Game) findCard(cardID string) *card {
	if i := g.findIndex(cardID); i >= 0 {
		return &g.cards[i]
	}
	return nil
}

// Turns returns how many two-card turns have been taken
func (g *Game) Turns() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turns
}

// CardView is the UI-facing state of one card. Content is hidden
// while the card is face-down.
type CardView struct {
	ID          string             `json:"id"`
	FaceUp      bool               `json:"faceUp"`
	Matched     bool               `json:"matched"`
	ContentType models.CardContent `json:"contentType,omitempty"`
	Content     string             `json:"content,omitempty"`
}

// Cards returns the board in display order
func (g *Game) Cards() []CardView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cardViews()
}

// cardViews builds the board snapshot. Caller holds g.mu.
func (g *Game) cardViews() []CardView {
	out := make([]CardView, len(g.cards))
	for i, c := range g.cards {
		view := CardView{ID: c.ID, FaceUp: c.FaceUp, Matched: c.Matched}
		if c.FaceUp || c.Matched {
			view.ContentType = c.ContentType
			view.Content = c.Content
		}
		out[i] = view
	}
	return out
}

type flipPayload struct {
	CardID string `json:"cardId"`
}

// Apply handles the "flip" action
func (g *Game) Apply(action games.Action) error {
	switch action.Type {
	case "flip":
		var p flipPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("flip payload: %w", err)
		}
		_, err := g.Flip(p.CardID)
		return err
	}
	return fmt.Errorf("unknown memory action: %q", action.Type)
}

type detail struct {
	Cards []CardView `json:"cards"`
	Turns int        `json:"turns"`
}

// View returns the UI snapshot
func (g *Game) View() games.View {
	v := games.BaseView(models.GameMemory, g.sess)
	g.mu.Lock()
	defer g.mu.Unlock()
	v.Detail = detail{Cards: g.cardViews(), Turns: g.turns}
	return v
}
