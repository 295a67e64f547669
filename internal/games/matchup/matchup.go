// Package matchup implements the word-to-image match mini-game. Each
// of the eight slots shows an image and owns one word; placements are
// graded against the slot the player explicitly targeted.
package matchup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"wordquest/internal/content"
	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/grading"
	"wordquest/internal/models"
)

const (
	attemptsCap    = 10
	scoreIncrement = 10
	slotCount      = 8
)

var (
	// ErrUnknownSlot is returned when the placement targets a slot
	// that does not exist. Placements always name an explicit target;
	// there is no "first empty slot" fallback.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrSlotSolved is returned for a placement into an already
	// correctly-filled slot.
	ErrSlotSolved = errors.New("slot already solved")

	// ErrWordLocked is returned when moving a correctly-placed word is
	// not allowed by configuration.
	ErrWordLocked = errors.New("word is locked in its slot")
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

// Config extends the engine configuration with the match-up policy
// for un-assigning correctly placed words.
type Config struct {
	Engine               engine.Config
	AllowUnassignCorrect bool
}

// DefaultConfig builds the configuration for a match-up game. The
// batch must fill all eight slots, so the minimum viable count equals
// the request count.
func DefaultConfig(difficulty models.Difficulty, topicID int64) Config {
	return Config{
		Engine: engine.Config{
			GameType:       models.GameMatchUp,
			Difficulty:     difficulty,
			TopicID:        topicID,
			RequestCount:   slotCount,
			MinimumViable:  slotCount,
			InitialSeconds: initialSeconds(difficulty),
			ScoreIncrement: scoreIncrement,
			AttemptsCap:    attemptsCap,
			TickInterval:   time.Second,
		},
	}
}

// Slot is one target position requiring exactly one correct word
type Slot struct {
	ID       string          `json:"id"`
	ImageSrc models.MediaRef `json:"imageSrc"`
	Placed   string          `json:"placed,omitempty"`
	Solved   bool            `json:"solved"`

	word string
}

// Game is one match-up play-through
type Game struct {
	mu            sync.Mutex
	sess          *engine.Session
	slots         []Slot
	pool          []string
	allowUnassign bool
}

// New creates a match-up game in the idle phase
func New(difficulty models.Difficulty, topicID int64, hooks engine.Hooks) *Game {
	return NewWithConfig(DefaultConfig(difficulty, topicID), hooks)
}

// NewWithConfig creates a game with an explicit configuration
func NewWithConfig(cfg Config, hooks engine.Hooks) *Game {
	g := &Game{allowUnassign: cfg.AllowUnassignCorrect}
	cfg.Engine.Grade = g.grade
	g.sess = engine.New(cfg.Engine, hooks)
	return g
}

// Type returns the game type
func (g *Game) Type() models.GameType { return models.GameMatchUp }

// Session returns the underlying session
func (g *Game) Session() *engine.Session { return g.sess }

// Exit discards the session
func (g *Game) Exit() { g.sess.Exit() }

// Start loads the batch and builds the slot board. The word pool is
// the batch's own words; the content source shuffles the choice order.
func (g *Game) Start(ctx context.Context, src content.Source) error {
	cfg := g.sess.Config()
	err := g.sess.Load(ctx, func(ctx context.Context) ([]models.Question, error) {
		return src.Fetch(ctx, models.GameMatchUp, cfg.Difficulty, cfg.TopicID, cfg.RequestCount)
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	questions := g.sess.Questions()
	g.slots = make([]Slot, len(questions))
	for i, q := range questions {
		g.slots[i] = Slot{
			ID:       fmt.Sprintf("slot-%d", q.ID),
			ImageSrc: q.ImageSrc,
			word:     q.Word,
		}
		if len(q.Choices) > 0 {
			g.pool = q.Choices
		}
	}
	return nil
}

// grade runs inside Session.Submit; the submitting goroutine already
// holds g.mu. The placement is graded against the word owned by the
// targeted slot only.
func (g *Game) grade(att engine.Attempt) engine.Graded {
	slot := g.findSlot(att.SlotID)
	if slot == nil {
		return engine.Graded{Verdict: engine.VerdictPending}
	}
	verdict := engine.VerdictIncorrect
	if grading.SlotWord(att.Value, slot.word) {
		verdict = engine.VerdictCorrect
	}
	return engine.Graded{Verdict: verdict, UnitID: slot.ID}
}

// Place drops a word into the slot the player targeted. A word may
// occupy at most one slot at a time: placing it removes it from any
// slot it held, unless that placement was correct and un-assigning
// correct placements is disabled. Vacating a solved slot revokes its
// credit, so the session completes only when every slot is solved.
func (g *Game) Place(word, slotID string) (engine.Verdict, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.findSlot(slotID)
	if target == nil {
		return engine.VerdictPending, ErrUnknownSlot
	}
	if target.Solved {
		return engine.VerdictPending, ErrSlotSolved
	}
	prev := g.findPlacement(word)
	if prev != nil && prev.ID != target.ID && prev.Solved && !g.allowUnassign {
		return engine.VerdictPending, ErrWordLocked
	}

	// The board mutates only once the session accepts the attempt
	verdict, err := g.sess.Submit(engine.Attempt{Value: word, SlotID: slotID})
	if err != nil {
		return verdict, err
	}
	if prev != nil && prev.ID != target.ID {
		if prev.Solved {
			g.sess.Unsolve(prev.ID)
		}
		prev.Placed = ""
		prev.Solved = false
	}
	if verdict == engine.VerdictCorrect {
		target.Placed = word
		target.Solved = true
	}
	return verdict, nil
}

// findSlot returns the slot with the given ID. Caller holds g.mu.
func (g *Game) findSlot(slotID string) *Slot {
	for i := range g.slots {
		if g.slots[i].ID == slotID {
			return &g.slots[i]
		}
	}
	return nil
}

// findPlacement returns the slot currently holding a word, if any.
// Caller holds g.mu.
func (g *Game) findPlacement(word string) *Slot {
	for i := range g.slots {
		if g.slots[i].Placed != "" && grading.Word(g.slots[i].Placed, word) {
			return &g.slots[i]
		}
	}
	return nil
}

// Slots returns a copy of the board
func (g *Game) Slots() []Slot {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Slot, len(g.slots))
	copy(out, g.slots)
	return out
}

type placePayload struct {
	Word   string `json:"word"`
	SlotID string `json:"slotId"`
}

// Apply handles the "place" action; drag-end and click-to-place both
// funnel into it.
func (g *Game) Apply(action games.Action) error {
	switch action.Type {
	case "place":
		var p placePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("place payload: %w", err)
		}
		_, err := g.Place(p.Word, p.SlotID)
		return err
	}
	return fmt.Errorf("unknown matchup action: %q", action.Type)
}

type detail struct {
	Slots []Slot   `json:"slots"`
	Pool  []string `json:"pool"`
}

// View returns the UI snapshot
func (g *Game) View() games.View {
	v := games.BaseView(models.GameMatchUp, g.sess)
	g.mu.Lock()
	defer g.mu.Unlock()
	v.Detail = detail{
		Slots: append([]Slot{}, g.slots...),
		Pool:  append([]string{}, g.pool...),
	}
	return v
}
