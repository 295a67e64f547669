package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/models"
)

type stubSource struct {
	questions []models.Question
	err       error
}

func (s stubSource) Fetch(ctx context.Context, gameType models.GameType, difficulty models.Difficulty, topicID int64, count int) ([]models.Question, error) {
	return s.questions, s.err
}

// fakeScheduler captures the flip-back callback so tests control when
// the mismatch window closes.
type fakeScheduler struct {
	fn        func()
	cancelled bool
}

func (f *fakeScheduler) schedule(d time.Duration, fn func()) func() {
	f.fn = fn
	f.cancelled = false
	return func() { f.cancelled = true }
}

func (f *fakeScheduler) fire() {
	if f.fn != nil {
		f.fn()
		f.fn = nil
	}
}

func makeQuestions(words ...string) []models.Question {
	out := make([]models.Question, len(words))
	for i, w := range words {
		id := int64(i + 1)
		out[i] = models.Question{
			ID:   id,
			Word: w,
			Cards: []models.Card{
				{ID: fmt.Sprintf("%d-a", id), PairID: id, ContentType: models.CardWord, Content: w},
				{ID: fmt.Sprintf("%d-b", id), PairID: id, ContentType: models.CardImage, Content: "/img/" + w + ".png"},
			},
		}
	}
	return out
}

func newTestGame(t *testing.T, hooks engine.Hooks, sched *fakeScheduler, words ...string) *Game {
	t.Helper()
	cfg := DefaultConfig(models.DifficultyEasy, 1)
	cfg.RequestCount = len(words)
	cfg.MinimumViable = 2
	cfg.TickInterval = 0
	g := NewWithConfig(cfg, hooks)
	if sched != nil {
		g.SetScheduler(sched.schedule)
	}
	if err := g.Start(context.Background(), stubSource{questions: makeQuestions(words...)}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g
}

func TestStartLaysOutAllFacets(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, nil, "cat", "dog", "fox")

	cards := g.Cards()
	if len(cards) != 6 {
		t.Fatalf("card count = %d, want 6", len(cards))
	}
	for _, c := range cards {
		if c.FaceUp || c.Matched {
			t.Errorf("card %s must start face-down", c.ID)
		}
		if c.Content != "" {
			t.Errorf("face-down card %s leaks content %q", c.ID, c.Content)
		}
	}
}

func TestMatchingPair(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, nil, "cat", "dog")

	if verdict, err := g.Flip("1-a"); err != nil || verdict != engine.VerdictPending {
		t.Fatalf("first flip = (%v, %v), want (Pending, nil)", verdict, err)
	}
	verdict, err := g.Flip("1-b")
	if err != nil {
		t.Fatalf("second flip: %v", err)
	}
	if verdict != engine.VerdictCorrect {
		t.Fatalf("verdict = %v, want Correct", verdict)
	}
	if g.Session().Score() != 10 {
		t.Errorf("score = %d, want 10", g.Session().Score())
	}
	if g.Turns() != 1 {
		t.Errorf("turns = %d, want 1", g.Turns())
	}
	for _, c := range g.Cards() {
		if (c.ID == "1-a" || c.ID == "1-b") && !c.Matched {
			t.Errorf("card %s must be matched", c.ID)
		}
	}
}

func TestMismatchCountsTurnsNotAttempts(t *testing.T) {
	sched := &fakeScheduler{}
	g := newTestGame(t, engine.Hooks{}, sched, "cat", "dog")

	g.Flip("1-a")
	verdict, err := g.Flip("2-a")
	if err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if verdict != engine.VerdictIncorrect {
		t.Fatalf("verdict = %v, want Incorrect", verdict)
	}
	if g.Turns() != 1 {
		t.Errorf("turns = %d, want 1", g.Turns())
	}
	if g.Session().WrongAttempts() != 0 {
		t.Errorf("wrong attempts = %d, want 0 (mismatches are turns)", g.Session().WrongAttempts())
	}

	// Both stay face-up through the feedback window
	faceUp := 0
	for _, c := range g.Cards() {
		if c.FaceUp {
			faceUp++
		}
	}
	if faceUp != 2 {
		t.Errorf("face-up cards = %d, want 2 during the window", faceUp)
	}

	// No flips while the window is pending
	if _, err := g.Flip("2-b"); !errors.Is(err, ErrFlipPending) {
		t.Errorf("flip during window error = %v, want ErrFlipPending", err)
	}

	sched.fire()
	for _, c := range g.Cards() {
		if c.FaceUp {
			t.Errorf("card %s still face-up after the flip-back", c.ID)
		}
	}
	if _, err := g.Flip("2-b"); err != nil {
		t.Errorf("flip after window: %v", err)
	}
}

func TestFlipRejections(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, nil, "cat", "dog")

	if _, err := g.Flip("9-z"); !errors.Is(err, ErrCardUnavailable) {
		t.Errorf("unknown card error = %v, want ErrCardUnavailable", err)
	}
	g.Flip("1-a")
	if _, err := g.Flip("1-a"); !errors.Is(err, ErrCardUnavailable) {
		t.Errorf("re-flip error = %v, want ErrCardUnavailable", err)
	}
	g.Flip("1-b") // matched pair
	if _, err := g.Flip("1-a"); !errors.Is(err, ErrCardUnavailable) {
		t.Errorf("matched card error = %v, want ErrCardUnavailable", err)
	}
}

func TestCompletionEndsGame(t *testing.T) {
	var results []engine.Result
	g := newTestGame(t, engine.Hooks{OnEnded: func(r engine.Result) { results = append(results, r) }}, nil, "cat", "dog")

	g.Flip("1-a")
	g.Flip("1-b")
	g.Flip("2-a")
	g.Flip("2-b")

	if g.Session().Phase() != engine.PhaseEnded {
		t.Fatalf("phase = %v, want Ended", g.Session().Phase())
	}
	if len(results) != 1 || results[0].EndReason != engine.EndCompleted || results[0].Score != 20 {
		t.Errorf("results = %+v, want one EndCompleted with score 20", results)
	}
}

func TestExitCancelsFlipBack(t *testing.T) {
	sched := &fakeScheduler{}
	g := newTestGame(t, engine.Hooks{}, sched, "cat", "dog")

	g.Flip("1-a")
	g.Flip("2-a")
	g.Exit()

	if !sched.cancelled {
		t.Error("exit must cancel the scheduled flip-back")
	}
	if g.Session().Phase() != engine.PhaseEnded {
		t.Errorf("phase = %v, want Ended", g.Session().Phase())
	}
	if _, ok := g.Session().Result(); ok {
		t.Error("exited game must have no result")
	}
}

func TestFaceUpCardRevealsContent(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, nil, "cat", "dog")

	g.Flip("1-a")
	for _, c := range g.Cards() {
		if c.ID == "1-a" {
			if c.Content != "cat" || c.ContentType != models.CardWord {
				t.Errorf("face-up card = %+v, want its word content", c)
			}
		} else if c.Content != "" {
			t.Errorf("face-down card %s leaks content", c.ID)
		}
	}
}

func TestApplyFlip(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, nil, "cat", "dog")

	payload, _ := json.Marshal(map[string]string{"cardId": "1-a"})
	if err := g.Apply(games.Action{Type: "flip", Payload: payload}); err != nil {
		t.Fatalf("Apply flip: %v", err)
	}
	if err := g.Apply(games.Action{Type: "peek"}); err == nil {
		t.Error("expected an error for an unknown action type")
	}
}
