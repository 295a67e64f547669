package anagram

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/models"
)

func gamesAction(typ string, payload []byte) games.Action {
	return games.Action{Type: typ, Payload: payload}
}

type stubSource struct {
	questions []models.Question
	err       error
}

func (s stubSource) Fetch(ctx context.Context, gameType models.GameType, difficulty models.Difficulty, topicID int64, count int) ([]models.Question, error) {
	return s.questions, s.err
}

// newTestGame builds an active game over the given words with the
// internal countdown disabled.
func newTestGame(t *testing.T, hooks engine.Hooks, words ...string) *Game {
	t.Helper()
	questions := make([]models.Question, len(words))
	for i, w := range words {
		questions[i] = models.Question{ID: int64(i + 1), Word: w}
	}
	cfg := DefaultConfig(models.DifficultyEasy, 1)
	cfg.RequestCount = len(words)
	cfg.MinimumViable = 1
	cfg.TickInterval = 0
	g := NewWithConfig(cfg, hooks)
	if err := g.Start(context.Background(), stubSource{questions: questions}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g
}

// arrange moves letters into the solved order using the public Move API
func arrange(t *testing.T, g *Game, word string) {
	t.Helper()
	target := strings.Split(word, "")
	for i := range target {
		letters := g.Letters()
		for j := i; j < len(letters); j++ {
			if letters[j] == target[i] {
				if err := g.Move(j, i); err != nil {
					t.Fatalf("Move(%d, %d): %v", j, i, err)
				}
				break
			}
		}
	}
}

func TestStartScramblesFirstWord(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, "planet")

	letters := g.Letters()
	if len(letters) != len("planet") {
		t.Fatalf("letter count = %d, want %d", len(letters), len("planet"))
	}
	if strings.Join(letters, "") == "planet" {
		t.Error("initial order must not be the solved order")
	}

	// Same multiset of letters
	sorted := append([]string{}, letters...)
	want := strings.Split("planet", "")
	if len(sorted) == len(want) {
		counts := map[string]int{}
		for _, l := range sorted {
			counts[l]++
		}
		for _, l := range want {
			counts[l]--
		}
		for l, n := range counts {
			if n != 0 {
				t.Errorf("letter %q count off by %d", l, n)
			}
		}
	}
}

func TestMoveOutOfRange(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, "cat")
	if err := g.Move(0, 9); !errors.Is(err, ErrNoLetter) {
		t.Errorf("Move error = %v, want ErrNoLetter", err)
	}
	if err := g.Move(-1, 0); !errors.Is(err, ErrNoLetter) {
		t.Errorf("Move error = %v, want ErrNoLetter", err)
	}
}

func TestWrongOrderCountsAttempt(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, "cat", "dog")

	// The scrambled order is never the solved order
	verdict, err := g.SubmitOrder()
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if verdict != engine.VerdictIncorrect {
		t.Fatalf("verdict = %v, want Incorrect", verdict)
	}
	if g.Session().WrongAttempts() != 1 {
		t.Errorf("wrong attempts = %d, want 1", g.Session().WrongAttempts())
	}
	if g.Session().Score() != 0 {
		t.Errorf("score = %d, want 0", g.Session().Score())
	}
	// Letters stay put for another try
	if q, _ := g.Current(); q.Word != "cat" {
		t.Errorf("current word = %q, want cat", q.Word)
	}
}

func TestCorrectOrderAdvances(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, "cat", "dog")

	arrange(t, g, "cat")
	verdict, err := g.SubmitOrder()
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if verdict != engine.VerdictCorrect {
		t.Fatalf("verdict = %v, want Correct", verdict)
	}
	if g.Session().Score() != 10 {
		t.Errorf("score = %d, want 10", g.Session().Score())
	}
	q, ok := g.Current()
	if !ok || q.Word != "dog" {
		t.Errorf("current word = %q, want dog", q.Word)
	}
	if strings.Join(g.Letters(), "") == "dog" {
		t.Error("next word must arrive scrambled")
	}
}

func TestCompletionEndsGame(t *testing.T) {
	var results []engine.Result
	g := newTestGame(t, engine.Hooks{OnEnded: func(r engine.Result) { results = append(results, r) }}, "cat", "dog")

	for _, word := range []string{"cat", "dog"} {
		arrange(t, g, word)
		if _, err := g.SubmitOrder(); err != nil {
			t.Fatalf("SubmitOrder(%s): %v", word, err)
		}
	}

	if g.Session().Phase() != engine.PhaseEnded {
		t.Fatalf("phase = %v, want Ended", g.Session().Phase())
	}
	if len(results) != 1 {
		t.Fatalf("OnEnded fired %d times, want 1", len(results))
	}
	if results[0].Score != 20 || results[0].EndReason != engine.EndCompleted {
		t.Errorf("result = %+v, want score 20, EndCompleted", results[0])
	}
	if g.Letters() != nil && len(g.Letters()) != 0 {
		t.Errorf("letters after completion = %v, want none", g.Letters())
	}
}

func TestAttemptsCapEndsGame(t *testing.T) {
	questions := []models.Question{{ID: 1, Word: "cat"}}
	cfg := DefaultConfig(models.DifficultyEasy, 1)
	cfg.RequestCount = 1
	cfg.MinimumViable = 1
	cfg.AttemptsCap = 2
	cfg.TickInterval = 0
	g := NewWithConfig(cfg, engine.Hooks{})
	if err := g.Start(context.Background(), stubSource{questions: questions}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	g.SubmitOrder()
	g.SubmitOrder()

	if g.Session().Phase() != engine.PhaseEnded {
		t.Fatalf("phase = %v, want Ended", g.Session().Phase())
	}
	if g.Session().EndReason() != engine.EndMaxAttempts {
		t.Errorf("end reason = %v, want EndMaxAttempts", g.Session().EndReason())
	}
	if _, err := g.SubmitOrder(); !errors.Is(err, engine.ErrNotActive) {
		t.Errorf("submit after end error = %v, want ErrNotActive", err)
	}
}

func TestStartInsufficientContent(t *testing.T) {
	cfg := DefaultConfig(models.DifficultyEasy, 1)
	cfg.TickInterval = 0
	g := NewWithConfig(cfg, engine.Hooks{})

	err := g.Start(context.Background(), stubSource{})
	if !errors.Is(err, engine.ErrNotEnoughContent) {
		t.Fatalf("Start error = %v, want ErrNotEnoughContent", err)
	}
	if g.Session().EndReason() != engine.EndInsufficientContent {
		t.Errorf("end reason = %v, want EndInsufficientContent", g.Session().EndReason())
	}
}

func TestApplyActions(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, "ab")

	move, _ := json.Marshal(map[string]int{"from": 0, "to": 1})
	if err := g.Apply(gamesAction("move", move)); err != nil {
		t.Fatalf("Apply move: %v", err)
	}
	if err := g.Apply(gamesAction("submit", nil)); err != nil {
		t.Fatalf("Apply submit: %v", err)
	}
	if err := g.Apply(gamesAction("jump", nil)); err == nil {
		t.Error("expected an error for an unknown action type")
	}
}

func TestViewDetail(t *testing.T) {
	g := newTestGame(t, engine.Hooks{}, "cat", "dog")

	v := g.View()
	if v.GameType != models.GameAnagram {
		t.Errorf("view game type = %q", v.GameType)
	}
	d, ok := v.Detail.(detail)
	if !ok {
		t.Fatalf("detail type = %T", v.Detail)
	}
	if d.WordIndex != 0 || d.WordCount != 2 {
		t.Errorf("detail = %+v, want index 0 of 2", d)
	}
	if len(d.Letters) != 3 {
		t.Errorf("letters = %v, want 3 tokens", d.Letters)
	}
}
