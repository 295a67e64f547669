package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"wordquest/internal/content"
	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/models"
)

var (
	// ErrNoActiveGame is returned when a player has no live game
	ErrNoActiveGame = errors.New("no active game for player")

	// ErrUnknownGameType is returned for game types without a factory
	ErrUnknownGameType = errors.New("unknown game type")
)

// Event is one live update delivered to a player's subscribers
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ResultStore is the slice of the result repository the service needs
type ResultStore interface {
	Record(result models.GameResult) (int64, error)
}

// ScoreStore is the slice of the score repository the service needs
type ScoreStore interface {
	Credit(playerID int64, points int, gameType models.GameType) error
}

// ResultMailer sends the post-game summary. Satisfied by EmailService.
type ResultMailer interface {
	IsEnabled() bool
	SendResultSummary(ctx context.Context, toEmail, playerName string, gameType models.GameType, result engine.Result) error
}

// GameService manages one live game per player, wires session events
// to subscribers, and persists results when a session ends.
type GameService struct {
	registry *games.Registry
	source   content.Source
	results  ResultStore
	scores   ScoreStore
	email    ResultMailer

	mu   sync.Mutex
	live map[int64]games.Game
	subs map[int64]map[chan Event]struct{}
}

// NewGameService creates the per-player game manager
func NewGameService(registry *games.Registry, source content.Source, results ResultStore, scores ScoreStore, email ResultMailer) *GameService {
	return &GameService{
		registry: registry,
		source:   source,
		results:  results,
		scores:   scores,
		email:    email,
		live:     make(map[int64]games.Game),
		subs:     make(map[int64]map[chan Event]struct{}),
	}
}

// Start begins a new game for the player, replacing any game already
// in progress. It returns the initial view once the question batch is
// loaded and the countdown is running.
func (s *GameService) Start(ctx context.Context, player *models.Player, gameType models.GameType, difficulty models.Difficulty, topicID int64) (games.View, error) {
	factory, ok := s.registry.Get(gameType)
	if !ok {
		return games.View{}, fmt.Errorf("%w: %s", ErrUnknownGameType, gameType)
	}

	// A player plays one game at a time
	s.mu.Lock()
	old, hadOld := s.live[player.ID]
	delete(s.live, player.ID)
	s.mu.Unlock()
	if hadOld {
		old.Exit()
	}

	playerID := player.ID
	hooks := engine.Hooks{
		OnPhase: func(p engine.Phase) {
			s.publish(playerID, Event{Type: "phase", Payload: map[string]string{"phase": p.String()}})
		},
		OnTick: func(remaining int) {
			s.publish(playerID, Event{Type: "tick", Payload: map[string]int{"timeRemaining": remaining}})
		},
		OnEnded: func(result engine.Result) {
			s.publish(playerID, Event{Type: "ended", Payload: map[string]any{
				"score":          result.Score,
				"wrongAttempts":  result.WrongAttempts,
				"elapsedSeconds": result.ElapsedSeconds,
				"endReason":      result.EndReason.String(),
			}})
			s.finish(player, gameType, difficulty, topicID, result)
		},
	}

	game := factory(difficulty, topicID, hooks)

	s.mu.Lock()
	s.live[playerID] = game
	s.mu.Unlock()

	if err := game.Start(ctx, s.source); err != nil {
		if errors.Is(err, engine.ErrNotEnoughContent) {
			// The session ended itself; leave it so the client can read
			// the terminal view.
			return game.View(), err
		}
		s.mu.Lock()
		delete(s.live, playerID)
		s.mu.Unlock()
		return games.View{}, fmt.Errorf("start %s game: %w", gameType, err)
	}

	return game.View(), nil
}

// Apply delivers one user action to the player's live game and
// returns the refreshed view.
func (s *GameService) Apply(playerID int64, action games.Action) (games.View, error) {
	game, err := s.get(playerID)
	if err != nil {
		return games.View{}, err
	}
	if err := game.Apply(action); err != nil {
		return game.View(), err
	}
	return game.View(), nil
}

// State returns the current view of the player's live game
func (s *GameService) State(playerID int64) (games.View, error) {
	game, err := s.get(playerID)
	if err != nil {
		return games.View{}, err
	}
	return game.View(), nil
}

// Exit abandons the player's live game. No result is recorded.
func (s *GameService) Exit(playerID int64) error {
	s.mu.Lock()
	game, ok := s.live[playerID]
	delete(s.live, playerID)
	s.mu.Unlock()
	if !ok {
		return ErrNoActiveGame
	}
	game.Exit()
	return nil
}

// Subscribe registers a listener for the player's session events. The
// returned cancel func must be called when the listener goes away.
// Slow listeners miss events rather than blocking the session.
func (s *GameService) Subscribe(playerID int64) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.mu.Lock()
	if s.subs[playerID] == nil {
		s.subs[playerID] = make(map[chan Event]struct{})
	}
	s.subs[playerID][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if set, ok := s.subs[playerID]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(s.subs, playerID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *GameService) get(playerID int64) (games.Game, error) {
	s.mu.Lock()
	game, ok := s.live[playerID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveGame
	}
	return game, nil
}

func (s *GameService) publish(playerID int64, ev Event) {
	s.mu.Lock()
	for ch := range s.subs[playerID] {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// finish persists a completed session. Persistence failures are
// logged, never surfaced to the player.
func (s *GameService) finish(player *models.Player, gameType models.GameType, difficulty models.Difficulty, topicID int64, result engine.Result) {
	if result.EndReason == engine.EndInsufficientContent {
		// Nothing was played
		return
	}

	record := models.GameResult{
		PlayerID:       player.ID,
		GameType:       gameType,
		Difficulty:     difficulty,
		TopicID:        topicID,
		Score:          result.Score,
		WrongAttempts:  result.WrongAttempts,
		ElapsedSeconds: result.ElapsedSeconds,
		EndReason:      result.EndReason.String(),
	}
	if _, err := s.results.Record(record); err != nil {
		log.Printf("Failed to record game result for player %d: %v", player.ID, err)
	}

	if result.Score > 0 {
		if err := s.scores.Credit(player.ID, result.Score, gameType); err != nil {
			log.Printf("Failed to credit %d points to player %d: %v", result.Score, player.ID, err)
		}
	}

	if s.email != nil && s.email.IsEnabled() && player.ParentEmail != "" {
		// Off the hook goroutine: a slow SES call must not stall the
		// game that triggered the end.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.email.SendResultSummary(ctx, player.ParentEmail, player.Name, gameType, result); err != nil {
				log.Printf("Failed to send result summary for player %d: %v", player.ID, err)
			}
		}()
	}
}
