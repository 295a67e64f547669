// Package games defines the adapter contract the four mini-games
// implement around the shared session engine, plus a registry the
// server uses to construct them by game type.
package games

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"wordquest/internal/content"
	"wordquest/internal/engine"
	"wordquest/internal/models"
)

// Action is one user input delivered to a game, with a variant-typed
// payload.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// View is the UI-facing snapshot of a game. Detail carries the
// variant-specific board state.
type View struct {
	GameType      models.GameType  `json:"gameType"`
	Phase         string           `json:"phase"`
	Score         int              `json:"score"`
	WrongAttempts int              `json:"wrongAttempts"`
	TimeRemaining int              `json:"timeRemaining"`
	EndReason     string           `json:"endReason"`
	Detail        any              `json:"detail,omitempty"`
}

// Game is one live mini-game instance wrapping a session
type Game interface {
	Type() models.GameType
	Session() *engine.Session

	// Start loads the question batch and activates the session
	Start(ctx context.Context, src content.Source) error

	// Apply translates one user action into session input
	Apply(action Action) error

	// View returns the current snapshot for the UI
	View() View

	// Exit discards the session and cancels any scheduled work
	Exit()
}

// Factory builds a game for a difficulty and topic
type Factory func(difficulty models.Difficulty, topicID int64, hooks engine.Hooks) Game

// Registry maps game types to their factories
type Registry struct {
	mu        sync.RWMutex
	factories map[models.GameType]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[models.GameType]Factory)}
}

// Register adds a factory. Panics on duplicate registration.
func (r *Registry) Register(gt models.GameType, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[gt]; exists {
		panic(fmt.Sprintf("game %q already registered", gt))
	}
	r.factories[gt] = f
}

// Get returns the factory for a game type
func (r *Registry) Get(gt models.GameType) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[gt]
	return f, ok
}

// Types lists the registered game types
func (r *Registry) Types() []models.GameType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]models.GameType, 0, len(r.factories))
	for gt := range r.factories {
		types = append(types, gt)
	}
	return types
}

// BaseView builds the shared part of a view from a session
func BaseView(gt models.GameType, s *engine.Session) View {
	return View{
		GameType:      gt,
		Phase:         s.Phase().String(),
		Score:         s.Score(),
		WrongAttempts: s.WrongAttempts(),
		TimeRemaining: s.TimeRemaining(),
		EndReason:     s.EndReason().String(),
	}
}
