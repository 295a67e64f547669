package handlers

import (
	"context"
	"net/http"
	"time"

	"wordquest/internal/models"
	"wordquest/internal/repository"
	"wordquest/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const PlayerContextKey ContextKey = "player"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	players         *repository.PlayerRepository
	sessionDuration time.Duration
	limiter         *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(players *repository.PlayerRepository, sessionDuration time.Duration, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		players:         players,
		sessionDuration: sessionDuration,
		limiter:         limiter,
	}
}

// WithPlayer resolves the player from the session cookie, creating a
// fresh anonymous player (and cookie) on first visit. The player is
// placed on the request context.
func (m *Middleware) WithPlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player *models.Player

		if cookie, err := r.Cookie(PlayerCookieName); err == nil {
			player, err = m.players.GetByToken(cookie.Value)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to look up player", err)
				return
			}
		}

		if player == nil {
			created, err := m.players.Create("", "")
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create player", err)
				return
			}
			player = created
			expires := time.Now().Add(m.sessionDuration)
			http.SetCookie(w, security.CreateSessionCookie(r, PlayerCookieName, player.Token, expires))
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, player)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects requests once the client IP exceeds the limiter's
// window allowance.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// GetPlayerFromContext retrieves the player placed by WithPlayer
func GetPlayerFromContext(ctx context.Context) (*models.Player, bool) {
	player, ok := ctx.Value(PlayerContextKey).(*models.Player)
	return player, ok
}
