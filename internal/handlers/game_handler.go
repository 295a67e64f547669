package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/models"
	"wordquest/internal/repository"
	"wordquest/internal/security"
	"wordquest/internal/service"
)

// GameHandler serves the play API: starting games, delivering actions,
// reading state and player scores.
type GameHandler struct {
	games   *service.GameService
	topics  *repository.TopicRepository
	scores  *repository.ScoreRepository
	results *repository.ResultRepository
	players *repository.PlayerRepository
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, topics *repository.TopicRepository, scores *repository.ScoreRepository, results *repository.ResultRepository, players *repository.PlayerRepository) *GameHandler {
	return &GameHandler{
		games:   gameService,
		topics:  topics,
		scores:  scores,
		results: results,
		players: players,
	}
}

// ListTopics handles GET /api/topics
func (h *GameHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.List()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list topics", err)
		return
	}

	type topicResponse struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	out := make([]topicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicResponse{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	respondWithJSON(w, http.StatusOK, out)
}

type startRequest struct {
	Difficulty string `json:"difficulty"`
	TopicID    int64  `json:"topicId"`
}

// StartGame handles POST /api/play/{game}/start
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	gameType, err := models.ParseGameType(r.PathValue("game"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown game", "", err)
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", err)
		return
	}
	difficulty, err := models.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	view, err := h.games.Start(r.Context(), player, gameType, difficulty, req.TopicID)
	if err != nil {
		if errors.Is(err, engine.ErrNotEnoughContent) {
			// Terminal view carries the insufficient-content end reason
			respondWithJSON(w, http.StatusOK, view)
			return
		}
		if errors.Is(err, service.ErrUnknownGameType) {
			respondWithError(w, http.StatusNotFound, "Unknown game", "", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start game", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Action handles POST /api/play/action
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var action games.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", err)
		return
	}

	view, err := h.games.Apply(player.ID, action)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, view)
	case errors.Is(err, service.ErrNoActiveGame):
		respondWithError(w, http.StatusNotFound, "No active game", "", nil)
	case errors.Is(err, engine.ErrNotActive):
		// The game already ended; hand back the terminal view
		respondWithJSON(w, http.StatusConflict, view)
	default:
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	}
}

// State handles GET /api/play/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	view, err := h.games.State(player.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveGame) {
			respondWithError(w, http.StatusNotFound, "No active game", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to read game state", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// ExitGame handles POST /api/play/exit
func (h *GameHandler) ExitGame(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.games.Exit(player.ID); err != nil {
		if errors.Is(err, service.ErrNoActiveGame) {
			respondWithError(w, http.StatusNotFound, "No active game", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to exit game", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "exited"})
}

// Me handles GET /api/me: the player's profile, total points and
// recent results.
func (h *GameHandler) Me(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	total, err := h.scores.TotalPoints(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to total points", err)
		return
	}
	recent, err := h.results.Recent(player.ID, 10)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load results", err)
		return
	}

	type resultResponse struct {
		GameType       models.GameType   `json:"gameType"`
		Difficulty     models.Difficulty `json:"difficulty"`
		Score          int               `json:"score"`
		WrongAttempts  int               `json:"wrongAttempts"`
		ElapsedSeconds int               `json:"elapsedSeconds"`
		EndReason      string            `json:"endReason"`
	}
	results := make([]resultResponse, 0, len(recent))
	for _, res := range recent {
		results = append(results, resultResponse{
			GameType:       res.GameType,
			Difficulty:     res.Difficulty,
			Score:          res.Score,
			WrongAttempts:  res.WrongAttempts,
			ElapsedSeconds: res.ElapsedSeconds,
			EndReason:      res.EndReason,
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"name":          player.Name,
		"totalPoints":   total,
		"recentResults": results,
	})
}

type profileRequest struct {
	Name        string `json:"name"`
	ParentEmail string `json:"parentEmail"`
}

// UpdateProfile handles PUT /api/me
func (h *GameHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", err)
		return
	}

	if err := h.players.UpdateProfile(player.ID, req.Name, req.ParentEmail); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to update profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Forget handles DELETE /api/me: drops the player cookie so the next
// visit starts a fresh anonymous player. Any live game is abandoned.
func (h *GameHandler) Forget(w http.ResponseWriter, r *http.Request) {
	if player, ok := GetPlayerFromContext(r.Context()); ok {
		h.games.Exit(player.ID)
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, PlayerCookieName))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "forgotten"})
}
