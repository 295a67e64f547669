package models

import "time"

// Topic groups questions under a theme (animals, colors, ...)
type Topic struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// Player represents a child playing the mini-games. Token is the
// opaque session identifier stored in the player's cookie.
type Player struct {
	ID          int64
	Token       string
	Name        string
	ParentEmail string
	CreatedAt   time.Time
}

// ScoreEntry is one credit in the quest-points ledger
type ScoreEntry struct {
	ID        int64
	PlayerID  int64
	Points    int
	GameType  GameType
	CreatedAt time.Time
}

// GameResult is the persisted record of one completed session
type GameResult struct {
	ID             int64
	PlayerID       int64
	GameType       GameType
	Difficulty     Difficulty
	TopicID        int64
	Score          int
	WrongAttempts  int
	ElapsedSeconds int
	EndReason      string
	PlayedAt       time.Time
}
