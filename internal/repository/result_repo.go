package repository

import (
	"wordquest/internal/database"
	"wordquest/internal/models"
)

// ResultRepository handles persisted game results
type ResultRepository struct {
	db database.DBTX
}

// NewResultRepository creates a new result repository
func NewResultRepository(db database.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Record stores one terminal result and returns its ID
func (r *ResultRepository) Record(result models.GameResult) (int64, error) {
	query := `
		INSERT INTO game_results
			(player_id, game_type, difficulty, topic_id, score, wrong_attempts, elapsed_seconds, end_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	return r.db.ExecReturningID(query,
		result.PlayerID,
		string(result.GameType),
		string(result.Difficulty),
		result.TopicID,
		result.Score,
		result.WrongAttempts,
		result.ElapsedSeconds,
		result.EndReason,
	)
}

// Recent returns a player's latest results
func (r *ResultRepository) Recent(playerID int64, limit int) ([]models.GameResult, error) {
	query := `
		SELECT id, player_id, game_type, difficulty, topic_id,
		       score, wrong_attempts, elapsed_seconds, end_reason, played_at
		FROM game_results
		WHERE player_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.GameResult
	for rows.Next() {
		var result models.GameResult
		var gameType, difficulty string
		err := rows.Scan(
			&result.ID,
			&result.PlayerID,
			&gameType,
			&difficulty,
			&result.TopicID,
			&result.Score,
			&result.WrongAttempts,
			&result.ElapsedSeconds,
			&result.EndReason,
			&result.PlayedAt,
		)
		if err != nil {
			return nil, err
		}
		result.GameType = models.GameType(gameType)
		result.Difficulty = models.Difficulty(difficulty)
		results = append(results, result)
	}

	return results, rows.Err()
}

// SessionsPlayed returns how many sessions a player has finished
func (r *ResultRepository) SessionsPlayed(playerID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM game_results
		WHERE player_id = ?
	`

	var count int
	err := r.db.QueryRow(query, playerID).Scan(&count)
	return count, err
}
