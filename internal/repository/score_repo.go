package repository

import (
	"wordquest/internal/database"
	"wordquest/internal/models"
)

// ScoreRepository handles the quest-points ledger
type ScoreRepository struct {
	db database.DBTX
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db database.DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Credit appends one entry to the ledger
func (r *ScoreRepository) Credit(playerID int64, points int, gameType models.GameType) error {
	query := `
		INSERT INTO score_ledger (player_id, points, game_type)
		VALUES (?, ?, ?)
	`

	_, err := r.db.Exec(query, playerID, points, string(gameType))
	return err
}

// TotalPoints returns a player's lifetime quest points
func (r *ScoreRepository) TotalPoints(playerID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM score_ledger
		WHERE player_id = ?
	`

	var total int
	err := r.db.QueryRow(query, playerID).Scan(&total)
	return total, err
}

// RecentEntries returns the latest ledger entries for a player
func (r *ScoreRepository) RecentEntries(playerID int64, limit int) ([]models.ScoreEntry, error) {
	query := `
		SELECT id, player_id, points, game_type, created_at
		FROM score_ledger
		WHERE player_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScoreEntry
	for rows.Next() {
		var entry models.ScoreEntry
		var gameType string
		if err := rows.Scan(&entry.ID, &entry.PlayerID, &entry.Points, &gameType, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.GameType = models.GameType(gameType)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
