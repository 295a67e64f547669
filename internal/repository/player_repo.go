package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"wordquest/internal/database"
	"wordquest/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db database.DBTX
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db database.DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts a player with a fresh session token
func (r *PlayerRepository) Create(name, parentEmail string) (*models.Player, error) {
	token := uuid.New().String()
	query := `
		INSERT INTO players (token, name, parent_email)
		VALUES (?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, token, name, parentEmail)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(playerID int64) (*models.Player, error) {
	return r.getOne("id = ?", playerID)
}

// GetByToken retrieves a player by session token, or nil if the token
// is unknown.
func (r *PlayerRepository) GetByToken(token string) (*models.Player, error) {
	player, err := r.getOne("token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return player, err
}

// UpdateProfile sets a player's display name and parent email
func (r *PlayerRepository) UpdateProfile(playerID int64, name, parentEmail string) error {
	query := `
		UPDATE players
		SET name = ?, parent_email = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, name, parentEmail, playerID)
	return err
}

func (r *PlayerRepository) getOne(where string, arg interface{}) (*models.Player, error) {
	query := `
		SELECT id, token, name, parent_email, created_at
		FROM players
		WHERE ` + where

	player := &models.Player{}
	err := r.db.QueryRow(query, arg).Scan(
		&player.ID,
		&player.Token,
		&player.Name,
		&player.ParentEmail,
		&player.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return player, nil
}
