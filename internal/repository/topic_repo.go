package repository

import (
	"database/sql"
	"errors"

	"wordquest/internal/database"
	"wordquest/internal/models"
)

// TopicRepository handles topic database operations
type TopicRepository struct {
	db database.DBTX
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db database.DBTX) *TopicRepository {
	return &TopicRepository{db: db}
}

// Create inserts a topic and returns it
func (r *TopicRepository) Create(name, description string) (*models.Topic, error) {
	query := `
		INSERT INTO topics (name, description)
		VALUES (?, ?)
	`

	id, err := r.db.ExecReturningID(query, name, description)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a topic by ID
func (r *TopicRepository) GetByID(topicID int64) (*models.Topic, error) {
	query := `
		SELECT id, name, description, created_at
		FROM topics
		WHERE id = ?
	`

	topic := &models.Topic{}
	err := r.db.QueryRow(query, topicID).Scan(
		&topic.ID,
		&topic.Name,
		&topic.Description,
		&topic.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return topic, nil
}

// GetByName retrieves a topic by name, or nil if it doesn't exist
func (r *TopicRepository) GetByName(name string) (*models.Topic, error) {
	query := `
		SELECT id, name, description, created_at
		FROM topics
		WHERE name = ?
	`

	topic := &models.Topic{}
	err := r.db.QueryRow(query, name).Scan(
		&topic.ID,
		&topic.Name,
		&topic.Description,
		&topic.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return topic, nil
}

// List returns all topics ordered by name
func (r *TopicRepository) List() ([]models.Topic, error) {
	query := `
		SELECT id, name, description, created_at
		FROM topics
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var topic models.Topic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Description, &topic.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}
