package repository

import (
	"wordquest/internal/database"
	"wordquest/internal/models"
)

// QuestionRepository handles question catalog database operations
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question and returns its ID
func (r *QuestionRepository) Create(q models.Question) (int64, error) {
	query := `
		INSERT INTO questions (topic_id, word, difficulty, image_src, audio_src)
		VALUES (?, ?, ?, ?, ?)
	`

	return r.db.ExecReturningID(query,
		q.TopicID,
		q.Word,
		string(q.Difficulty),
		string(q.ImageSrc),
		string(q.AudioSrc),
	)
}

// QuestionsByTopic retrieves all questions for a topic and difficulty
func (r *QuestionRepository) QuestionsByTopic(topicID int64, difficulty models.Difficulty) ([]models.Question, error) {
	query := `
		SELECT id, topic_id, word, difficulty, image_src, audio_src
		FROM questions
		WHERE topic_id = ? AND difficulty = ?
	`

	rows, err := r.db.Query(query, topicID, string(difficulty))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var difficulty, imageSrc, audioSrc string
		if err := rows.Scan(&q.ID, &q.TopicID, &q.Word, &difficulty, &imageSrc, &audioSrc); err != nil {
			return nil, err
		}
		q.Difficulty = models.Difficulty(difficulty)
		q.ImageSrc = models.MediaRef(imageSrc)
		q.AudioSrc = models.MediaRef(audioSrc)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// CountByTopic returns how many questions a topic has per difficulty
func (r *QuestionRepository) CountByTopic(topicID int64, difficulty models.Difficulty) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM questions
		WHERE topic_id = ? AND difficulty = ?
	`

	var count int
	err := r.db.QueryRow(query, topicID, string(difficulty)).Scan(&count)
	return count, err
}

// ExistsInTopic reports whether a word is already in the topic
func (r *QuestionRepository) ExistsInTopic(topicID int64, word string, difficulty models.Difficulty) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM questions
		WHERE topic_id = ? AND word = ? AND difficulty = ?
	`

	var count int
	if err := r.db.QueryRow(query, topicID, word, string(difficulty)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
