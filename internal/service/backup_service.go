package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"wordquest/internal/database"
)

// BackupData is the full JSON export of the database
type BackupData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Topics     []topicBackup    `json:"topics"`
	Questions  []questionBackup `json:"questions"`
	Players    []playerBackup   `json:"players"`
	Scores     []scoreBackup    `json:"scores"`
	Results    []resultBackup   `json:"results"`
}

type topicBackup struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type questionBackup struct {
	ID         int64     `json:"id"`
	TopicID    int64     `json:"topic_id"`
	Word       string    `json:"word"`
	Difficulty string    `json:"difficulty"`
	ImageSrc   string    `json:"image_src"`
	AudioSrc   string    `json:"audio_src"`
	CreatedAt  time.Time `json:"created_at"`
}

type playerBackup struct {
	ID          int64     `json:"id"`
	Token       string    `json:"token"`
	Name        string    `json:"name"`
	ParentEmail string    `json:"parent_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type scoreBackup struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	Points    int       `json:"points"`
	GameType  string    `json:"game_type"`
	CreatedAt time.Time `json:"created_at"`
}

type resultBackup struct {
	ID             int64     `json:"id"`
	PlayerID       int64     `json:"player_id"`
	GameType       string    `json:"game_type"`
	Difficulty     string    `json:"difficulty"`
	TopicID        int64     `json:"topic_id"`
	Score          int       `json:"score"`
	WrongAttempts  int       `json:"wrong_attempts"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	EndReason      string    `json:"end_reason"`
	PlayedAt       time.Time `json:"played_at"`
}

// BackupService exports and imports the database as JSON
type BackupService struct {
	db *database.DB
}

func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes the full database contents to w as JSON
func (s *BackupService) Export(w io.Writer) error {
	data := BackupData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if data.Topics, err = s.exportTopics(); err != nil {
		return fmt.Errorf("failed to export topics: %w", err)
	}
	if data.Questions, err = s.exportQuestions(); err != nil {
		return fmt.Errorf("failed to export questions: %w", err)
	}
	if data.Players, err = s.exportPlayers(); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	if data.Scores, err = s.exportScores(); err != nil {
		return fmt.Errorf("failed to export scores: %w", err)
	}
	if data.Results, err = s.exportResults(); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported %d topics, %d questions, %d players, %d score entries, %d results",
		len(data.Topics), len(data.Questions), len(data.Players), len(data.Scores), len(data.Results))
	return nil
}

// ExportToFile exports the database to the named file
func (s *BackupService) ExportToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()
	return s.Export(f)
}

// Import restores a backup produced by Export. When clear is true the
// existing rows are deleted first; the whole restore runs in a single
// transaction so a failed import leaves the database untouched.
func (s *BackupService) Import(r io.Reader, clear bool) error {
	var data BackupData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if data.Version != "1.0" {
		return fmt.Errorf("unsupported backup version: %s", data.Version)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clear {
		// Child tables first so foreign keys stay satisfied
		for _, table := range []string{"game_results", "score_ledger", "players", "questions", "topics"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	for _, t := range data.Topics {
		_, err := tx.Exec(
			"INSERT INTO topics (id, name, description, created_at) VALUES (?, ?, ?, ?)",
			t.ID, t.Name, t.Description, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import topic %q: %w", t.Name, err)
		}
	}

	for _, q := range data.Questions {
		_, err := tx.Exec(
			"INSERT INTO questions (id, topic_id, word, difficulty, image_src, audio_src, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			q.ID, q.TopicID, q.Word, q.Difficulty, q.ImageSrc, q.AudioSrc, q.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import question %q: %w", q.Word, err)
		}
	}

	for _, p := range data.Players {
		_, err := tx.Exec(
			"INSERT INTO players (id, token, name, parent_email, created_at) VALUES (?, ?, ?, ?, ?)",
			p.ID, p.Token, p.Name, p.ParentEmail, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import player %d: %w", p.ID, err)
		}
	}

	for _, e := range data.Scores {
		_, err := tx.Exec(
			"INSERT INTO score_ledger (id, player_id, points, game_type, created_at) VALUES (?, ?, ?, ?, ?)",
			e.ID, e.PlayerID, e.Points, e.GameType, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import score entry %d: %w", e.ID, err)
		}
	}

	for _, res := range data.Results {
		_, err := tx.Exec(
			"INSERT INTO game_results (id, player_id, game_type, difficulty, topic_id, score, wrong_attempts, elapsed_seconds, end_reason, played_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			res.ID, res.PlayerID, res.GameType, res.Difficulty, res.TopicID,
			res.Score, res.WrongAttempts, res.ElapsedSeconds, res.EndReason, res.PlayedAt)
		if err != nil {
			return fmt.Errorf("failed to import result %d: %w", res.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Imported %d topics, %d questions, %d players, %d score entries, %d results",
		len(data.Topics), len(data.Questions), len(data.Players), len(data.Scores), len(data.Results))
	return nil
}

// ImportFromFile restores a backup from the named file
func (s *BackupService) ImportFromFile(path string, clear bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()
	return s.Import(f, clear)
}

func (s *BackupService) exportTopics() ([]topicBackup, error) {
	rows, err := s.db.Query("SELECT id, name, description, created_at FROM topics ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []topicBackup
	for rows.Next() {
		var t topicBackup
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *BackupService) exportQuestions() ([]questionBackup, error) {
	rows, err := s.db.Query("SELECT id, topic_id, word, difficulty, image_src, audio_src, created_at FROM questions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []questionBackup
	for rows.Next() {
		var q questionBackup
		if err := rows.Scan(&q.ID, &q.TopicID, &q.Word, &q.Difficulty, &q.ImageSrc, &q.AudioSrc, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *BackupService) exportPlayers() ([]playerBackup, error) {
	rows, err := s.db.Query("SELECT id, token, name, parent_email, created_at FROM players ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []playerBackup
	for rows.Next() {
		var p playerBackup
		if err := rows.Scan(&p.ID, &p.Token, &p.Name, &p.ParentEmail, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *BackupService) exportScores() ([]scoreBackup, error) {
	rows, err := s.db.Query("SELECT id, player_id, points, game_type, created_at FROM score_ledger ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scoreBackup
	for rows.Next() {
		var e scoreBackup
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.Points, &e.GameType, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *BackupService) exportResults() ([]resultBackup, error) {
	rows, err := s.db.Query("SELECT id, player_id, game_type, difficulty, topic_id, score, wrong_attempts, elapsed_seconds, end_reason, played_at FROM game_results ORDER BY id")
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var out []resultBackup
	for rows.Next() {
		var r resultBackup
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.GameType, &r.Difficulty, &r.TopicID,
			&r.Score, &r.WrongAttempts, &r.ElapsedSeconds, &r.EndReason, &r.PlayedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
