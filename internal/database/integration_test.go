package database

import (
	"os"
	"path/filepath"
	"testing"
)

// openTestDB initializes a throwaway SQLite database with the full
// schema applied.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	// Test that tables were created by migrations
	tables := []string{"topics", "questions", "players", "score_ledger", "game_results"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Migrations must be idempotent
	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Errorf("Second migration run failed: %v", err)
	}
}

// TestDatabaseTransactions tests the dialect-aware transaction wrapper
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	// Successful transaction
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	id, err := tx.ExecReturningID("INSERT INTO topics (name, description) VALUES (?, ?)", "animals", "farm animals")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if id == 0 {
		t.Error("Expected non-zero topic ID")
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM topics WHERE name = ?", "animals").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 topic, got %d", count)
	}

	// Rolled-back transaction leaves no trace
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	if _, err := tx2.Exec("INSERT INTO topics (name, description) VALUES (?, ?)", "colors", ""); err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM topics WHERE name = ?", "colors").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 topics after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent reads through the pool
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if _, err := db.Exec("INSERT INTO topics (name, description) VALUES (?, ?)", "weather", "weather words"); err != nil {
		t.Fatalf("Failed to create test topic: %v", err)
	}

	done := make(chan error)
	for i := 0; i < 10; i++ {
		go func() {
			var name string
			err := db.QueryRow("SELECT name FROM topics WHERE name = ?", "weather").Scan(&name)
			done <- err
		}()
	}

	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Errorf("Concurrent read failed: %v", err)
		}
	}
}
