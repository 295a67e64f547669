package database

import (
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT id FROM questions WHERE topic_id = ? AND difficulty = ?"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want unchanged query", result)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if result := dialect.MigrationsSubdir(); result != "sqlite" {
			t.Errorf("MigrationsSubdir() = %v, want sqlite", result)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		tests := []struct {
			name     string
			query    string
			expected string
		}{
			{
				name:     "no placeholders",
				query:    "SELECT COUNT(*) FROM topics",
				expected: "SELECT COUNT(*) FROM topics",
			},
			{
				name:     "single placeholder",
				query:    "SELECT name FROM topics WHERE id = ?",
				expected: "SELECT name FROM topics WHERE id = $1",
			},
			{
				name:     "multiple placeholders",
				query:    "INSERT INTO score_ledger (player_id, points, game_type) VALUES (?, ?, ?)",
				expected: "INSERT INTO score_ledger (player_id, points, game_type) VALUES ($1, $2, $3)",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result := dialect.RewriteQuery(tt.query)
				if result != tt.expected {
					t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
				}
			})
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "UPDATE players SET name = ? WHERE id = ?"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want unchanged query", result)
		}
	})
}
