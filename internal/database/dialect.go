package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported backends.
// Repositories write queries with ? placeholders; the dialect rewrites
// them to the backend's native form before execution.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name from the connection config
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders to the backend's syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements
	// Result.LastInsertId; postgres needs a RETURNING clause instead
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool limits and backend pragmas
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the per-backend migrations directory
	// ("sqlite", "postgres", "mysql")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the
	// migrations tracking table
	CreateMigrationsTableQuery() string
}

// DialectConfig holds the connection settings. Path is used by
// SQLite; URL by PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
