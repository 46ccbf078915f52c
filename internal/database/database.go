package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens a connection to the SQLite database, creating the parent
// directory of dbPath when needed.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// Open database connection
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Configure(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Configure applies the connection pragmas every database handle needs.
func Configure(db *sql.DB) error {
	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Set timezone to UTC
	if _, err := db.Exec("PRAGMA timezone = 'UTC'"); err != nil {
		return fmt.Errorf("failed to set timezone: %w", err)
	}
	return nil
}

// Migrate brings the schema up to date with the embedded migrations.
func Migrate(db *sql.DB, log zerolog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrations").Logger()})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// HealthCheck performs a simple health check on the database
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msgf(format, v...)
}
