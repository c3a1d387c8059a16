package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (or creates) the SQLite metastore at path and brings its schema
// up to date. The DSN enables WAL and a busy timeout so the API handlers and
// the scheduler can share the one file, and foreign keys so run_artifacts
// rows cannot outlive their run.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open metastore %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations to an already-open metastore
// handle. Split from Open so tests can migrate in-memory databases.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("metastore dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrate metastore: %w", err)
	}
	return nil
}
