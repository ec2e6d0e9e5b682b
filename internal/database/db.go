package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/001_initial.sql
var initialMigration string

// migrations are applied in order; the schema version is the number applied
var migrations = []string{initialMigration}

// SchemaVersion is the result history schema this build writes
var SchemaVersion = len(migrations)

// ErrSchemaTooNew is returned when the history file was written by a newer build
var ErrSchemaTooNew = errors.New("result history was created by a newer version")

// DB is the result history store
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the result history at the given path
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer; batch saves share a transaction
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to prepare result history %s: %w", path, err)
	}
	return db, nil
}

func (db *DB) version() (int, error) {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// migrate brings the schema up to SchemaVersion, tracked in user_version
func (db *DB) migrate() error {
	current, err := db.version()
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return fmt.Errorf("%w (schema %d, supported %d)", ErrSchemaTooNew, current, SchemaVersion)
	}

	for v := current; v < SchemaVersion; v++ {
		err := db.withTx(context.Background(), func(tx *sql.Tx) error {
			if _, err := tx.Exec(migrations[v]); err != nil {
				return err
			}
			_, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, v+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		log.Debug().Str("path", db.path).Int("schema", v+1).Msg("result history migrated")
	}
	return nil
}

// withTx commits when fn succeeds and rolls back otherwise
func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Health describes the state of the result history
type Health struct {
	Path          string `json:"path"`
	SchemaVersion int    `json:"schema_version"`
	Results       int    `json:"results"`
}

// Health checks that the history is reachable and on the current schema
func (db *DB) Health(ctx context.Context) (*Health, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("result history unreachable: %w", err)
	}
	v, err := db.version()
	if err != nil {
		return nil, err
	}
	if v != SchemaVersion {
		return nil, fmt.Errorf("result history schema %d, expected %d", v, SchemaVersion)
	}

	h := &Health{Path: db.path, SchemaVersion: v}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&h.Results); err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}
	return h, nil
}
