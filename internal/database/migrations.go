package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	Up          func(*sql.Tx) error
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create schema_version table",
		Up:          migration001Up,
	},
	{
		Version:     2,
		Description: "Create runs table",
		Up:          migration002Up,
	},
	{
		Version:     3,
		Description: "Create rounds table",
		Up:          migration003Up,
	},
}

// LatestVersion is the schema version after all migrations have run
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations runs all pending database migrations
func (db *DB) RunMigrations() error {
	currentVersion, err := db.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		err := db.ExecTx(func(tx *sql.Tx) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			_, err := tx.Exec(`
				INSERT INTO schema_version (version, description, applied_at)
				VALUES (?, ?, ?)
			`, migration.Version, migration.Description, time.Now())

			return err
		})

		if err != nil {
			return err
		}
	}

	return nil
}

// getCurrentVersion returns the current schema version
func (db *DB) getCurrentVersion() (int, error) {
	var tableExists bool
	err := db.conn.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableExists)

	if err != nil {
		return 0, err
	}

	if !tableExists {
		return 0, nil
	}

	var version int
	err = db.conn.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_version
	`).Scan(&version)

	if err != nil {
		return 0, err
	}

	return version, nil
}

// Migration 001: Schema version tracking table
func migration001Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL UNIQUE,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	return err
}

// Migration 002: One row per account run
func migration002Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE runs (
			run_id TEXT PRIMARY KEY,
			account TEXT NOT NULL,
			platform TEXT NOT NULL,
			status TEXT NOT NULL,
			passes INTEGER NOT NULL DEFAULT 0,
			rounds_played INTEGER NOT NULL DEFAULT 0,
			points_claimed INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);

		CREATE INDEX idx_runs_started ON runs(started_at);
		CREATE INDEX idx_runs_account ON runs(account);
	`)
	return err
}

// Migration 003: One row per claimed round
func migration003Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			round_number INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			points INTEGER NOT NULL,
			claimed_at DATETIME NOT NULL
		);

		CREATE INDEX idx_rounds_run ON rounds(run_id);
	`)
	return err
}
