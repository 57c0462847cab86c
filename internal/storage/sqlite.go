/*
Package storage provides SQLite database migrations.

This file contains schema definitions and migration logic for the storage
layer.
*/
package storage

import (
	"fmt"
	"log"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	// Create migrations table
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	// Get current version
	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	// Run migrations in order
	migrations := []migration{
		{version: 1, name: "action_events", up: s.migration001ActionEvents},
		{version: 2, name: "blobs", up: s.migration002Blobs},
		{version: 3, name: "action_counts", up: s.migration003ActionCounts},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	query := "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"
	row := s.db.QueryRow(query)

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(version int, name string) error {
	query := "INSERT INTO schema_migrations (version, name) VALUES (?, ?)"
	_, err := s.db.Exec(query, version, name)
	return err
}

// migration001ActionEvents creates the append-only invocation log.
func (s *SQLiteStorage) migration001ActionEvents() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS action_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action_id TEXT NOT NULL,
			timestamp_ms INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create action_events table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_action_events_action
		ON action_events(action_id)
	`); err != nil {
		return fmt.Errorf("failed to create action_events action index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_action_events_timestamp
		ON action_events(timestamp_ms DESC)
	`); err != nil {
		return fmt.Errorf("failed to create action_events timestamp index: %w", err)
	}

	return nil
}

// migration002Blobs creates the key/blob table used by the plan and catalog stores.
func (s *SQLiteStorage) migration002Blobs() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("failed to create blobs table: %w", err)
	}

	return nil
}

// migration003ActionCounts creates the per-action counts that outlive
// cleaned-up events.
func (s *SQLiteStorage) migration003ActionCounts() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS action_counts (
			action_id TEXT PRIMARY KEY,
			invocations INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		return fmt.Errorf("failed to create action_counts table: %w", err)
	}

	return nil
}
