package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Read returns the stored value and whether the key exists.
func (s *SQLiteStorage) Read(key string) ([]byte, bool, error) {
	if !s.enabled || s.db == nil {
		return nil, false, ErrUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var value []byte
	err := s.db.QueryRow("SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	return value, true, nil
}

// AtomicWrite replaces the value stored under key in a single transaction.
func (s *SQLiteStorage) AtomicWrite(key string, data []byte) error {
	if !s.enabled || s.db == nil {
		return ErrUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin blob write: %w", err)
	}

	query := `
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(query, key, data); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blob %s: %w", key, err)
	}

	return nil
}
