package storage

import (
	"fmt"
	"log"
	"time"
)

// RecordEvent appends an action invocation to the log.
func (s *SQLiteStorage) RecordEvent(event ActionEvent) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO action_events (action_id, timestamp_ms)
		VALUES (?, ?)
	`

	if _, err := s.db.Exec(query, event.ActionID, ts.UnixMilli()); err != nil {
		log.Printf("Warning: failed to record event: %v", err)
	}

	return nil
}

// RecentEvents returns the most recent events, newest first.
func (s *SQLiteStorage) RecentEvents(limit int) ([]ActionEvent, error) {
	if !s.enabled || s.db == nil {
		return []ActionEvent{}, nil
	}
	if limit <= 0 {
		return []ActionEvent{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT action_id, timestamp_ms
		FROM action_events
		ORDER BY timestamp_ms DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		log.Printf("Warning: failed to query recent events: %v", err)
		return []ActionEvent{}, nil
	}
	defer rows.Close()

	events := make([]ActionEvent, 0, limit)
	for rows.Next() {
		var event ActionEvent
		var millis int64

		if err := rows.Scan(&event.ActionID, &millis); err != nil {
			log.Printf("Warning: failed to scan event row: %v", err)
			continue
		}

		event.Timestamp = time.UnixMilli(millis)
		events = append(events, event)
	}

	return events, rows.Err()
}

// StatsByFrequency returns per-action invocation counts, most invoked first.
// Counts include events folded into action_counts by Cleanup. Ties are
// ordered by action id so the result is deterministic.
func (s *SQLiteStorage) StatsByFrequency(limit int) ([]ActionStat, error) {
	if !s.enabled || s.db == nil {
		return []ActionStat{}, nil
	}
	if limit <= 0 {
		return []ActionStat{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT action_id, SUM(cnt) AS total
		FROM (
			SELECT action_id, COUNT(*) AS cnt FROM action_events GROUP BY action_id
			UNION ALL
			SELECT action_id, invocations AS cnt FROM action_counts
		)
		GROUP BY action_id
		ORDER BY total DESC, action_id ASC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		log.Printf("Warning: failed to query stats: %v", err)
		return []ActionStat{}, nil
	}
	defer rows.Close()

	stats := make([]ActionStat, 0, limit)
	for rows.Next() {
		var stat ActionStat
		if err := rows.Scan(&stat.ActionID, &stat.Count); err != nil {
			log.Printf("Warning: failed to scan stat row: %v", err)
			continue
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// Cleanup removes events older than the retention window. Their counts are
// folded into action_counts first, so StatsByFrequency is unchanged.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).UnixMilli()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cleanup: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO action_counts (action_id, invocations)
		SELECT action_id, COUNT(*) FROM action_events
		WHERE timestamp_ms < ?
		GROUP BY action_id
		ON CONFLICT(action_id) DO UPDATE SET invocations = invocations + excluded.invocations
	`, cutoff); err != nil {
		return fmt.Errorf("failed to fold old events into counts: %w", err)
	}

	res, err := tx.Exec("DELETE FROM action_events WHERE timestamp_ms < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup action_events: %w", err)
	}
	removed, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cleanup: %w", err)
	}

	if removed == 0 {
		return nil
	}

	// Vacuum to reclaim space
	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Printf("Warning: failed to vacuum database: %v", err)
	}

	return nil
}
