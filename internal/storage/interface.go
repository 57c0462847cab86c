/*
Package storage implements the persistence collaborator for action-hub.

It provides the SQLite-backed action event log (append-only invocations plus
derived per-action counts) and a durable key/blob store used by the plan and
catalog stores. The blob store has two backends: SQLite (default, shared with
the event log) and BadgerDB.

The database is stored at ~/.action-hub/history.db and uses modernc.org/sqlite
(a pure Go, CGo-free implementation).
*/
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnavailable is returned by blob operations when the backing database
// could not be opened.
var ErrUnavailable = errors.New("storage unavailable")

// EventReader is the read side of the action event log.
type EventReader interface {
	// RecentEvents returns the most recent events, newest first.
	RecentEvents(limit int) ([]ActionEvent, error)

	// StatsByFrequency returns per-action invocation counts, most invoked first.
	StatsByFrequency(limit int) ([]ActionStat, error)
}

// BlobStore is durable key/blob storage with whole-value atomic writes.
type BlobStore interface {
	// Read returns the stored value and whether the key exists.
	Read(key string) ([]byte, bool, error)

	// AtomicWrite replaces the value stored under key.
	AtomicWrite(key string, data []byte) error
}

// Storage defines the interface for persistent storage operations.
type Storage interface {
	EventReader
	BlobStore

	// Init initializes the database and runs migrations.
	Init() error

	// RecordEvent appends an action invocation to the log.
	RecordEvent(event ActionEvent) error

	// Cleanup removes events older than the retention window.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a new SQLite storage instance rooted at dataDir.
//
// The database is created at <dataDir>/history.db. An empty dataDir means
// ~/.action-hub. If the directory doesn't exist, it will be created on Init.
func NewStorage(dataDir string) *SQLiteStorage {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: failed to get home directory: %v", err)
			return &SQLiteStorage{enabled: false}
		}
		dataDir = filepath.Join(home, ".action-hub")
	}

	return &SQLiteStorage{
		dbPath:  filepath.Join(dataDir, "history.db"),
		enabled: true,
	}
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled: event operations become
// no-ops and blob operations return ErrUnavailable.
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.configure(); err != nil {
			initErr = err
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// configure applies connection pragmas.
func (s *SQLiteStorage) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}
