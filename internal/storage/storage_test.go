/*
Package storage provides tests for the storage layer.
*/
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage := NewStorage(t.TempDir())
	if err := storage.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

// TestNewStorage verifies storage path resolution.
func TestNewStorage(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir)
	if storage == nil {
		t.Fatal("NewStorage returned nil")
	}

	if storage.Path() != filepath.Join(dir, "history.db") {
		t.Errorf("unexpected db path: %s", storage.Path())
	}
}

// TestInit verifies database initialization and schema creation.
func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	storage := &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}

	if err := storage.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer storage.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}

	version, err := storage.getCurrentMigrationVersion()
	if err != nil {
		t.Fatalf("getCurrentMigrationVersion failed: %v", err)
	}
	if version != 3 {
		t.Errorf("Expected migration version 3, got %d", version)
	}
}

// TestRecordEvent verifies events round-trip newest first.
func TestRecordEvent(t *testing.T) {
	storage := newTestStorage(t)

	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	events := []ActionEvent{
		{ActionID: "maps_open", Timestamp: base},
		{ActionID: AppActionID("com.x"), Timestamp: base.Add(time.Minute)},
		{ActionID: "gmail_inbox", Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := storage.RecordEvent(e); err != nil {
			t.Fatalf("RecordEvent failed: %v", err)
		}
	}

	recent, err := storage.RecentEvents(2)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(recent))
	}
	if recent[0].ActionID != "gmail_inbox" || recent[1].ActionID != "app:com.x" {
		t.Errorf("Unexpected order: %+v", recent)
	}
	if !recent[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Timestamp not preserved: %v", recent[0].Timestamp)
	}
	if !recent[1].IsApp() {
		t.Error("Expected app event to be flagged as app")
	}
}

// TestStatsByFrequency verifies counting and deterministic tie order.
func TestStatsByFrequency(t *testing.T) {
	storage := newTestStorage(t)

	now := time.Now()
	ids := []string{"b", "a", "c", "c", "c", "a", "b"}
	for i, id := range ids {
		storage.RecordEvent(ActionEvent{ActionID: id, Timestamp: now.Add(time.Duration(i) * time.Second)})
	}

	stats, err := storage.StatsByFrequency(10)
	if err != nil {
		t.Fatalf("StatsByFrequency failed: %v", err)
	}

	want := []ActionStat{{"c", 3}, {"a", 2}, {"b", 2}}
	if len(stats) != len(want) {
		t.Fatalf("Expected %d stats, got %d", len(want), len(stats))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}

	limited, _ := storage.StatsByFrequency(1)
	if len(limited) != 1 || limited[0].ActionID != "c" {
		t.Errorf("Expected limit to keep top entry, got %+v", limited)
	}
}

// TestCleanup verifies old events are pruned.
func TestCleanup(t *testing.T) {
	storage := newTestStorage(t)

	storage.RecordEvent(ActionEvent{ActionID: "old", Timestamp: time.Now().Add(-48 * time.Hour)})
	storage.RecordEvent(ActionEvent{ActionID: "new", Timestamp: time.Now()})

	if err := storage.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	recent, _ := storage.RecentEvents(10)
	if len(recent) != 1 || recent[0].ActionID != "new" {
		t.Errorf("Expected only the new event to survive, got %+v", recent)
	}
}

// TestCleanupKeepsCounts verifies counts of removed events survive, including
// across repeated cleanups.
func TestCleanupKeepsCounts(t *testing.T) {
	storage := newTestStorage(t)

	old := time.Now().Add(-100 * 24 * time.Hour)
	for i := 0; i < 5; i++ {
		storage.RecordEvent(ActionEvent{ActionID: "act1", Timestamp: old.Add(time.Duration(i) * time.Minute)})
	}
	storage.RecordEvent(ActionEvent{ActionID: "act2", Timestamp: time.Now()})

	if err := storage.Cleanup(90 * 24 * time.Hour); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	storage.RecordEvent(ActionEvent{ActionID: "act1", Timestamp: old})
	if err := storage.Cleanup(90 * 24 * time.Hour); err != nil {
		t.Fatalf("second Cleanup failed: %v", err)
	}

	stats, err := storage.StatsByFrequency(10)
	if err != nil {
		t.Fatalf("StatsByFrequency failed: %v", err)
	}
	want := []ActionStat{{"act1", 6}, {"act2", 1}}
	if len(stats) != len(want) {
		t.Fatalf("Expected %d stats, got %+v", len(want), stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}

	recent, _ := storage.RecentEvents(10)
	if len(recent) != 1 || recent[0].ActionID != "act2" {
		t.Errorf("Expected only act2 in recent events, got %+v", recent)
	}
}

// TestCleanupNothingToRemove verifies a cleanup with no old events leaves
// the log and counts untouched.
func TestCleanupNothingToRemove(t *testing.T) {
	storage := newTestStorage(t)

	storage.RecordEvent(ActionEvent{ActionID: "fresh", Timestamp: time.Now()})

	for i := 0; i < 2; i++ {
		if err := storage.Cleanup(24 * time.Hour); err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
	}

	var folded int
	if err := storage.db.QueryRow("SELECT COUNT(*) FROM action_counts").Scan(&folded); err != nil {
		t.Fatalf("failed to count action_counts: %v", err)
	}
	if folded != 0 {
		t.Errorf("Expected no folded counts, got %d rows", folded)
	}

	stats, _ := storage.StatsByFrequency(10)
	if len(stats) != 1 || stats[0] != (ActionStat{"fresh", 1}) {
		t.Errorf("Expected fresh=1, got %+v", stats)
	}
}

// TestBlobReadWrite verifies upsert semantics of the blob table.
func TestBlobReadWrite(t *testing.T) {
	storage := newTestStorage(t)

	if _, ok, err := storage.Read("missing"); err != nil || ok {
		t.Fatalf("Expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := storage.AtomicWrite("catalog", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if err := storage.AtomicWrite("catalog", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	data, ok, err := storage.Read("catalog")
	if err != nil || !ok {
		t.Fatalf("Read failed: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"v":2}` {
		t.Errorf("Expected latest value, got %s", data)
	}
}

// TestGracefulDegradation verifies behavior when DB is unavailable.
func TestGracefulDegradation(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// A path below a regular file can never be created.
	storage := &SQLiteStorage{
		dbPath:  filepath.Join(blocker, "sub", "test.db"),
		enabled: true,
	}

	if err := storage.Init(); err == nil {
		t.Fatal("Expected Init to fail")
	}

	if err := storage.RecordEvent(ActionEvent{ActionID: "test", Timestamp: time.Now()}); err != nil {
		t.Errorf("RecordEvent should return nil on disabled storage, got: %v", err)
	}

	recent, err := storage.RecentEvents(10)
	if err != nil {
		t.Errorf("RecentEvents should not error on disabled storage, got: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected no events on disabled storage, got %d", len(recent))
	}

	if err := storage.AtomicWrite("k", []byte("v")); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable from blob write, got %v", err)
	}
}

func TestAppIDHelpers(t *testing.T) {
	id := AppActionID("com.example")
	if id != "app:com.example" {
		t.Errorf("AppActionID = %q", id)
	}
	if !IsAppID(id) || IsAppID("maps_open") {
		t.Error("IsAppID misclassified ids")
	}
	if PackageName(id) != "com.example" {
		t.Errorf("PackageName = %q", PackageName(id))
	}
}
