package catalog

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/quickaction"
)

// memBlobs is an in-memory BlobStore that can be told to fail.
type memBlobs struct {
	mu      sync.Mutex
	data    map[string][]byte
	failErr error
	writes  int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[string][]byte)}
}

func (m *memBlobs) Read(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBlobs) AtomicWrite(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.writes++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func newTestStore(t *testing.T) (*Store, *memBlobs) {
	t.Helper()
	blobs := newMemBlobs()
	store, err := NewStore(blobs)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store, blobs
}

var generated = time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)

func suggestions() []plan.SuggestedAction {
	return []plan.SuggestedAction{
		{ID: "maps_work", Label: "Route to work", ActionType: "MAPS_NAVIGATION", Data: "https://maps/dir", TimeWindows: []string{"weekday_morning"}},
		{ID: "docs_weekly", Label: "Weekly doc", ActionType: "URL", Data: "https://docs"},
		{ID: "teleport", Label: "Teleport", ActionType: "TELEPORT"},
	}
}

func TestMergeFromPlanInsertsSortedAndMapsTypes(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.MergeFromPlan(suggestions(), generated); err != nil {
		t.Fatalf("MergeFromPlan failed: %v", err)
	}

	c := store.Snapshot()
	if len(c.Entries) != 2 {
		t.Fatalf("Expected unknown type to be dropped, got %d entries", len(c.Entries))
	}
	if c.Entries[0].ID != "docs_weekly" || c.Entries[1].ID != "maps_work" {
		t.Errorf("Entries not sorted by id: %v, %v", c.Entries[0].ID, c.Entries[1].ID)
	}
	if c.Entries[0].ActionType != string(quickaction.BrowserURL) {
		t.Errorf("URL should map to BROWSER_URL, got %s", c.Entries[0].ActionType)
	}
	maps := c.Entries[1]
	if maps.ActionType != string(quickaction.MapNavigation) || maps.ProviderID != AIProviderID || maps.Priority != DefaultPriority {
		t.Errorf("Unexpected new entry: %+v", maps)
	}
	if !maps.CreatedAt.Equal(generated) || !c.UpdatedAt.Equal(generated) {
		t.Errorf("Expected timestamps from generatedAt, got %v / %v", maps.CreatedAt, c.UpdatedAt)
	}
}

func TestMergeFromPlanIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)

	store.MergeFromPlan(suggestions(), generated)
	first := store.Snapshot()
	store.MergeFromPlan(suggestions(), generated)
	second := store.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Second merge changed the catalog:\n%+v\n%+v", first, second)
	}
}

func TestMergeFromPlanKeepsCounters(t *testing.T) {
	store, _ := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	store.IncrementUsage("maps_work")
	store.IncrementAccepted("maps_work")

	later := generated.Add(3 * time.Hour)
	err := store.MergeFromPlan([]plan.SuggestedAction{
		{ID: "maps_work", Label: "Route to office", ActionType: "MAP_NAVIGATION", TimeWindows: []string{"weekday_daytime"}},
	}, later)
	if err != nil {
		t.Fatalf("MergeFromPlan failed: %v", err)
	}

	e, _ := store.Snapshot().Entry("maps_work")
	if e.Label != "Route to office" || e.TimeWindows[0] != "weekday_daytime" {
		t.Errorf("Content not updated: %+v", e)
	}
	if e.UsageCount != 1 || e.AcceptedCount != 1 {
		t.Errorf("Counters must survive merge: %+v", e)
	}
	if !e.CreatedAt.Equal(generated) || !e.UpdatedAt.Equal(later) {
		t.Errorf("Expected CreatedAt kept and UpdatedAt bumped: %+v", e)
	}
}

func TestMergeEmptyIsNoOp(t *testing.T) {
	store, blobs := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	before := store.Snapshot()
	writes := blobs.writes

	if err := store.MergeFromPlan(nil, generated.Add(time.Hour)); err != nil {
		t.Fatalf("MergeFromPlan failed: %v", err)
	}
	if blobs.writes != writes {
		t.Error("Empty merge must not write")
	}
	if !store.Snapshot().UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("Empty merge must not bump UpdatedAt")
	}
}

func TestMergeOnlyUnknownTypesIsNoOp(t *testing.T) {
	store, blobs := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	before := store.Snapshot()
	writes := blobs.writes

	unknown := []plan.SuggestedAction{
		{ID: "teleport", Label: "Teleport", ActionType: "TELEPORT"},
		{ID: "warp", Label: "Warp", ActionType: "WARP_DRIVE"},
	}
	if err := store.MergeFromPlan(unknown, generated.Add(time.Hour)); err != nil {
		t.Fatalf("MergeFromPlan failed: %v", err)
	}
	if blobs.writes != writes {
		t.Error("Merge with only unknown types must not write")
	}
	after := store.Snapshot()
	if !after.UpdatedAt.Equal(before.UpdatedAt) || len(after.Entries) != len(before.Entries) {
		t.Errorf("Merge with only unknown types changed the catalog: %+v", after)
	}
}

func TestDismissThenClear(t *testing.T) {
	store, _ := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	store.IncrementUsage("docs_weekly")
	store.IncrementAccepted("docs_weekly")

	store.IncrementDismissed("docs_weekly")
	store.IncrementDismissed("docs_weekly")
	e, _ := store.Snapshot().Entry("docs_weekly")
	if e.DismissedCount != 2 {
		t.Fatalf("DismissedCount = %d, want 2", e.DismissedCount)
	}

	store.ClearDismissed("docs_weekly")
	e, _ = store.Snapshot().Entry("docs_weekly")
	if e.DismissedCount != 0 || e.UsageCount != 1 || e.AcceptedCount != 1 {
		t.Errorf("Clear must only reset dismissedCount: %+v", e)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	store, blobs := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	writes := blobs.writes

	if err := store.IncrementUsage("missing"); err != nil {
		t.Fatalf("IncrementUsage failed: %v", err)
	}
	if blobs.writes != writes {
		t.Error("Unknown id must not write")
	}
}

func TestWriteFailureKeepsSnapshot(t *testing.T) {
	store, blobs := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	before := store.Snapshot()

	blobs.failErr = errors.New("disk full")
	err := store.IncrementAccepted("maps_work")
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("Expected ErrWrite, got %v", err)
	}
	if !reflect.DeepEqual(before, store.Snapshot()) {
		t.Error("Failed write must not change the snapshot")
	}

	err = store.MergeFromPlan([]plan.SuggestedAction{{ID: "new", Label: "New", ActionType: "URL"}}, generated)
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("Expected ErrWrite from merge, got %v", err)
	}
	if _, ok := store.Snapshot().Entry("new"); ok {
		t.Error("Failed merge must not publish")
	}
}

func TestReloadFromBlobs(t *testing.T) {
	store, blobs := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	store.IncrementDismissed("maps_work")

	reopened, err := NewStore(blobs)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if !reflect.DeepEqual(store.Snapshot(), reopened.Snapshot()) {
		t.Error("Reloaded catalog differs")
	}
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	blobs := newMemBlobs()
	raw, _ := json.Marshal(map[string]any{
		"updatedAt": generated,
		"entries":   []map[string]any{{"id": "x", "label": "X", "actionType": "BROWSER_URL", "futureField": 1}},
		"version":   2,
	})
	blobs.data[BlobKey] = raw

	store, err := NewStore(blobs)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, ok := store.Snapshot().Entry("x"); !ok {
		t.Error("Expected entry to load")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store, _ := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)

	snap := store.Snapshot()
	snap.Entries[0].Label = "mutated"
	if store.Snapshot().Entries[0].Label == "mutated" {
		t.Error("Snapshot must not alias store state")
	}
}

func TestPrune(t *testing.T) {
	store, _ := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)
	store.IncrementUsage("maps_work")

	now := generated.Add(40 * 24 * time.Hour)
	if n, _ := store.Prune(now, 0); n != 0 {
		t.Errorf("Zero ttl must not prune, removed %d", n)
	}

	n, err := store.Prune(now, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 removed, got %d", n)
	}
	if _, ok := store.Snapshot().Entry("maps_work"); !ok {
		t.Error("Used entry must survive pruning")
	}
}

func TestSubscribeReceivesWrites(t *testing.T) {
	store, _ := newTestStore(t)
	ch, cancel := store.Subscribe()
	defer cancel()

	store.MergeFromPlan(suggestions(), generated)

	select {
	case c := <-ch:
		if len(c.Entries) != 2 {
			t.Errorf("Expected published catalog, got %d entries", len(c.Entries))
		}
	case <-time.After(time.Second):
		t.Fatal("no catalog published")
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after cancel")
	}
}

func TestConcurrentIncrements(t *testing.T) {
	store, _ := newTestStore(t)
	store.MergeFromPlan(suggestions(), generated)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.IncrementUsage("maps_work")
		}()
	}
	wg.Wait()

	e, _ := store.Snapshot().Entry("maps_work")
	if e.UsageCount != 50 {
		t.Errorf("UsageCount = %d, want 50", e.UsageCount)
	}
}

func TestEntryToAction(t *testing.T) {
	a, ok := Entry{ID: "x", Label: "X", ActionType: "BROWSER_URL", Priority: 7}.ToAction()
	if !ok || a.Type != quickaction.BrowserURL || a.Source != quickaction.SourceAI || a.ProviderID != AIProviderID {
		t.Errorf("Unexpected action: %+v ok=%v", a, ok)
	}
	if _, ok := (Entry{ID: "y", ActionType: "URL"}).ToAction(); ok {
		t.Error("Stored types must be exact")
	}
}
