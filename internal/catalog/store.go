package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/quickaction"
	"github.com/khanglvm/action-hub/internal/storage"
)

// BlobKey is the key the catalog is stored under.
const BlobKey = "quick_action_catalog"

// ErrWrite is returned when the catalog could not be persisted.
var ErrWrite = errors.New("catalog write failed")

// Store is the single owner of the catalog. Construct one per process and
// share it.
type Store struct {
	blobs   storage.BlobStore
	mu      sync.Mutex
	current atomic.Pointer[Catalog]
	now     func() time.Time

	subsMu sync.Mutex
	subs   map[int]chan Catalog
	nextID int
}

// NewStore creates a catalog store and loads the persisted catalog.
func NewStore(blobs storage.BlobStore) (*Store, error) {
	s := &Store{
		blobs: blobs,
		now:   time.Now,
		subs:  make(map[int]chan Catalog),
	}

	initial := &Catalog{Entries: []Entry{}}
	data, ok, err := blobs.Read(BlobKey)
	if err != nil && !errors.Is(err, storage.ErrUnavailable) {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if ok && len(data) > 0 {
		var c Catalog
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		if c.Entries == nil {
			c.Entries = []Entry{}
		}
		initial = &c
	}
	s.current.Store(initial)
	return s, nil
}

// Snapshot returns a copy of the current catalog.
func (s *Store) Snapshot() Catalog {
	return s.current.Load().clone()
}

// MergeFromPlan upserts suggested actions by id.
//
// Existing entries keep their counters, priority and CreatedAt; content
// fields, TimeWindows and UpdatedAt are replaced. Actions with an unknown
// type are skipped. A list with nothing to upsert leaves the catalog
// untouched. A zero generatedAt means now.
func (s *Store) MergeFromPlan(actions []plan.SuggestedAction, generatedAt time.Time) error {
	if len(actions) == 0 {
		return nil
	}
	if generatedAt.IsZero() {
		generatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	byID := make(map[string]Entry, len(current.Entries)+len(actions))
	for _, e := range current.Entries {
		byID[e.ID] = e
	}

	upserted := 0
	for _, a := range actions {
		typ, ok := quickaction.NormalizeType(a.ActionType)
		if !ok {
			log.Printf("Warning: skipping suggested action %s with unknown type %q", a.ID, a.ActionType)
			continue
		}
		upserted++
		windows := append([]string{}, a.TimeWindows...)

		existing, found := byID[a.ID]
		if !found {
			byID[a.ID] = Entry{
				ID:          a.ID,
				Label:       a.Label,
				ActionType:  string(typ),
				Data:        a.Data,
				PackageName: a.PackageName,
				ProviderID:  AIProviderID,
				CreatedAt:   generatedAt,
				UpdatedAt:   generatedAt,
				TimeWindows: windows,
				Priority:    DefaultPriority,
			}
			continue
		}
		existing.Label = a.Label
		existing.ActionType = string(typ)
		existing.Data = a.Data
		existing.PackageName = a.PackageName
		existing.UpdatedAt = generatedAt
		existing.TimeWindows = windows
		byID[a.ID] = existing
	}
	if upserted == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return s.writeLocked(&Catalog{UpdatedAt: generatedAt, Entries: entries})
}

// IncrementUsage counts an execution of the action. Unknown ids are ignored.
func (s *Store) IncrementUsage(id string) error {
	return s.updateEntry(id, func(e *Entry) { e.UsageCount++ })
}

// IncrementAccepted counts an acceptance of the suggestion.
func (s *Store) IncrementAccepted(id string) error {
	return s.updateEntry(id, func(e *Entry) { e.AcceptedCount++ })
}

// IncrementDismissed counts a dismissal, which hides the suggestion.
func (s *Store) IncrementDismissed(id string) error {
	return s.updateEntry(id, func(e *Entry) { e.DismissedCount++ })
}

// ClearDismissed lifts a dismissal. Other counters are kept.
func (s *Store) ClearDismissed(id string) error {
	return s.updateEntry(id, func(e *Entry) { e.DismissedCount = 0 })
}

func (s *Store) updateEntry(id string, transform func(*Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	idx := -1
	for i, e := range current.Entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	updated := current.clone()
	transform(&updated.Entries[idx])
	return s.writeLocked(&updated)
}

// Prune removes entries not updated within ttl that were never used or
// accepted. A non-positive ttl disables pruning. It returns the number of
// removed entries.
func (s *Store) Prune(now time.Time, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	cutoff := now.Add(-ttl)
	kept := make([]Entry, 0, len(current.Entries))
	for _, e := range current.Entries {
		if e.UpdatedAt.Before(cutoff) && e.UsageCount == 0 && e.AcceptedCount == 0 {
			continue
		}
		kept = append(kept, e)
	}

	removed := len(current.Entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.writeLocked(&Catalog{UpdatedAt: current.UpdatedAt, Entries: kept}); err != nil {
		return 0, err
	}
	return removed, nil
}

// writeLocked persists c and then publishes it. s.mu must be held.
func (s *Store) writeLocked(c *Catalog) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: failed to encode catalog: %v", ErrWrite, err)
	}
	if err := s.blobs.AtomicWrite(BlobKey, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	s.current.Store(c)
	s.publish(c.clone())
	return nil
}
