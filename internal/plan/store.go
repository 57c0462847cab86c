package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/khanglvm/action-hub/internal/storage"
)

// BlobKey is the key the current plan is stored under.
const BlobKey = "plan"

// ErrStale is returned when a write would replace the stored plan with an
// older one.
var ErrStale = errors.New("plan is older than the stored plan")

// Store holds the latest accepted plan.
//
// Writes go to the blob store first; the in-memory snapshot is only swapped
// after the durable write succeeds.
type Store struct {
	blobs   storage.BlobStore
	mu      sync.Mutex
	current atomic.Pointer[Plan]
}

// NewStore creates a plan store and loads any persisted plan.
//
// A persisted plan that fails to decode is ignored so a corrupt blob never
// blocks the next sync from replacing it.
func NewStore(blobs storage.BlobStore) (*Store, error) {
	s := &Store{blobs: blobs}

	data, ok, err := blobs.Read(BlobKey)
	if err != nil && !errors.Is(err, storage.ErrUnavailable) {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	if ok {
		p, _, derr := Decode(data)
		if derr == nil {
			s.current.Store(p)
		}
	}
	return s, nil
}

// Snapshot returns the current plan, or nil when none has been stored.
// The returned plan must not be modified.
func (s *Store) Snapshot() *Plan {
	return s.current.Load()
}

// Update persists p and publishes it as the current plan.
func (s *Store) Update(p *Plan) error {
	if p == nil {
		return fmt.Errorf("failed to store plan: nil plan")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.current.Load(); cur != nil && p.GeneratedAt.Before(cur.GeneratedAt) {
		return fmt.Errorf("failed to store plan generated at %s: %w", p.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"), ErrStale)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := s.blobs.AtomicWrite(BlobKey, data); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	s.current.Store(p)
	return nil
}
