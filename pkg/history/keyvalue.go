package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/stayware/sessionkit/pkg/keyvalue"
	"github.com/stayware/sessionkit/pkg/session"
)

// StorageKey is where the serialized event log lives in the key-value
// store.
const StorageKey = "session_history"

// KeyvalueStore persists a capped event log as a JSON array through
// pkg/keyvalue, so history survives app restarts next to the session
// record itself.
type KeyvalueStore struct {
	store    keyvalue.Store
	capacity int
	mu       sync.Mutex
}

// NewKeyvalueStore creates a store keeping at most capacity events in kv.
// Non-positive capacity falls back to 100.
func NewKeyvalueStore(kv keyvalue.Store, capacity int) *KeyvalueStore {
	if kv == nil {
		panic("history: key-value store cannot be nil")
	}
	if capacity <= 0 {
		capacity = 100
	}
	return &KeyvalueStore{store: kv, capacity: capacity}
}

// StoreBatch implements Store. The log is read, appended, trimmed to
// capacity and written back as one unit.
func (s *KeyvalueStore) StoreBatch(ctx context.Context, events []session.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return errors.Join(ErrPersistFailed, err)
	}

	existing = append(existing, events...)
	if len(existing) > s.capacity {
		existing = existing[len(existing)-s.capacity:]
	}

	data, err := json.Marshal(existing)
	if err != nil {
		return errors.Join(ErrPersistFailed, err)
	}
	if err := s.store.Set(ctx, StorageKey, data); err != nil {
		return errors.Join(ErrPersistFailed, err)
	}
	return nil
}

// Load returns the persisted event log, oldest first. A missing key yields
// an empty log.
func (s *KeyvalueStore) Load(ctx context.Context) ([]session.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load treats a corrupt payload as an empty log so one bad write can't
// wedge history forever.
func (s *KeyvalueStore) load(ctx context.Context) ([]session.Event, error) {
	data, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var events []session.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, nil
	}
	return events, nil
}
