package history

import (
	"context"
	"sync"

	"github.com/stayware/sessionkit/pkg/session"
)

// Memory keeps the most recent events in a capped in-memory ring.
type Memory struct {
	mu       sync.RWMutex
	capacity int
	events   []session.Event
}

// NewMemory creates an in-memory store keeping at most capacity events.
// Non-positive capacity falls back to 200.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 200
	}
	return &Memory{capacity: capacity}
}

// StoreBatch implements Store.
func (m *Memory) StoreBatch(_ context.Context, events []session.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, events...)
	if len(m.events) > m.capacity {
		m.events = m.events[len(m.events)-m.capacity:]
	}
	return nil
}

// Events returns a copy of the retained events, oldest first.
func (m *Memory) Events() []session.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]session.Event(nil), m.events...)
}

// Len returns the number of retained events.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
