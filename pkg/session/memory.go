package session

import (
	"context"
	"sync"

	"github.com/panelctl/panelctl/pkg/events"
)

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	bus    *events.Bus
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		bus:    events.NewBus(),
	}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	return publish(ctx, m.bus, events.Event{Key: key, Value: value})
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	_, ok := m.values[key]
	delete(m.values, key)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return publish(ctx, m.bus, events.Event{Key: key, Deleted: true})
}

func (m *MemoryStore) Subscribe(h events.Handler) func() {
	return m.bus.Subscribe(h)
}
