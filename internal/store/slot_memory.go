package store

import (
	"context"
	"sync"
)

var _ Slots = &SlotMemory{}

// SlotMemory is a process-local slot store.
type SlotMemory struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewSlotMemory() *SlotMemory {
	return &SlotMemory{slots: make(map[string][]byte)}
}

func (m *SlotMemory) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.slots[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *SlotMemory) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots == nil {
		m.slots = make(map[string][]byte)
	}
	m.slots[name] = append([]byte(nil), data...)
	return nil
}

func (m *SlotMemory) Ping(context.Context) error { return nil }

func (m *SlotMemory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = nil
	return nil
}
