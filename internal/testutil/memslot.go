// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"gtodo/internal/tasklist"
)

// MemorySlot is an in-memory implementation of tasklist.Slot for testing.
// A nil stored list means the slot has never been written.
type MemorySlot struct {
	mu    sync.Mutex
	tasks []tasklist.Task
	saves int

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// NewMemorySlotWith creates a MemorySlot already holding tasks.
func NewMemorySlotWith(tasks ...tasklist.Task) *MemorySlot {
	m := &MemorySlot{tasks: make([]tasklist.Task, len(tasks))}
	copy(m.tasks, tasks)
	return m
}

// Load implements tasklist.Slot.
func (m *MemorySlot) Load(ctx context.Context) ([]tasklist.Task, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasks == nil {
		return nil, tasklist.ErrSlotEmpty
	}
	out := make([]tasklist.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

// Save implements tasklist.Slot.
func (m *MemorySlot) Save(ctx context.Context, tasks []tasklist.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = make([]tasklist.Task, len(tasks))
	copy(m.tasks, tasks)
	m.saves++
	return nil
}

// Stored returns a copy of what was last saved (nil if never written).
func (m *MemorySlot) Stored() []tasklist.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasks == nil {
		return nil
	}
	out := make([]tasklist.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Saves returns how many times Save succeeded.
func (m *MemorySlot) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
