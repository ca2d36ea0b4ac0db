package store

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// MemoryStore is an in-memory implementation of inventory.Store. It
// keeps documents in their encoded form so loads hand out independent
// copies, making it useful for testing. Safe for concurrent use.
type MemoryStore struct {
	documents map[string][]byte // name -> encoded snapshot
	mu        sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: make(map[string][]byte)}
}

// Load returns the named snapshot, or an empty one for unknown names.
func (m *MemoryStore) Load(name string) (*inventory.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.documents[name]
	if !ok {
		return inventory.EmptySnapshot(), nil
	}
	snapshot, err := decodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading inventory %q: %w", name, err)
	}
	return snapshot, nil
}

// Save replaces the named snapshot.
func (m *MemoryStore) Save(name string, snapshot *inventory.Snapshot) error {
	var buf bytes.Buffer
	if err := encodeSnapshot(&buf, snapshot); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[name] = buf.Bytes()
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// Compile-time check that MemoryStore implements inventory.Store
var _ inventory.Store = (*MemoryStore)(nil)
