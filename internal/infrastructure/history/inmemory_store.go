package history

import (
	"context"
	"sync"

	"github.com/retailscan/backend/internal/domain/scan"
)

// InMemoryHistoryStore keeps the scan history in process memory. This is
// suitable for single-instance deployments and testing.
type InMemoryHistoryStore struct {
	mu      sync.RWMutex
	entries []scan.HistoryEntry
}

// NewInMemoryHistoryStore creates a new in-memory history store
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{}
}

// Load returns a copy of the stored history list
func (s *InMemoryHistoryStore) Load(ctx context.Context) ([]scan.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]scan.HistoryEntry, len(s.entries))
	copy(entries, s.entries)
	return entries, nil
}

// Save replaces the stored history list
func (s *InMemoryHistoryStore) Save(ctx context.Context, entries []scan.HistoryEntry) error {
	stored := make([]scan.HistoryEntry, len(entries))
	copy(stored, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = stored
	return nil
}

// Clear removes all stored history
func (s *InMemoryHistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Ensure InMemoryHistoryStore implements HistoryStore
var _ scan.HistoryStore = (*InMemoryHistoryStore)(nil)
