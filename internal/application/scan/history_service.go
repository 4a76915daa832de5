package scan

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/scan"
)

// HistoryService keeps the bounded local log of recent lookups. The backing
// slot is read fully and rewritten fully on each mutation, so Record runs as
// a critical section to keep concurrent writers from losing updates.
type HistoryService struct {
	store  scan.HistoryStore
	mu     sync.Mutex
	logger *zap.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(store scan.HistoryStore, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		store:  store,
		logger: logger,
	}
}

// Record inserts an entry into the history. When an existing entry matches
// the same scan, it is replaced in place at its current position rather than
// moved to the front; otherwise the entry is prepended. The log is then
// truncated to the most recent entries, dropping the oldest from the tail.
func (s *HistoryService) Record(ctx context.Context, entry scan.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range entries {
		if entries[i].SameScan(entry) {
			entries[i] = entry
			replaced = true
			break
		}
	}

	if !replaced {
		entries = append([]scan.HistoryEntry{entry}, entries...)
	}

	if len(entries) > scan.MaxHistoryEntries {
		entries = entries[:scan.MaxHistoryEntries]
	}

	if err := s.store.Save(ctx, entries); err != nil {
		return err
	}

	s.logger.Debug("history entry recorded",
		zap.String("barcode", entry.Barcode),
		zap.Bool("replaced", replaced),
		zap.Int("size", len(entries)),
	)

	return nil
}

// List returns the history, most recent first
func (s *HistoryService) List(ctx context.Context) ([]scan.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Load(ctx)
}

// Clear empties the history slot
func (s *HistoryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Clear(ctx)
}
