package scan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	scandomain "github.com/retailscan/backend/internal/domain/scan"
)

// fakeHistoryStore is an in-memory HistoryStore for service tests
type fakeHistoryStore struct {
	entries []scandomain.HistoryEntry
	loadErr error
	saveErr error
}

func (s *fakeHistoryStore) Load(ctx context.Context) ([]scandomain.HistoryEntry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]scandomain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *fakeHistoryStore) Save(ctx context.Context, entries []scandomain.HistoryEntry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries = entries
	return nil
}

func (s *fakeHistoryStore) Clear(ctx context.Context) error {
	s.entries = nil
	return nil
}

func newEntry(barcode string) scandomain.HistoryEntry {
	return scandomain.HistoryEntry{
		ProductID: uuid.New(),
		Barcode:   barcode,
		Name:      "Item " + barcode,
		CreatedAt: time.Now(),
	}
}

func TestHistoryService_Record_Prepends(t *testing.T) {
	store := &fakeHistoryStore{}
	service := NewHistoryService(store, nil)
	ctx := context.Background()

	first := newEntry("111")
	second := newEntry("222")

	assert.NoError(t, service.Record(ctx, first))
	assert.NoError(t, service.Record(ctx, second))

	entries, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "222", entries[0].Barcode, "most recent first")
	assert.Equal(t, "111", entries[1].Barcode)
}

func TestHistoryService_Record_ReplacesInPlace(t *testing.T) {
	store := &fakeHistoryStore{}
	service := NewHistoryService(store, nil)
	ctx := context.Background()

	a := newEntry("111")
	b := newEntry("222")
	c := newEntry("333")
	for _, e := range []scandomain.HistoryEntry{a, b, c} {
		assert.NoError(t, service.Record(ctx, e))
	}

	// Re-scan of "222": replaced at its current position, not moved to front.
	rescanned := newEntry("222")
	rescanned.Name = "Item 222 updated"
	assert.NoError(t, service.Record(ctx, rescanned))

	entries, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "333", entries[0].Barcode)
	assert.Equal(t, "222", entries[1].Barcode)
	assert.Equal(t, "Item 222 updated", entries[1].Name)
	assert.Equal(t, "111", entries[2].Barcode)
}

func TestHistoryService_Record_DedupByProductID(t *testing.T) {
	store := &fakeHistoryStore{}
	service := NewHistoryService(store, nil)
	ctx := context.Background()

	original := newEntry("111")
	assert.NoError(t, service.Record(ctx, original))

	// Same product re-submitted under a different barcode.
	updated := scandomain.HistoryEntry{
		ProductID: original.ProductID,
		Barcode:   "999",
		Name:      "Renamed",
		CreatedAt: time.Now(),
	}
	assert.NoError(t, service.Record(ctx, updated))

	entries, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "999", entries[0].Barcode)
}

func TestHistoryService_Record_CapsAtLimit(t *testing.T) {
	store := &fakeHistoryStore{}
	service := NewHistoryService(store, nil)
	ctx := context.Background()

	for i := 0; i < scandomain.MaxHistoryEntries+1; i++ {
		assert.NoError(t, service.Record(ctx, newEntry(fmt.Sprintf("barcode-%03d", i))))
	}

	entries, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, scandomain.MaxHistoryEntries)
	assert.Equal(t, "barcode-050", entries[0].Barcode, "newest kept at head")
	assert.Equal(t, "barcode-001", entries[len(entries)-1].Barcode, "oldest dropped from tail")
}

func TestHistoryService_Clear(t *testing.T) {
	store := &fakeHistoryStore{}
	service := NewHistoryService(store, nil)
	ctx := context.Background()

	assert.NoError(t, service.Record(ctx, newEntry("111")))
	assert.NoError(t, service.Clear(ctx))

	entries, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryService_Record_SaveFailurePropagates(t *testing.T) {
	store := &fakeHistoryStore{saveErr: assert.AnError}
	service := NewHistoryService(store, nil)

	err := service.Record(context.Background(), newEntry("111"))

	assert.Error(t, err)
}
