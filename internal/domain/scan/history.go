package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailscan/backend/internal/domain/catalog"
)

// MaxHistoryEntries caps the recency log
const MaxHistoryEntries = 50

// HistoryEntry is an immutable product snapshot taken when the operator
// submits a product after a scan
type HistoryEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHistoryEntry snapshots a product for the history log
func NewHistoryEntry(product *catalog.Product) HistoryEntry {
	return HistoryEntry{
		ProductID: product.ID,
		Barcode:   product.Barcode,
		Name:      product.Name,
		Price:     product.SellingPrice.StringFixed(2),
		ImageURL:  product.ImageURL,
		CreatedAt: time.Now(),
	}
}

// SameScan reports whether two entries identify the same scan. Identity is
// (barcode, product id): a non-empty match on either field is sufficient.
func (e HistoryEntry) SameScan(other HistoryEntry) bool {
	if e.Barcode != "" && e.Barcode == other.Barcode {
		return true
	}
	if e.ProductID != uuid.Nil && e.ProductID == other.ProductID {
		return true
	}
	return false
}

// HistoryStore is the persisted slot backing the history cache. The slot
// holds one serialized ordered sequence, read fully and rewritten fully on
// each mutation.
//
// Load must treat an unparseable slot as empty rather than failing the
// caller.
type HistoryStore interface {
	Load(ctx context.Context) ([]HistoryEntry, error)
	Save(ctx context.Context, entries []HistoryEntry) error
	Clear(ctx context.Context) error
}
