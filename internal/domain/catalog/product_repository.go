package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailscan/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByBarcode finds a product by exact barcode match.
	// Returns shared.ErrNotFound when no product carries the barcode.
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindAll finds products matching the filter (free-text search over
	// name and barcode, paginated)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds products whose stock is at or below their threshold
	FindLowStock(ctx context.Context) ([]Product, error)

	// FindExpiring finds products whose expiry date falls within their
	// configured notification lead time of now
	FindExpiring(ctx context.Context, now time.Time) ([]Product, error)

	// Save persists a product (insert or update)
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByBarcode reports whether any product carries the barcode
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
}
