package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/feed"
	"github.com/retailscan/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM.
// Every successful write is mirrored into the change feed so listeners see
// row-level insert/update/delete events.
type GormProductRepository struct {
	db        *gorm.DB
	publisher feed.Publisher
}

// NewGormProductRepository creates a new GormProductRepository.
// The publisher may be nil, in which case no change events are emitted.
func NewGormProductRepository(db *gorm.DB, publisher feed.Publisher) *GormProductRepository {
	return &GormProductRepository{db: db, publisher: publisher}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByBarcode finds a product by exact barcode match
func (r *GormProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("barcode = ? AND barcode <> ''", barcode).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindLowStock finds products whose stock is at or below their threshold
func (r *GormProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("stock <= min_stock").
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindExpiring finds products whose expiry date falls within their configured
// notification lead time of now. The per-product lead time makes this awkward
// to express in SQL portably, so candidates are narrowed by date presence and
// filtered in memory.
func (r *GormProductRepository) FindExpiring(ctx context.Context, now time.Time) ([]catalog.Product, error) {
	var candidates []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL").
		Order("expiry_date ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	expiring := make([]catalog.Product, 0, len(candidates))
	for _, p := range candidates {
		if p.IsExpiringSoon(now) {
			expiring = append(expiring, p)
		}
	}
	return expiring, nil
}

// Save creates or updates a product and emits the matching change event
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	old, err := r.FindByID(ctx, product.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return err
	}

	if r.publisher != nil {
		if old == nil {
			r.publisher.PublishProduct(feed.ProductChange{Type: feed.ChangeInsert, New: product})
		} else {
			r.publisher.PublishProduct(feed.ProductChange{Type: feed.ChangeUpdate, New: product, Old: old})
		}
	}
	return nil
}

// Delete deletes a product and emits a delete change event
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	old, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	if r.publisher != nil {
		r.publisher.PublishProduct(feed.ProductChange{Type: feed.ChangeDelete, Old: old})
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByBarcode reports whether any product carries the barcode
func (r *GormProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("barcode = ? AND barcode <> ''", barcode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies search, pagination and ordering to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(orderColumn(filter.OrderBy) + " " + orderDir)
	}

	return query
}

// applySearch applies the free-text search over name and barcode
func (r *GormProductRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR barcode ILIKE ?", pattern, pattern)
	}
	return query
}

// orderColumn whitelists sortable columns to keep user input out of the ORDER BY clause
func orderColumn(requested string) string {
	switch requested {
	case "name", "barcode", "selling_price", "stock", "created_at", "updated_at", "expiry_date":
		return requested
	default:
		return "created_at"
	}
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
