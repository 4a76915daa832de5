package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/scan"
	"github.com/retailscan/backend/internal/domain/shared"
)

// HistoryRecorder receives a history entry after a product is persisted.
// Recording failures are logged, never surfaced: the history log is a
// convenience, not part of the persistence contract.
type HistoryRecorder interface {
	Record(ctx context.Context, entry scan.HistoryEntry) error
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	history      HistoryRecorder
	logger       *zap.Logger
}

// NewProductService creates a new ProductService. history may be nil when no
// scan history should be kept.
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	history HistoryRecorder,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		history:      history,
		logger:       logger,
	}
}

// Create persists a new product, typically a confirmed draft from the
// resolution pipeline
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Barcode != "" {
		exists, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this barcode already exists")
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.Name)
	if err != nil {
		return nil, err
	}
	product.CreatedBy = req.Actor
	product.UpdatedBy = req.Actor
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.Quantity = req.Quantity

	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}

	sellingPrice := decimal.Zero
	purchasePrice := decimal.Zero
	if req.SellingPrice != nil {
		sellingPrice = *req.SellingPrice
	}
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	if err := product.SetPrices(sellingPrice, purchasePrice); err != nil {
		return nil, err
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.ExpiryDate != nil || req.ExpiryNotifyDays > 0 {
		if err := product.SetExpiry(req.ExpiryDate, req.ExpiryNotifyDays); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreFailure, err)
	}

	s.recordHistory(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies a partial update to a persisted product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}
	product.Touch(req.Actor)

	if req.Barcode != nil && *req.Barcode != product.Barcode {
		if *req.Barcode != "" {
			exists, err := s.productRepo.ExistsByBarcode(ctx, *req.Barcode)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this barcode already exists")
			}
		}
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.SellingPrice != nil || req.PurchasePrice != nil {
		sellingPrice := product.SellingPrice
		purchasePrice := product.PurchasePrice
		if req.SellingPrice != nil {
			sellingPrice = *req.SellingPrice
		}
		if req.PurchasePrice != nil {
			purchasePrice = *req.PurchasePrice
		}
		if err := product.SetPrices(sellingPrice, purchasePrice); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.ExpiryDate != nil || req.ExpiryNotifyDays != nil {
		expiryDate := product.ExpiryDate
		notifyDays := product.ExpiryNotifyDays
		if req.ExpiryDate != nil {
			expiryDate = req.ExpiryDate
		}
		if req.ExpiryNotifyDays != nil {
			notifyDays = *req.ExpiryNotifyDays
		}
		if err := product.SetExpiry(expiryDate, notifyDays); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreFailure, err)
	}

	s.recordHistory(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a signed stock delta as a read-modify-write against a
// single persisted product. The loaded product is not mutated unless the
// underlying write succeeds: there is no optimistic pre-update.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*ProductResponse, error) {
	if id == uuid.Nil {
		return nil, shared.ErrNotFound
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	adjusted := *product
	adjusted.AdjustStock(delta)

	if err := s.productRepo.Save(ctx, &adjusted); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreFailure, err)
	}

	response := ToProductResponse(&adjusted)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByBarcode retrieves a product by exact barcode
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with free-text search and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return toProductResponses(products), total, nil
}

// ListLowStock retrieves products whose stock is at or below the threshold
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// ListExpiring retrieves products expiring within their notification window
func (s *ProductService) ListExpiring(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindExpiring(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// recordHistory pushes a product snapshot into the scan history
func (s *ProductService) recordHistory(ctx context.Context, product *catalog.Product) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, scan.NewHistoryEntry(product)); err != nil {
		s.logger.Warn("failed to record scan history",
			zap.String("barcode", product.Barcode),
			zap.Error(err),
		)
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
