package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailscan/backend/internal/domain/shared"
)

// DefaultExpiryNotifyDays is used when a product does not configure its own lead time
const DefaultExpiryNotifyDays = 7

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations.
// The low-stock and expiring-soon alert flags are derived from the stored
// numeric/date fields on every read; they are never persisted as source of truth.
type Product struct {
	shared.BaseEntity
	Name             string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:text"`
	Barcode          string          `gorm:"type:varchar(50);uniqueIndex:idx_product_barcode,where:barcode <> ''"`
	CategoryID       *uuid.UUID      `gorm:"type:uuid;index"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ImageURL         string          `gorm:"type:text"`
	Quantity         string          `gorm:"type:varchar(100)"` // free-text pack descriptor, e.g. "1L", "6x330ml"
	ExpiryDate       *time.Time      `gorm:"type:date"`
	ExpiryNotifyDays int             `gorm:"not null;default:7"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		SellingPrice:     decimal.Zero,
		PurchasePrice:    decimal.Zero,
		Stock:            decimal.Zero,
		MinStock:         decimal.Zero,
		ExpiryNotifyDays: DefaultExpiryNotifyDays,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
}

// SetPrices sets both selling and purchase prices
func (p *Product) SetPrices(sellingPrice, purchasePrice decimal.Decimal) error {
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if purchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	p.SellingPrice = sellingPrice
	p.PurchasePrice = purchasePrice
	p.UpdatedAt = time.Now()

	return nil
}

// SetStock sets the absolute stock level
func (p *Product) SetStock(stock decimal.Decimal) error {
	if stock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()

	return nil
}

// SetMinStock sets the minimum stock threshold for low-stock alerts
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()

	return nil
}

// SetExpiry sets the expiry date and the notification lead time in days
func (p *Product) SetExpiry(expiryDate *time.Time, notifyDays int) error {
	if notifyDays < 0 {
		return shared.NewDomainError("INVALID_EXPIRY_NOTIFY", "Expiry notification days cannot be negative")
	}
	if notifyDays == 0 {
		notifyDays = DefaultExpiryNotifyDays
	}

	p.ExpiryDate = expiryDate
	p.ExpiryNotifyDays = notifyDays
	p.UpdatedAt = time.Now()

	return nil
}

// AdjustStock applies a signed stock delta. Removals are clamped at zero,
// never negative; additions are unbounded.
func (p *Product) AdjustStock(delta decimal.Decimal) {
	newStock := p.Stock.Add(delta)
	if newStock.IsNegative() {
		newStock = decimal.Zero
	}
	p.Stock = newStock
	p.UpdatedAt = time.Now()
}

// IsLowStock reports whether the current stock is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinStock)
}

// IsExpiringSoon reports whether the expiry date falls within the configured
// notification lead time of now. Products without an expiry date never expire.
func (p *Product) IsExpiringSoon(now time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	notifyDays := p.ExpiryNotifyDays
	if notifyDays <= 0 {
		notifyDays = DefaultExpiryNotifyDays
	}
	threshold := now.AddDate(0, 0, notifyDays)
	return !p.ExpiryDate.After(threshold)
}

// IsPersisted reports whether the product has been assigned a store identifier
func (p *Product) IsPersisted() bool {
	return p.ID != uuid.Nil
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
