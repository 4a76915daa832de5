package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailscan/backend/internal/domain/catalog"
)

// CreateProductRequest represents the data needed to create a product
type CreateProductRequest struct {
	Name             string
	Description      string
	Barcode          string
	CategoryID       *uuid.UUID
	SellingPrice     *decimal.Decimal
	PurchasePrice    *decimal.Decimal
	Stock            *decimal.Decimal
	MinStock         *decimal.Decimal
	ImageURL         string
	Quantity         string
	ExpiryDate       *time.Time
	ExpiryNotifyDays int
	Actor            string
}

// UpdateProductRequest represents the data needed to update a product
type UpdateProductRequest struct {
	Name             *string
	Description      *string
	Barcode          *string
	CategoryID       *uuid.UUID
	SellingPrice     *decimal.Decimal
	PurchasePrice    *decimal.Decimal
	Stock            *decimal.Decimal
	MinStock         *decimal.Decimal
	ImageURL         *string
	Quantity         *string
	ExpiryDate       *time.Time
	ExpiryNotifyDays *int
	Actor            string
}

// ProductListFilter represents filtering options for listing products
type ProductListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// ProductResponse represents product data returned to callers. The alert
// flags are computed from the stored fields at mapping time, never read back
// from storage.
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Barcode          string          `json:"barcode,omitempty"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	Stock            decimal.Decimal `json:"stock"`
	MinStock         decimal.Decimal `json:"min_stock"`
	ImageURL         string          `json:"image_url,omitempty"`
	Quantity         string          `json:"quantity,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	ExpiryNotifyDays int             `json:"expiry_notify_days"`
	IsLowStock       bool            `json:"is_low_stock"`
	IsExpiringSoon   bool            `json:"is_expiring_soon"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CategoryResponse represents category data returned to callers
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a product to its response representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:               product.ID,
		Name:             product.Name,
		Description:      product.Description,
		Barcode:          product.Barcode,
		CategoryID:       product.CategoryID,
		SellingPrice:     product.SellingPrice,
		PurchasePrice:    product.PurchasePrice,
		Stock:            product.Stock,
		MinStock:         product.MinStock,
		ImageURL:         product.ImageURL,
		Quantity:         product.Quantity,
		ExpiryDate:       product.ExpiryDate,
		ExpiryNotifyDays: product.ExpiryNotifyDays,
		IsLowStock:       product.IsLowStock(),
		IsExpiringSoon:   product.IsExpiringSoon(time.Now()),
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

// ToCategoryResponse converts a category to its response representation
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
