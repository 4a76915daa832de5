package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailscan/backend/internal/domain/scan"
)

// Settings materializes the operator defaults into the domain value object
// consumed by barcode resolution. Prices are parsed once here so malformed
// configuration fails at startup rather than per scan.
func (d *DefaultsConfig) Settings() (scan.Settings, error) {
	selling, err := decimal.NewFromString(d.SellingPrice)
	if err != nil {
		return scan.Settings{}, fmt.Errorf("defaults.selling_price %q: %w", d.SellingPrice, err)
	}
	purchase, err := decimal.NewFromString(d.PurchasePrice)
	if err != nil {
		return scan.Settings{}, fmt.Errorf("defaults.purchase_price %q: %w", d.PurchasePrice, err)
	}

	var categoryID *uuid.UUID
	if d.CategoryID != "" {
		id, err := uuid.Parse(d.CategoryID)
		if err != nil {
			return scan.Settings{}, fmt.Errorf("defaults.category_id %q: %w", d.CategoryID, err)
		}
		categoryID = &id
	}

	return scan.Settings{
		DefaultSellingPrice:     selling,
		DefaultPurchasePrice:    purchase,
		DefaultCategoryID:       categoryID,
		DefaultStock:            decimal.NewFromInt(d.Stock),
		DefaultMinStock:         decimal.NewFromInt(d.MinStock),
		DefaultExpiryNotifyDays: d.ExpiryNotifyDays,
	}, nil
}
