package scan

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings holds the operator-configured defaults injected into every
// resolution call. It is read-only to the pipeline and passed explicitly
// so resolution never reads ambient state.
type Settings struct {
	DefaultSellingPrice     decimal.Decimal
	DefaultPurchasePrice    decimal.Decimal
	DefaultCategoryID       *uuid.UUID
	DefaultStock            decimal.Decimal
	DefaultMinStock         decimal.Decimal
	DefaultExpiryNotifyDays int
}
