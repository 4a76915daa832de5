package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewProduct_Success(t *testing.T) {
	product, err := NewProduct("Milk 1L")

	assert.NoError(t, err)
	assert.NotNil(t, product)
	assert.Equal(t, "Milk 1L", product.Name)
	assert.True(t, product.SellingPrice.IsZero())
	assert.True(t, product.Stock.IsZero())
	assert.Equal(t, DefaultExpiryNotifyDays, product.ExpiryNotifyDays)
}

func TestNewProduct_EmptyName(t *testing.T) {
	product, err := NewProduct("")

	assert.Error(t, err)
	assert.Nil(t, product)
}

func TestProduct_SetPrices_NegativeRejected(t *testing.T) {
	product, _ := NewProduct("Milk 1L")

	err := product.SetPrices(decimal.NewFromInt(-1), decimal.Zero)
	assert.Error(t, err)

	err = product.SetPrices(decimal.Zero, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestProduct_SetBarcode_TooLong(t *testing.T) {
	product, _ := NewProduct("Milk 1L")

	long := make([]byte, 51)
	for i := range long {
		long[i] = '1'
	}
	err := product.SetBarcode(string(long))

	assert.Error(t, err)
}

func TestProduct_AdjustStock_ClampsAtZero(t *testing.T) {
	product, _ := NewProduct("Milk 1L")
	_ = product.SetStock(decimal.NewFromInt(2))
	_ = product.SetMinStock(decimal.NewFromInt(5))

	product.AdjustStock(decimal.NewFromInt(-5))

	assert.True(t, product.Stock.IsZero())
	assert.True(t, product.IsLowStock())
}

func TestProduct_AdjustStock_Addition(t *testing.T) {
	product, _ := NewProduct("Milk 1L")
	_ = product.SetStock(decimal.NewFromInt(10))
	_ = product.SetMinStock(decimal.NewFromInt(5))

	product.AdjustStock(decimal.NewFromInt(3))

	assert.True(t, product.Stock.Equal(decimal.NewFromInt(13)))
	assert.False(t, product.IsLowStock())
}

func TestProduct_IsLowStock_AtThreshold(t *testing.T) {
	product, _ := NewProduct("Milk 1L")
	_ = product.SetStock(decimal.NewFromInt(5))
	_ = product.SetMinStock(decimal.NewFromInt(5))

	assert.True(t, product.IsLowStock())
}

func TestProduct_IsExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	product, _ := NewProduct("Milk 1L")
	assert.False(t, product.IsExpiringSoon(now), "no expiry date never expires")

	soon := now.AddDate(0, 0, 3)
	_ = product.SetExpiry(&soon, 7)
	assert.True(t, product.IsExpiringSoon(now))

	far := now.AddDate(0, 0, 30)
	_ = product.SetExpiry(&far, 7)
	assert.False(t, product.IsExpiringSoon(now))
}

func TestProduct_SetExpiry_DefaultsLeadTime(t *testing.T) {
	product, _ := NewProduct("Milk 1L")
	date := time.Now().AddDate(0, 1, 0)

	err := product.SetExpiry(&date, 0)

	assert.NoError(t, err)
	assert.Equal(t, DefaultExpiryNotifyDays, product.ExpiryNotifyDays)
}
