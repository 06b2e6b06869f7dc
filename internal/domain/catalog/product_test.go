package catalog

import (
	"strings"
	"testing"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates product with defaults", func(t *testing.T) {
		product, err := NewProduct(businessID, "sku-001", "Basmati Rice 5kg", "bag")
		require.NoError(t, err)

		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Basmati Rice 5kg", product.Name)
		assert.Equal(t, "bag", product.Unit)
		assert.Equal(t, businessID, product.BusinessID)
		assert.Equal(t, int64(0), product.CurrentStock)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("defaults unit to pcs", func(t *testing.T) {
		product, err := NewProduct(businessID, "SKU-002", "USB Cable", "")
		require.NoError(t, err)
		assert.Equal(t, "pcs", product.Unit)
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct(businessID, "", "Nameless", "pcs")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(businessID, "SKU-003", "", "pcs")
		assert.Error(t, err)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewProduct(businessID, "SKU-004", strings.Repeat("x", 201), "pcs")
		assert.Error(t, err)
	})
}

func TestProduct_SetPrices(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SKU-010", "Notebook", "pcs")
	require.NoError(t, err)

	t.Run("sets valid prices", func(t *testing.T) {
		err := product.SetPrices(valueobject.NewMoneyNPRFromFloat(50), valueobject.NewMoneyNPRFromFloat(75))
		require.NoError(t, err)
		assert.True(t, product.SellingPrice.Equals(valueobject.NewMoneyNPRFromFloat(75)))
	})

	t.Run("rejects negative purchase price", func(t *testing.T) {
		err := product.SetPrices(valueobject.NewMoneyNPRFromFloat(-1), valueobject.NewMoneyNPRFromFloat(75))
		assert.Error(t, err)
	})
}

func TestProduct_ApplyProjectedStock(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SKU-020", "Sugar 1kg", "pkt")
	require.NoError(t, err)

	product.ApplyProjectedStock(42)
	assert.Equal(t, int64(42), product.CurrentStock)

	// negative projections are applied as-is, oversold stock is a warning
	// condition handled upstream
	product.ApplyProjectedStock(-3)
	assert.Equal(t, int64(-3), product.CurrentStock)
}

func TestProduct_SetMinStockLevel(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SKU-030", "Salt", "pkt")
	require.NoError(t, err)

	require.NoError(t, product.SetMinStockLevel(10))
	assert.Equal(t, int64(10), product.MinStockLevel)

	assert.Error(t, product.SetMinStockLevel(-1))
}
