package inventory

import (
	"context"
	"testing"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func catalogProduct(t *testing.T, businessID uuid.UUID, sku string, stock, minLevel int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(businessID, sku, "product "+sku, "pcs")
	require.NoError(t, err)
	require.NoError(t, p.SetMinStockLevel(minLevel))
	p.ApplyProjectedStock(stock)
	p.ClearDomainEvents()
	return *p
}

func TestLowStockService_ClassifyLowStock(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	thresholds := inventory.Thresholds{DefaultLow: 10, Critical: 3}

	t.Run("partitions catalog into severity tiers", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewLowStockService(products, nil, thresholds, zap.NewNop())

		stock := []catalog.Product{
			catalogProduct(t, businessID, "SKU-A", 1, 10),
			catalogProduct(t, businessID, "SKU-B", 7, 10),
			catalogProduct(t, businessID, "SKU-C", 40, 10),
		}
		products.On("FindAllForBusiness", ctx, businessID, mock.AnythingOfType("shared.Filter")).Return(stock, nil)

		report, err := service.ClassifyLowStock(ctx, businessID, nil)
		require.NoError(t, err)

		require.Len(t, report.Critical, 1)
		assert.Equal(t, "SKU-A", report.Critical[0].SKU)
		assert.Equal(t, inventory.StockLevelCritical, report.Critical[0].Severity)
		require.Len(t, report.Low, 1)
		assert.Equal(t, "SKU-B", report.Low[0].SKU)
	})

	t.Run("override thresholds apply for one evaluation", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewLowStockService(products, nil, thresholds, zap.NewNop())

		stock := []catalog.Product{catalogProduct(t, businessID, "SKU-A", 7, 10)}
		products.On("FindAllForBusiness", ctx, businessID, mock.AnythingOfType("shared.Filter")).Return(stock, nil)

		report, err := service.ClassifyLowStock(ctx, businessID, &inventory.Thresholds{DefaultLow: 10, Critical: 8})
		require.NoError(t, err)
		require.Len(t, report.Critical, 1)
		assert.Empty(t, report.Low)
	})

	t.Run("repeated classification yields identical sets", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewLowStockService(products, nil, thresholds, zap.NewNop())

		stock := []catalog.Product{
			catalogProduct(t, businessID, "SKU-A", 2, 10),
			catalogProduct(t, businessID, "SKU-B", 9, 10),
		}
		products.On("FindAllForBusiness", ctx, businessID, mock.AnythingOfType("shared.Filter")).Return(stock, nil)

		first, err := service.ClassifyLowStock(ctx, businessID, nil)
		require.NoError(t, err)
		second, err := service.ClassifyLowStock(ctx, businessID, nil)
		require.NoError(t, err)

		assert.Equal(t, first.Critical, second.Critical)
		assert.Equal(t, first.Low, second.Low)
	})
}

func TestLowStockService_CheckAndAlert(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("publishes one event per flagged product", func(t *testing.T) {
		products := new(MockProductRepository)
		bus := new(MockEventPublisher)
		service := NewLowStockService(products, bus, inventory.Thresholds{DefaultLow: 10, Critical: 3}, zap.NewNop())

		stock := []catalog.Product{
			catalogProduct(t, businessID, "SKU-A", 0, 10),
			catalogProduct(t, businessID, "SKU-B", 10, 10),
			catalogProduct(t, businessID, "SKU-C", 99, 10),
		}
		products.On("FindAllForBusiness", ctx, businessID, mock.AnythingOfType("shared.Filter")).Return(stock, nil)
		bus.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 2
		})).Return(nil)

		_, err := service.CheckAndAlert(ctx, businessID)
		require.NoError(t, err)
		bus.AssertExpectations(t)
	})

	t.Run("publishes nothing when everything is stocked", func(t *testing.T) {
		products := new(MockProductRepository)
		bus := new(MockEventPublisher)
		service := NewLowStockService(products, bus, inventory.Thresholds{DefaultLow: 10, Critical: 3}, zap.NewNop())

		stock := []catalog.Product{catalogProduct(t, businessID, "SKU-C", 99, 10)}
		products.On("FindAllForBusiness", ctx, businessID, mock.AnythingOfType("shared.Filter")).Return(stock, nil)

		_, err := service.CheckAndAlert(ctx, businessID)
		require.NoError(t, err)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
