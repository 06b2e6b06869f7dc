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

func newLedgerFixture(t *testing.T) (*LedgerService, *MockProductRepository, *MockTransactionRepository, *MockEventPublisher) {
	t.Helper()
	products := new(MockProductRepository)
	transactions := new(MockTransactionRepository)
	bus := new(MockEventPublisher)
	service := NewLedgerService(
		newTestScope(products, transactions),
		bus,
		inventory.Thresholds{DefaultLow: 5, Critical: 2},
		zap.NewNop(),
	)
	return service, products, transactions, bus
}

func newStockedProduct(t *testing.T, businessID uuid.UUID, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(businessID, "SKU-100", "Instant Noodles", "pkt")
	require.NoError(t, err)
	require.NoError(t, product.SetMinStockLevel(5))
	product.ApplyProjectedStock(stock)
	product.ClearDomainEvents()
	return product
}

func TestLedgerService_RecordTransaction(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("appends and refreshes projection in one pass", func(t *testing.T) {
		service, products, transactions, bus := newLedgerFixture(t)
		product := newStockedProduct(t, businessID, 10)

		products.On("FindByIDForBusiness", ctx, businessID, product.ID).Return(product, nil)
		transactions.On("Append", ctx, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)
		transactions.On("SumSignedQuantity", ctx, businessID, product.ID).Return(int64(30), nil)
		products.On("Save", ctx, product).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := service.RecordTransaction(ctx, businessID, RecordTransactionRequest{
			ProductID:       product.ID,
			TransactionType: inventory.TransactionTypeIn,
			Quantity:        20,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(30), result.ProjectedStock)
		assert.Equal(t, int64(30), product.CurrentStock)
		assert.Empty(t, result.Warnings)
		transactions.AssertExpectations(t)
		products.AssertExpectations(t)
	})

	t.Run("warns when projection goes negative but does not fail", func(t *testing.T) {
		service, products, transactions, bus := newLedgerFixture(t)
		product := newStockedProduct(t, businessID, 1)

		products.On("FindByIDForBusiness", ctx, businessID, product.ID).Return(product, nil)
		transactions.On("Append", ctx, mock.Anything).Return(nil)
		transactions.On("SumSignedQuantity", ctx, businessID, product.ID).Return(int64(-4), nil)
		products.On("Save", ctx, product).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := service.RecordTransaction(ctx, businessID, RecordTransactionRequest{
			ProductID:       product.ID,
			TransactionType: inventory.TransactionTypeOut,
			Quantity:        5,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(-4), result.ProjectedStock)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "negative")
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		service, products, _, _ := newLedgerFixture(t)
		productID := uuid.New()

		products.On("FindByIDForBusiness", ctx, businessID, productID).Return(nil, nil)

		_, err := service.RecordTransaction(ctx, businessID, RecordTransactionRequest{
			ProductID:       productID,
			TransactionType: inventory.TransactionTypeIn,
			Quantity:        1,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects non-positive quantity before touching storage", func(t *testing.T) {
		service, products, transactions, _ := newLedgerFixture(t)

		_, err := service.RecordTransaction(ctx, businessID, RecordTransactionRequest{
			ProductID:       uuid.New(),
			TransactionType: inventory.TransactionTypeOut,
			Quantity:        0,
		})
		require.Error(t, err)
		products.AssertNotCalled(t, "FindByIDForBusiness", mock.Anything, mock.Anything, mock.Anything)
		transactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed unit cost", func(t *testing.T) {
		service, _, _, _ := newLedgerFixture(t)
		bad := "12.5x"

		_, err := service.RecordTransaction(ctx, businessID, RecordTransactionRequest{
			ProductID:       uuid.New(),
			TransactionType: inventory.TransactionTypeIn,
			Quantity:        1,
			UnitCost:        &bad,
		})
		require.Error(t, err)
	})
}

func TestLedgerService_VerifyStock(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("consistent cache", func(t *testing.T) {
		service, products, transactions, _ := newLedgerFixture(t)
		product := newStockedProduct(t, businessID, 12)

		products.On("FindByIDForBusiness", ctx, businessID, product.ID).Return(product, nil)
		transactions.On("SumSignedQuantity", ctx, businessID, product.ID).Return(int64(12), nil)

		result, err := service.VerifyStock(ctx, businessID, product.ID)
		require.NoError(t, err)
		assert.True(t, result.Consistent)
	})

	t.Run("reports drift without repairing", func(t *testing.T) {
		service, products, transactions, _ := newLedgerFixture(t)
		product := newStockedProduct(t, businessID, 12)

		products.On("FindByIDForBusiness", ctx, businessID, product.ID).Return(product, nil)
		transactions.On("SumSignedQuantity", ctx, businessID, product.ID).Return(int64(9), nil)

		result, err := service.VerifyStock(ctx, businessID, product.ID)
		require.NoError(t, err)
		assert.False(t, result.Consistent)
		assert.Equal(t, int64(12), result.CachedStock)
		assert.Equal(t, int64(9), result.ProjectedStock)
		assert.Equal(t, int64(12), product.CurrentStock)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestLedgerService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	productID := uuid.New()

	service, _, transactions, _ := newLedgerFixture(t)

	entries := []inventory.InventoryTransaction{}
	transactions.On("FindByProduct", ctx, businessID, productID, mock.AnythingOfType("shared.Filter")).Return(entries, nil)
	transactions.On("CountByProduct", ctx, businessID, productID, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

	page, err := service.ListTransactions(ctx, businessID, ListTransactionsQuery{ProductID: productID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 10, page.PageSize)
}
