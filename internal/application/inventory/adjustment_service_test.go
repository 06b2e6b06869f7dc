package inventory

import (
	"context"
	"testing"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdjustmentFixture(t *testing.T) (*AdjustmentService, *MockProductRepository, *MockTransactionRepository, *MockEventPublisher) {
	t.Helper()
	products := new(MockProductRepository)
	transactions := new(MockTransactionRepository)
	bus := new(MockEventPublisher)
	scope := newTestScope(products, transactions)
	ledger := NewLedgerService(scope, bus, inventory.Thresholds{DefaultLow: 5, Critical: 2}, zap.NewNop())
	return NewAdjustmentService(ledger, scope, zap.NewNop()), products, transactions, bus
}

func TestAdjustmentService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("appends signed adjustment through the ledger", func(t *testing.T) {
		service, products, transactions, bus := newAdjustmentFixture(t)
		product := newStockedProduct(t, businessID, 20)

		products.On("FindByIDForBusiness", ctx, businessID, product.ID).Return(product, nil)
		transactions.On("Append", ctx, mock.MatchedBy(func(tx *inventory.InventoryTransaction) bool {
			return tx.TransactionType == inventory.TransactionTypeAdjustment &&
				tx.Quantity == -3 &&
				tx.AdjustmentReason != nil &&
				*tx.AdjustmentReason == inventory.AdjustmentReasonDamaged &&
				tx.ReferenceType != nil &&
				*tx.ReferenceType == inventory.ReferenceTypeManualAdjustment &&
				tx.ReferenceID == nil
		})).Return(nil)
		transactions.On("SumSignedQuantity", ctx, businessID, product.ID).Return(int64(17), nil)
		products.On("Save", ctx, product).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := service.AdjustStock(ctx, businessID, AdjustStockRequest{
			ProductID: product.ID,
			Delta:     -3,
			Reason:    inventory.AdjustmentReasonDamaged,
			Notes:     "water damage in storeroom",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(17), result.ProjectedStock)
		assert.Equal(t, int64(-3), result.Transaction.SignedQuantity())
		transactions.AssertExpectations(t)
	})

	t.Run("negative preview warns but still succeeds", func(t *testing.T) {
		service, products, transactions, bus := newAdjustmentFixture(t)
		product := newStockedProduct(t, businessID, 2)

		products.On("FindByIDForBusiness", ctx, businessID, product.ID).Return(product, nil)
		transactions.On("Append", ctx, mock.Anything).Return(nil)
		transactions.On("SumSignedQuantity", ctx, businessID, product.ID).Return(int64(-8), nil)
		products.On("Save", ctx, product).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := service.AdjustStock(ctx, businessID, AdjustStockRequest{
			ProductID: product.ID,
			Delta:     -10,
			Reason:    inventory.AdjustmentReasonTheftLoss,
		})
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
	})

	t.Run("rejects unknown reason code", func(t *testing.T) {
		service, _, transactions, _ := newAdjustmentFixture(t)

		_, err := service.AdjustStock(ctx, businessID, AdjustStockRequest{
			ProductID: uuid.New(),
			Delta:     1,
			Reason:    inventory.AdjustmentReason("MYSTERY"),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
		transactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("OTHER requires notes", func(t *testing.T) {
		service, _, _, _ := newAdjustmentFixture(t)

		_, err := service.AdjustStock(ctx, businessID, AdjustStockRequest{
			ProductID: uuid.New(),
			Delta:     1,
			Reason:    inventory.AdjustmentReasonOther,
		})
		require.Error(t, err)
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		service, _, _, _ := newAdjustmentFixture(t)

		_, err := service.AdjustStock(ctx, businessID, AdjustStockRequest{
			ProductID: uuid.New(),
			Delta:     0,
			Reason:    inventory.AdjustmentReasonCountCorrection,
		})
		require.Error(t, err)
	})
}
