package inventory

import (
	"context"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, businessID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, businessID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, businessID uuid.UUID, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, businessID, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, businessID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, businessID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, businessID, sku)
	return args.Bool(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of inventory.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) AppendBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, businessID, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessID, productID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) FindByReference(ctx context.Context, businessID uuid.UUID, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, businessID, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumSignedQuantity(ctx context.Context, businessID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumSignedQuantitySince(ctx context.Context, businessID, productID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, businessID, productID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockSaleRepository is a mock implementation of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForBusinessLocked(ctx context.Context, businessID, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByNumber(ctx context.Context, businessID uuid.UUID, saleNumber string) (*trade.Sale, error) {
	args := m.Called(ctx, businessID, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockReturnRepository is a mock implementation of trade.ReturnExchangeRepository
type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) Save(ctx context.Context, r *trade.ReturnExchange) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) SaveWithLock(ctx context.Context, r *trade.ReturnExchange) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*trade.ReturnExchange, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ReturnExchange), args.Error(1)
}

func (m *MockReturnRepository) FindBySale(ctx context.Context, businessID, saleID uuid.UUID) ([]trade.ReturnExchange, error) {
	args := m.Called(ctx, businessID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ReturnExchange), args.Error(1)
}

func (m *MockReturnRepository) SumReturnedQuantityBySaleLine(ctx context.Context, businessID, saleID uuid.UUID) (map[string]int64, error) {
	args := m.Called(ctx, businessID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockReturnRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]trade.ReturnExchange, error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ReturnExchange), args.Error(1)
}

func (m *MockReturnRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReturnRepository) GenerateReturnNumber(ctx context.Context, businessID uuid.UUID) (string, error) {
	args := m.Called(ctx, businessID)
	return args.String(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestScope(products *MockProductRepository, transactions *MockTransactionRepository) *NoOpTransactionScope {
	return NewNoOpTransactionScope(&StaticRepositories{
		ProductRepo:     products,
		TransactionRepo: transactions,
	})
}
