package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogapp "github.com/Rajak13/Vyapar-sub001/internal/application/catalog"
	inventoryapp "github.com/Rajak13/Vyapar-sub001/internal/application/inventory"
	tradeapp "github.com/Rajak13/Vyapar-sub001/internal/application/trade"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/Rajak13/Vyapar-sub001/internal/interfaces/http/dto"
	"github.com/Rajak13/Vyapar-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// In-memory repositories. They embed the interfaces so only the methods
// the handlers reach need implementations; an unexpected call panics.

type memProductRepo struct {
	catalog.ProductRepository
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[uuid.UUID]*catalog.Product{}}
}

func (r *memProductRepo) FindByBarcode(_ context.Context, businessID uuid.UUID, barcode string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.BusinessID == businessID && p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) FindByIDForBusiness(_ context.Context, businessID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	return p, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, businessID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.BusinessID == businessID && p.SKU == strings.ToUpper(sku) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) ExistsBySKU(ctx context.Context, businessID uuid.UUID, sku string) (bool, error) {
	p, err := r.FindBySKU(ctx, businessID, sku)
	return p != nil, err
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) FindAllForBusiness(_ context.Context, businessID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var items []catalog.Product
	for _, p := range r.products {
		if p.BusinessID != businessID {
			continue
		}
		if status, ok := filter.Filters["status"]; ok && string(p.Status) != status {
			continue
		}
		items = append(items, *p)
	}
	return items, nil
}

func (r *memProductRepo) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	items, err := r.FindAllForBusiness(ctx, businessID, filter)
	return int64(len(items)), err
}

type memTransactionRepo struct {
	inventory.TransactionRepository
	entries []*inventory.InventoryTransaction
}

func (r *memTransactionRepo) Append(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.entries = append(r.entries, tx)
	return nil
}

func (r *memTransactionRepo) AppendBatch(_ context.Context, txs []*inventory.InventoryTransaction) error {
	r.entries = append(r.entries, txs...)
	return nil
}

func (r *memTransactionRepo) SumSignedQuantity(_ context.Context, _, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, tx := range r.entries {
		if tx.ProductID == productID {
			sum += tx.SignedQuantity()
		}
	}
	return sum, nil
}

func (r *memTransactionRepo) FindByProduct(_ context.Context, _, productID uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	var items []inventory.InventoryTransaction
	for _, tx := range r.entries {
		if tx.ProductID == productID {
			items = append(items, *tx)
		}
	}
	return items, nil
}

func (r *memTransactionRepo) CountByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) (int64, error) {
	items, err := r.FindByProduct(ctx, businessID, productID, filter)
	return int64(len(items)), err
}

type memSaleRepo struct {
	trade.SaleRepository
	sales map[uuid.UUID]*trade.Sale
}

func (r *memSaleRepo) FindByIDForBusiness(_ context.Context, businessID, id uuid.UUID) (*trade.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.BusinessID != businessID {
		return nil, nil
	}
	return s, nil
}

func (r *memSaleRepo) FindByIDForBusinessLocked(ctx context.Context, businessID, id uuid.UUID) (*trade.Sale, error) {
	return r.FindByIDForBusiness(ctx, businessID, id)
}

type memReturnRepo struct {
	trade.ReturnExchangeRepository
	returns map[uuid.UUID]*trade.ReturnExchange
	nextSeq int
}

func newMemReturnRepo() *memReturnRepo {
	return &memReturnRepo{returns: map[uuid.UUID]*trade.ReturnExchange{}}
}

func (r *memReturnRepo) Save(_ context.Context, ret *trade.ReturnExchange) error {
	r.returns[ret.ID] = ret
	return nil
}

func (r *memReturnRepo) SaveWithLock(_ context.Context, ret *trade.ReturnExchange) error {
	r.returns[ret.ID] = ret
	return nil
}

func (r *memReturnRepo) FindByIDForBusiness(_ context.Context, businessID, id uuid.UUID) (*trade.ReturnExchange, error) {
	ret, ok := r.returns[id]
	if !ok || ret.BusinessID != businessID {
		return nil, nil
	}
	return ret, nil
}

func (r *memReturnRepo) SumReturnedQuantityBySaleLine(_ context.Context, _, saleID uuid.UUID) (map[string]int64, error) {
	claimed := map[string]int64{}
	for _, ret := range r.returns {
		if ret.OriginalSaleID != saleID || ret.Status == trade.ReturnStatusRejected {
			continue
		}
		for _, item := range ret.ReturnedItems {
			claimed[item.ProductID.String()+"|"+item.VariantName] += item.Quantity
		}
	}
	return claimed, nil
}

func (r *memReturnRepo) GenerateReturnNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.nextSeq++
	return fmt.Sprintf("RET-2026-%05d", r.nextSeq), nil
}

func (r *memReturnRepo) FindAllForBusiness(_ context.Context, businessID uuid.UUID, filter shared.Filter) ([]trade.ReturnExchange, error) {
	var items []trade.ReturnExchange
	for _, ret := range r.returns {
		if ret.BusinessID != businessID {
			continue
		}
		if status, ok := filter.Filters["status"]; ok && string(ret.Status) != status {
			continue
		}
		if returnType, ok := filter.Filters["return_type"]; ok && string(ret.ReturnType) != returnType {
			continue
		}
		if saleID, ok := filter.Filters["original_sale_id"]; ok && ret.OriginalSaleID != saleID {
			continue
		}
		items = append(items, *ret)
	}
	return items, nil
}

func (r *memReturnRepo) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	items, err := r.FindAllForBusiness(ctx, businessID, filter)
	return int64(len(items)), err
}

// httpFixture wires the full handler stack over in-memory repositories
type httpFixture struct {
	engine       *gin.Engine
	businessID   uuid.UUID
	actorID      uuid.UUID
	products     *memProductRepo
	transactions *memTransactionRepo
	sales        *memSaleRepo
	returns      *memReturnRepo
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()

	f := &httpFixture{
		businessID:   uuid.New(),
		actorID:      uuid.New(),
		products:     newMemProductRepo(),
		transactions: &memTransactionRepo{},
		sales:        &memSaleRepo{sales: map[uuid.UUID]*trade.Sale{}},
		returns:      newMemReturnRepo(),
	}

	scope := inventoryapp.NewNoOpTransactionScope(&inventoryapp.StaticRepositories{
		ProductRepo:     f.products,
		TransactionRepo: f.transactions,
		SaleRepo:        f.sales,
		ReturnRepo:      f.returns,
	})

	logger := zap.NewNop()
	thresholds := inventory.Thresholds{DefaultLow: 5, Critical: 2}

	ledger := inventoryapp.NewLedgerService(scope, nil, thresholds, logger)
	adjustments := inventoryapp.NewAdjustmentService(ledger, scope, logger)
	lowStock := inventoryapp.NewLowStockService(f.products, nil, thresholds, logger)
	returnSvc := tradeapp.NewReturnService(scope, nil, logger)
	productSvc := catalogapp.NewProductService(f.products, catalogapp.NewCatalogBarcodeSource(f.products), nil, logger)

	f.engine = gin.New()
	f.engine.Use(middleware.RequestID())
	api := f.engine.Group("/api/v1")
	NewInventoryHandler(ledger, adjustments, lowStock).RegisterRoutes(api)
	NewReturnsHandler(returnSvc).RegisterRoutes(api)
	NewProductHandler(productSvc).RegisterRoutes(api)

	return f
}

func (f *httpFixture) addProduct(t *testing.T, sku, name string, sellingPrice float64, minStock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProductWithPrices(f.businessID, sku, name, "pcs",
		valueobject.NewMoneyNPRFromFloat(sellingPrice/2), valueobject.NewMoneyNPRFromFloat(sellingPrice))
	require.NoError(t, err)
	require.NoError(t, product.SetMinStockLevel(minStock))
	product.ClearDomainEvents()
	f.products.products[product.ID] = product
	return product
}

func (f *httpFixture) addSale(t *testing.T, number string, items ...trade.SaleItem) *trade.Sale {
	t.Helper()
	sale := &trade.Sale{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(f.businessID),
		SaleNumber:            number,
		Status:                trade.SaleStatusCompleted,
	}
	for i := range items {
		items[i].SaleID = sale.ID
	}
	sale.Items = items
	f.sales.sales[sale.ID] = sale
	return sale
}

func saleItem(productID uuid.UUID, name, variant string, quantity int64, unitPrice float64) trade.SaleItem {
	return trade.SaleItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: name,
		VariantName: variant,
		Quantity:    quantity,
		UnitPrice:   valueobject.NewMoneyNPRFromFloat(unitPrice),
		LineTotal:   valueobject.NewMoneyNPRFromFloat(unitPrice * float64(quantity)),
	}
}

type requestOption func(*http.Request)

func withoutBusinessID() requestOption {
	return func(req *http.Request) {
		req.Header.Del("X-Business-ID")
	}
}

func withoutActorID() requestOption {
	return func(req *http.Request) {
		req.Header.Del("X-Actor-ID")
	}
}

func (f *httpFixture) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Business-ID", f.businessID.String())
	req.Header.Set("X-Actor-ID", f.actorID.String())
	for _, opt := range opts {
		opt(req)
	}

	recorder := httptest.NewRecorder()
	f.engine.ServeHTTP(recorder, req)
	return recorder
}

// decodeEnvelope unmarshals the response envelope and re-marshals Data
// into out when provided
func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()

	var envelope struct {
		Success bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo `json:"error"`
		Meta    *dto.Meta      `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}

	return dto.Response{
		Success: envelope.Success,
		Error:   envelope.Error,
		Meta:    envelope.Meta,
	}
}
