package catalog

import (
	"context"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles catalog maintenance. Stock is deliberately absent
// from its write paths: CurrentStock is owned by the inventory ledger and
// only ever written through the projection refresh.
type ProductService struct {
	productRepo catalog.ProductRepository
	barcodes    BarcodeSource
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo catalog.ProductRepository, barcodes BarcodeSource, eventBus shared.EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		barcodes:    barcodes,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateProduct registers a new product with a unique SKU per business
func (s *ProductService) CreateProduct(ctx context.Context, businessID uuid.UUID, req CreateProductRequest) (*catalog.Product, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, businessID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(businessID, req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	if req.ActorID != nil {
		product.SetCreatedBy(*req.ActorID)
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil || req.SellingPrice != nil {
		purchase := valueobject.ZeroNPR()
		selling := valueobject.ZeroNPR()
		if req.PurchasePrice != nil {
			purchase = valueobject.NewMoneyNPR(*req.PurchasePrice)
		}
		if req.SellingPrice != nil {
			selling = valueobject.NewMoneyNPR(*req.SellingPrice)
		}
		if err := product.SetPrices(purchase, selling); err != nil {
			return nil, err
		}
	}

	if req.MinStockLevel != nil {
		if err := product.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, product.GetDomainEvents())
	product.ClearDomainEvents()

	s.logger.Info("product created",
		zap.String("business_id", businessID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	return product, nil
}

// UpdateProduct applies partial updates to an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, businessID, productID uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.productRepo.FindByIDForBusiness(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Unit != nil {
		if err := product.SetUnit(*req.Unit); err != nil {
			return nil, err
		}
	}

	if req.Barcode != nil {
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := product.SetStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil || req.SellingPrice != nil {
		purchase := product.PurchasePrice
		selling := product.SellingPrice
		if req.PurchasePrice != nil {
			purchase = valueobject.NewMoneyNPR(*req.PurchasePrice)
		}
		if req.SellingPrice != nil {
			selling = valueobject.NewMoneyNPR(*req.SellingPrice)
		}
		if err := product.SetPrices(purchase, selling); err != nil {
			return nil, err
		}
	}

	if req.MinStockLevel != nil {
		if err := product.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, product.GetDomainEvents())
	product.ClearDomainEvents()

	return product, nil
}

// GetProduct loads a single product scoped to a business
func (s *ProductService) GetProduct(ctx context.Context, businessID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByIDForBusiness(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return product, nil
}

// GetProductBySKU loads a single product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, businessID uuid.UUID, sku string) (*catalog.Product, error) {
	product, err := s.productRepo.FindBySKU(ctx, businessID, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return product, nil
}

// GetProductByBarcode resolves a scanned code through the barcode source
func (s *ProductService) GetProductByBarcode(ctx context.Context, businessID uuid.UUID, code string) (*catalog.Product, error) {
	product, err := s.barcodes.Resolve(ctx, businessID, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No product matches the scanned code")
	}
	return product, nil
}

// ListProducts returns a filtered page of catalog products
func (s *ProductService) ListProducts(ctx context.Context, businessID uuid.UUID, query ListProductsQuery) (*shared.Paginated[catalog.Product], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.Search = query.Search
	if query.Status != nil {
		filter.Filters["status"] = string(*query.Status)
	}
	if query.Unit != nil {
		filter.Filters["unit"] = *query.Unit
	}

	items, err := s.productRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ProductService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish product events", zap.Error(err))
	}
}
