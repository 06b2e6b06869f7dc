package catalog

import (
	"context"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForBusiness finds a product by ID within a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU within a business
	FindBySKU(ctx context.Context, businessID uuid.UUID, sku string) (*Product, error)

	// FindByBarcode finds a product by its barcode within a business
	FindByBarcode(ctx context.Context, businessID uuid.UUID, barcode string) (*Product, error)

	// FindAllForBusiness finds all products for a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// CountForBusiness counts products for a business
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a product with the given SKU exists in the business
	ExistsBySKU(ctx context.Context, businessID uuid.UUID, sku string) (bool, error)
}
