package catalog

import (
	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for registering a new catalog product
type CreateProductRequest struct {
	SKU           string
	Name          string
	Description   string
	Unit          string
	Barcode       string
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	MinStockLevel *int64
	ActorID       *uuid.UUID
}

// UpdateProductRequest carries optional field updates for a product
type UpdateProductRequest struct {
	Name          *string
	Description   *string
	Unit          *string
	Barcode       *string
	Status        *catalog.ProductStatus
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	MinStockLevel *int64
}

// ListProductsQuery filters the product listing
type ListProductsQuery struct {
	Status   *catalog.ProductStatus
	Unit     *string
	Search   string
	Page     int
	PageSize int
}
