package catalog

import (
	"context"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/google/uuid"
)

// BarcodeSource resolves a scanned code to the product it identifies.
// Production deployments back it with the catalog; tests swap in a fixed
// table so scan-driven flows run without capture hardware.
type BarcodeSource interface {
	// Resolve returns the product a code identifies, or nil when the
	// code is unknown to the business
	Resolve(ctx context.Context, businessID uuid.UUID, code string) (*catalog.Product, error)
}

// CatalogBarcodeSource resolves codes against the product catalog
type CatalogBarcodeSource struct {
	productRepo catalog.ProductRepository
}

// NewCatalogBarcodeSource creates a catalog-backed barcode source
func NewCatalogBarcodeSource(productRepo catalog.ProductRepository) *CatalogBarcodeSource {
	return &CatalogBarcodeSource{productRepo: productRepo}
}

// Resolve looks the code up as a product barcode
func (s *CatalogBarcodeSource) Resolve(ctx context.Context, businessID uuid.UUID, code string) (*catalog.Product, error) {
	return s.productRepo.FindByBarcode(ctx, businessID, code)
}

var _ BarcodeSource = (*CatalogBarcodeSource)(nil)
