package catalog

import (
	"strings"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a product/SKU in the catalog.
// It is the aggregate root for product-related operations.
//
// CurrentStock is a cached projection of the inventory ledger: the signed
// sum of every inventory transaction recorded for this product. It is
// refreshed through ApplyProjectedStock inside the same database transaction
// as the ledger append that changed it, and is never written by any other
// path.
type Product struct {
	shared.BusinessAggregateRoot
	SKU           string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_business_sku,priority:2"`
	Name          string            `gorm:"type:varchar(200);not null"`
	Description   string            `gorm:"type:text"`
	Barcode       string            `gorm:"type:varchar(50);index"`
	Unit          string            `gorm:"type:varchar(20);not null"`
	PurchasePrice valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock  int64             `gorm:"not null;default:0"`
	MinStockLevel int64             `gorm:"not null;default:0"`
	Status        ProductStatus     `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(businessID uuid.UUID, sku, name, unit string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		unit = "pcs"
	}

	product := &Product{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SKU:                   strings.ToUpper(sku),
		Name:                  name,
		Unit:                  unit,
		PurchasePrice:         valueobject.ZeroNPR(),
		SellingPrice:          valueobject.ZeroNPR(),
		Status:                ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrices creates a new product with prices
func NewProductWithPrices(
	businessID uuid.UUID,
	sku, name, unit string,
	purchasePrice, sellingPrice valueobject.Money,
) (*Product, error) {
	product, err := NewProduct(businessID, sku, name, unit)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrices(purchasePrice, sellingPrice); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrices sets the purchase and selling prices
func (p *Product) SetPrices(purchasePrice, sellingPrice valueobject.Money) error {
	if purchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	p.PurchasePrice = purchasePrice
	p.SellingPrice = sellingPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetMinStockLevel sets the reorder threshold used by low-stock classification
func (p *Product) SetMinStockLevel(level int64) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}

	p.MinStockLevel = level
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ApplyProjectedStock replaces the cached stock with the value projected
// from the ledger. Callers must invoke this inside the same database
// transaction as the ledger append that changed the projection.
func (p *Product) ApplyProjectedStock(projected int64) {
	p.CurrentStock = projected
	p.UpdatedAt = time.Now()
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStatus sets the product lifecycle status
func (p *Product) SetStatus(status ProductStatus) error {
	switch status {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid product status")
	}

	p.Status = status
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetUnit sets the unit of measure
func (p *Product) SetUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Product unit is required")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Product unit cannot exceed 20 characters")
	}

	p.Unit = unit
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU is required")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
