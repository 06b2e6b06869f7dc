package inventory

import (
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/google/uuid"
)

// RecordTransactionRequest is the input for a direct ledger append
type RecordTransactionRequest struct {
	ProductID       uuid.UUID
	TransactionType inventory.TransactionType
	Quantity        int64
	ReferenceType   *inventory.ReferenceType
	ReferenceID     *uuid.UUID
	Reason          *inventory.AdjustmentReason
	UnitCost        *string
	Notes           string
	ActorID         *uuid.UUID
}

// AdjustStockRequest is the input for a manual stock correction
type AdjustStockRequest struct {
	ProductID uuid.UUID
	Delta     int64
	Reason    inventory.AdjustmentReason
	Notes     string
	ActorID   *uuid.UUID
}

// TransactionResult reports an applied ledger append together with the
// refreshed projection. Warnings carry non-fatal conditions such as the
// projection going negative; the operation has already succeeded when a
// warning is present.
type TransactionResult struct {
	Transaction    *inventory.InventoryTransaction `json:"transaction"`
	ProjectedStock int64                           `json:"projected_stock"`
	Warnings       []string                        `json:"warnings,omitempty"`
}

// VerificationResult reports a ledger/cache consistency check
type VerificationResult struct {
	ProductID      uuid.UUID `json:"product_id"`
	CachedStock    int64     `json:"cached_stock"`
	ProjectedStock int64     `json:"projected_stock"`
	Consistent     bool      `json:"consistent"`
	CheckedAt      time.Time `json:"checked_at"`
}

// ListTransactionsQuery filters a product's ledger history
type ListTransactionsQuery struct {
	ProductID       uuid.UUID
	TransactionType *inventory.TransactionType
	ReferenceType   *inventory.ReferenceType
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            int
	PageSize        int
}

// ProductStockDTO is the classification view of a product
type ProductStockDTO struct {
	ProductID     uuid.UUID            `json:"product_id"`
	SKU           string               `json:"sku"`
	Name          string               `json:"name"`
	CurrentStock  int64                `json:"current_stock"`
	MinStockLevel int64                `json:"min_stock_level"`
	Severity      inventory.StockLevel `json:"severity"`
}

// LowStockReport is the alert set handed to notification collaborators
type LowStockReport struct {
	Critical    []ProductStockDTO `json:"critical"`
	Low         []ProductStockDTO `json:"low"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func toProductStockDTO(p catalog.Product, severity inventory.StockLevel) ProductStockDTO {
	return ProductStockDTO{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		Severity:      severity,
	}
}
