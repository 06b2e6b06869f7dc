package inventory

import (
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeInventoryTransaction = "InventoryTransaction"

// Event type constants
const (
	EventTypeTransactionAppended  = "InventoryTransactionAppended"
	EventTypeStockBelowThreshold  = "StockBelowThreshold"
	EventTypeNegativeStockWarning = "NegativeStockWarning"
)

// TransactionAppendedEvent is published after a ledger entry is committed
// together with the refreshed stock projection
type TransactionAppendedEvent struct {
	shared.BaseDomainEvent
	TransactionID   uuid.UUID       `json:"transaction_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	SignedQuantity  int64           `json:"signed_quantity"`
	ProjectedStock  int64           `json:"projected_stock"`
}

// NewTransactionAppendedEvent creates a new TransactionAppendedEvent
func NewTransactionAppendedEvent(tx *InventoryTransaction, projectedStock int64) *TransactionAppendedEvent {
	return &TransactionAppendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionAppended, AggregateTypeInventoryTransaction, tx.ID, tx.BusinessID),
		TransactionID:   tx.ID,
		ProductID:       tx.ProductID,
		TransactionType: tx.TransactionType,
		Quantity:        tx.Quantity,
		SignedQuantity:  tx.SignedQuantity(),
		ProjectedStock:  projectedStock,
	}
}

// StockBelowThresholdEvent is published when a projection update drops a
// product into the low or critical band
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID  `json:"product_id"`
	ProductName   string     `json:"product_name"`
	SKU           string     `json:"sku"`
	CurrentStock  int64      `json:"current_stock"`
	MinStockLevel int64      `json:"min_stock_level"`
	Severity      StockLevel `json:"severity"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(businessID, productID uuid.UUID, name, sku string, currentStock, minStockLevel int64, severity StockLevel) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeInventoryTransaction, productID, businessID),
		ProductID:       productID,
		ProductName:     name,
		SKU:             sku,
		CurrentStock:    currentStock,
		MinStockLevel:   minStockLevel,
		Severity:        severity,
	}
}

// NegativeStockWarningEvent is published when a projection goes negative.
// The operation that caused it still succeeds; blocking is left to callers.
type NegativeStockWarningEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	ProjectedStock int64     `json:"projected_stock"`
	TransactionID  uuid.UUID `json:"transaction_id"`
}

// NewNegativeStockWarningEvent creates a new NegativeStockWarningEvent
func NewNegativeStockWarningEvent(businessID, productID, transactionID uuid.UUID, projectedStock int64) *NegativeStockWarningEvent {
	return &NegativeStockWarningEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNegativeStockWarning, AggregateTypeInventoryTransaction, productID, businessID),
		ProductID:       productID,
		ProjectedStock:  projectedStock,
		TransactionID:   transactionID,
	}
}
