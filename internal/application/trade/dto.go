package trade

import (
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/google/uuid"
)

// ReturnedItemRequest selects a line of the original sale to return.
// Prices are never taken from the client; they come from the sale line.
type ReturnedItemRequest struct {
	ProductID   uuid.UUID
	VariantName string
	Quantity    int64
}

// ExchangeItemRequest selects a catalog product to hand out in exchange.
// The unit price is read from the product's selling price.
type ExchangeItemRequest struct {
	ProductID   uuid.UUID
	VariantName string
	Quantity    int64
}

// SubmitReturnRequest is the input for a new return/exchange submission
type SubmitReturnRequest struct {
	SaleID        uuid.UUID
	ReturnType    trade.ReturnType
	Reason        trade.ReturnReason
	ReasonNote    string
	ReturnedItems []ReturnedItemRequest
	ExchangeItems []ExchangeItemRequest
	ActorID       *uuid.UUID
}

// DecideReturnRequest carries an approve or reject decision
type DecideReturnRequest struct {
	Approve bool
	ActorID uuid.UUID
	Note    string
	Reason  string
}

// ListReturnsQuery filters the return listing
type ListReturnsQuery struct {
	Status     *trade.ReturnStatus
	ReturnType *trade.ReturnType
	SaleID     *uuid.UUID
	Page       int
	PageSize   int
}

// CompletionResult reports a settled return together with the ledger
// entries it produced and any non-fatal stock warnings
type CompletionResult struct {
	ReturnExchange *trade.ReturnExchange             `json:"return_exchange"`
	Transactions   []*inventory.InventoryTransaction `json:"transactions"`
	Warnings       []string                          `json:"warnings,omitempty"`
}
