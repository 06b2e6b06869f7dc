package trade

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReturnType distinguishes a plain refund from an exchange for other items
type ReturnType string

const (
	ReturnTypeReturn   ReturnType = "RETURN"
	ReturnTypeExchange ReturnType = "EXCHANGE"
)

// IsValid checks if the return type is valid
func (t ReturnType) IsValid() bool {
	return t == ReturnTypeReturn || t == ReturnTypeExchange
}

// ReturnReason is the customer-facing reason for a return request
type ReturnReason string

const (
	ReturnReasonDefective      ReturnReason = "DEFECTIVE"
	ReturnReasonWrongItem      ReturnReason = "WRONG_ITEM"
	ReturnReasonNotAsDescribed ReturnReason = "NOT_AS_DESCRIBED"
	ReturnReasonChangedMind    ReturnReason = "CHANGED_MIND"
	ReturnReasonSizeFit        ReturnReason = "SIZE_FIT"
	ReturnReasonOther          ReturnReason = "OTHER"
)

// IsValid checks if the return reason is valid
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReturnReasonDefective, ReturnReasonWrongItem, ReturnReasonNotAsDescribed,
		ReturnReasonChangedMind, ReturnReasonSizeFit, ReturnReasonOther:
		return true
	}
	return false
}

// ReturnStatus is the workflow state of a return/exchange request
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "PENDING"
	ReturnStatusApproved  ReturnStatus = "APPROVED"
	ReturnStatusRejected  ReturnStatus = "REJECTED"
	ReturnStatusCompleted ReturnStatus = "COMPLETED"
)

// CanTransitionTo checks if a status transition is legal.
// PENDING may move to APPROVED or REJECTED; APPROVED may move to COMPLETED.
// REJECTED and COMPLETED are terminal.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusPending:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusCompleted
	}
	return false
}

// IsTerminal returns true for states that admit no further transitions
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusRejected || s == ReturnStatusCompleted
}

// ReturnItem is a line item snapshot inside a return/exchange request.
// LineTotal is always recomputed from UnitPrice and Quantity; totals
// submitted by clients are never trusted.
type ReturnItem struct {
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	VariantName string            `json:"variant_name,omitempty"`
	Quantity    int64             `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	LineTotal   valueobject.Money `json:"line_total"`
}

// NewReturnItem creates a line snapshot with a recomputed total
func NewReturnItem(productID uuid.UUID, productName, variantName string, quantity int64, unitPrice valueobject.Money) (ReturnItem, error) {
	if quantity <= 0 {
		return ReturnItem{}, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return ReturnItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return ReturnItem{
		ProductID:   productID,
		ProductName: productName,
		VariantName: variantName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.MultiplyByInt(quantity),
	}, nil
}

// LineKey identifies a sale line by product and variant
func (i ReturnItem) LineKey() string {
	return i.ProductID.String() + "|" + i.VariantName
}

// ReturnItems is a JSON-persisted collection of line snapshots
type ReturnItems []ReturnItem

// Value implements driver.Valuer for JSONB storage
func (items ReturnItems) Value() (driver.Value, error) {
	if items == nil {
		items = ReturnItems{}
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner for JSONB retrieval
func (items *ReturnItems) Scan(value any) error {
	if value == nil {
		*items = ReturnItems{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ReturnItems", value)
	}
	return json.Unmarshal(data, items)
}

// Total sums the line totals
func (items ReturnItems) Total() valueobject.Money {
	total := valueobject.ZeroNPR()
	for _, item := range items {
		total = total.MustAdd(item.LineTotal)
	}
	return total
}

// ReturnExchange is the aggregate root of the return/exchange workflow.
// It is created PENDING, decided to APPROVED or REJECTED, and finished at
// COMPLETED. The record is immutable once a terminal state is reached; the
// only transition with stock side effects is completion.
type ReturnExchange struct {
	shared.BusinessAggregateRoot
	ReturnNumber       string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_return_business_number,priority:2"`
	OriginalSaleID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerID         *uuid.UUID        `gorm:"type:uuid;index"`
	ReturnType         ReturnType        `gorm:"type:varchar(20);not null"`
	Reason             ReturnReason      `gorm:"type:varchar(30);not null"`
	ReasonNote         string            `gorm:"type:text"`
	Status             ReturnStatus      `gorm:"type:varchar(20);not null;index"`
	ReturnedItems      ReturnItems       `gorm:"type:jsonb;not null"`
	ExchangeItems      ReturnItems       `gorm:"type:jsonb;not null"`
	OriginalAmount     valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	RefundAmount       valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	ExchangeDifference valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	DecisionNote       string            `gorm:"type:text"`
	ProcessedBy        *uuid.UUID        `gorm:"type:uuid"`
	ProcessedAt        *time.Time        `gorm:""`
}

// TableName returns the table name for GORM
func (ReturnExchange) TableName() string {
	return "returns_exchanges"
}

// NewReturnExchange validates a submission against the original sale and
// creates the request in PENDING state.
//
// previouslyReturned carries, per sale line key, the quantity already
// claimed by earlier non-rejected returns of the same sale, so concurrent
// or successive requests cannot jointly exceed the sold quantity. Callers
// must gather it inside the same database transaction that persists the
// new request.
func NewReturnExchange(
	businessID uuid.UUID,
	sale *Sale,
	returnType ReturnType,
	reason ReturnReason,
	reasonNote string,
	returnedItems []ReturnItem,
	exchangeItems []ReturnItem,
	previouslyReturned map[string]int64,
) (*ReturnExchange, error) {
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Original sale not found")
	}
	if sale.IsVoided() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot return items from a voided sale")
	}
	if !returnType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RETURN_TYPE", "Unknown return type: "+string(returnType))
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown return reason: "+string(reason))
	}
	if len(returnedItems) == 0 {
		return nil, shared.NewDomainError("EMPTY_RETURN", "At least one returned item is required")
	}
	if returnType == ReturnTypeReturn && len(exchangeItems) > 0 {
		return nil, shared.NewDomainError("INVALID_RETURN_TYPE", "Exchange items are only allowed for exchanges")
	}

	claimed := make(map[string]int64, len(returnedItems))
	for _, item := range returnedItems {
		line := sale.FindItem(item.ProductID, item.VariantName)
		if line == nil {
			return nil, shared.NewDomainError("ITEM_NOT_IN_SALE",
				fmt.Sprintf("Product %s was not part of the original sale", item.ProductName))
		}
		claimed[item.LineKey()] += item.Quantity
		available := line.Quantity - previouslyReturned[item.LineKey()]
		if claimed[item.LineKey()] > available {
			return nil, shared.NewDomainError("RETURN_QUANTITY_EXCEEDED",
				fmt.Sprintf("Returned quantity for %s exceeds the remaining sold quantity", item.ProductName))
		}
	}

	re := &ReturnExchange{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		OriginalSaleID:        sale.ID,
		CustomerID:            sale.CustomerID,
		ReturnType:            returnType,
		Reason:                reason,
		ReasonNote:            reasonNote,
		Status:                ReturnStatusPending,
		ReturnedItems:         returnedItems,
		ExchangeItems:         exchangeItems,
	}
	if re.ExchangeItems == nil {
		re.ExchangeItems = ReturnItems{}
	}

	if err := re.reconcile(); err != nil {
		return nil, err
	}

	re.AddDomainEvent(NewReturnSubmittedEvent(re))

	return re, nil
}

// reconcile recomputes the monetary summary from the item snapshots.
// For RETURN the full value of the returned items is refunded. For EXCHANGE
// the authoritative figure is the signed difference between the exchange
// value and the returned value: positive means the customer owes more,
// negative means a partial refund is due.
func (r *ReturnExchange) reconcile() error {
	original := r.ReturnedItems.Total()

	switch r.ReturnType {
	case ReturnTypeReturn:
		r.OriginalAmount = original
		r.RefundAmount = original
		r.ExchangeDifference = valueobject.ZeroNPR()
	case ReturnTypeExchange:
		exchangeTotal := r.ExchangeItems.Total()
		difference, err := exchangeTotal.Subtract(original)
		if err != nil {
			return shared.NewDomainError("CURRENCY_MISMATCH", err.Error())
		}
		r.OriginalAmount = original
		r.ExchangeDifference = difference
		if difference.IsNegative() {
			r.RefundAmount = difference.Negate()
		} else {
			r.RefundAmount = valueobject.ZeroNPR()
		}
	default:
		return shared.NewDomainError("INVALID_RETURN_TYPE", "Unknown return type: "+string(r.ReturnType))
	}

	return nil
}

// Approve moves a pending request to APPROVED. No stock or money moves yet;
// only the decision and its author are recorded.
func (r *ReturnExchange) Approve(approverID uuid.UUID, note string) error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve a return in %s state", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.DecisionNote = note
	r.ProcessedBy = &approverID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject moves a pending request to the terminal REJECTED state.
// A reason is mandatory; no ledger transactions are ever produced.
func (r *ReturnExchange) Reject(rejecterID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject a return in %s state", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	r.DecisionNote = reason
	r.ProcessedBy = &rejecterID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// Complete moves an approved request to the terminal COMPLETED state.
// The reconciliation is re-validated before the transition so a tampered
// record cannot settle with stale amounts. This is the only transition
// that produces ledger transactions; callers must persist the aggregate
// and the transactions from BuildCompletionTransactions in one database
// transaction.
func (r *ReturnExchange) Complete(completerID uuid.UUID) error {
	if !r.Status.CanTransitionTo(ReturnStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete a return in %s state", r.Status))
	}

	if err := r.reconcile(); err != nil {
		return err
	}

	now := time.Now()
	r.Status = ReturnStatusCompleted
	r.ProcessedBy = &completerID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnCompletedEvent(r))

	return nil
}

// BuildCompletionTransactions produces the ledger entries settlement
// requires: one IN entry per returned item restoring stock and one OUT
// entry per exchange item removing the newly handed-out stock. Every entry
// references this request.
func (r *ReturnExchange) BuildCompletionTransactions() ([]*inventory.InventoryTransaction, error) {
	if r.Status != ReturnStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Completion transactions require a completed return")
	}

	txs := make([]*inventory.InventoryTransaction, 0, len(r.ReturnedItems)+len(r.ExchangeItems))

	for _, item := range r.ReturnedItems {
		tx, err := inventory.NewTransactionBuilder(r.BusinessID, item.ProductID, inventory.TransactionTypeIn, item.Quantity).
			WithReference(inventory.ReferenceTypeReturn, r.ID).
			WithUnitCost(item.UnitPrice).
			WithNotes("Return " + r.ReturnNumber + ": " + item.ProductName).
			Build()
		if err != nil {
			return nil, err
		}
		if r.ProcessedBy != nil {
			tx.WithActor(*r.ProcessedBy)
		}
		txs = append(txs, tx)
	}

	for _, item := range r.ExchangeItems {
		tx, err := inventory.NewTransactionBuilder(r.BusinessID, item.ProductID, inventory.TransactionTypeOut, item.Quantity).
			WithReference(inventory.ReferenceTypeExchange, r.ID).
			WithUnitCost(item.UnitPrice).
			WithNotes("Exchange " + r.ReturnNumber + ": " + item.ProductName).
			Build()
		if err != nil {
			return nil, err
		}
		if r.ProcessedBy != nil {
			tx.WithActor(*r.ProcessedBy)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// IsPending returns true while the request awaits a decision
func (r *ReturnExchange) IsPending() bool {
	return r.Status == ReturnStatusPending
}

// IsApproved returns true when the request is approved but not settled
func (r *ReturnExchange) IsApproved() bool {
	return r.Status == ReturnStatusApproved
}

// IsCompleted returns true once the request is settled
func (r *ReturnExchange) IsCompleted() bool {
	return r.Status == ReturnStatusCompleted
}

// IsRejected returns true when the request was declined
func (r *ReturnExchange) IsRejected() bool {
	return r.Status == ReturnStatusRejected
}
