package trade

import (
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeReturnExchange = "ReturnExchange"

// Event type constants
const (
	EventTypeReturnSubmitted = "ReturnSubmitted"
	EventTypeReturnApproved  = "ReturnApproved"
	EventTypeReturnRejected  = "ReturnRejected"
	EventTypeReturnCompleted = "ReturnCompleted"
)

// ReturnSubmittedEvent is published when a clerk submits a return request
type ReturnSubmittedEvent struct {
	shared.BaseDomainEvent
	ReturnID       uuid.UUID  `json:"return_id"`
	ReturnNumber   string     `json:"return_number"`
	OriginalSaleID uuid.UUID  `json:"original_sale_id"`
	ReturnType     ReturnType `json:"return_type"`
	ItemCount      int        `json:"item_count"`
}

// NewReturnSubmittedEvent creates a new ReturnSubmittedEvent
func NewReturnSubmittedEvent(r *ReturnExchange) *ReturnSubmittedEvent {
	return &ReturnSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnSubmitted, AggregateTypeReturnExchange, r.ID, r.BusinessID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		OriginalSaleID:  r.OriginalSaleID,
		ReturnType:      r.ReturnType,
		ItemCount:       len(r.ReturnedItems),
	}
}

// ReturnApprovedEvent is published when a pending request is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID  `json:"return_id"`
	ReturnNumber string     `json:"return_number"`
	ApprovedBy   *uuid.UUID `json:"approved_by,omitempty"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(r *ReturnExchange) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturnExchange, r.ID, r.BusinessID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		ApprovedBy:      r.ProcessedBy,
	}
}

// ReturnRejectedEvent is published when a pending request is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID  `json:"return_id"`
	ReturnNumber string     `json:"return_number"`
	RejectedBy   *uuid.UUID `json:"rejected_by,omitempty"`
	Reason       string     `json:"reason"`
}

// NewReturnRejectedEvent creates a new ReturnRejectedEvent
func NewReturnRejectedEvent(r *ReturnExchange) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeReturnExchange, r.ID, r.BusinessID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		RejectedBy:      r.ProcessedBy,
		Reason:          r.DecisionNote,
	}
}

// ReturnCompletedEvent is published after a return is settled and its
// ledger transactions are committed
type ReturnCompletedEvent struct {
	shared.BaseDomainEvent
	ReturnID           uuid.UUID  `json:"return_id"`
	ReturnNumber       string     `json:"return_number"`
	ReturnType         ReturnType `json:"return_type"`
	RefundAmount       string     `json:"refund_amount"`
	ExchangeDifference string     `json:"exchange_difference"`
	ReturnedItemCount  int        `json:"returned_item_count"`
	ExchangeItemCount  int        `json:"exchange_item_count"`
}

// NewReturnCompletedEvent creates a new ReturnCompletedEvent
func NewReturnCompletedEvent(r *ReturnExchange) *ReturnCompletedEvent {
	return &ReturnCompletedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeReturnCompleted, AggregateTypeReturnExchange, r.ID, r.BusinessID),
		ReturnID:           r.ID,
		ReturnNumber:       r.ReturnNumber,
		ReturnType:         r.ReturnType,
		RefundAmount:       r.RefundAmount.StringFixed(2),
		ExchangeDifference: r.ExchangeDifference.StringFixed(2),
		ReturnedItemCount:  len(r.ReturnedItems),
		ExchangeItemCount:  len(r.ExchangeItems),
	}
}
