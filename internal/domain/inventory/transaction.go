package inventory

import (
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// TransactionType classifies a stock movement
type TransactionType string

const (
	// TransactionTypeIn increases stock (purchase receipt, return restock)
	TransactionTypeIn TransactionType = "IN"
	// TransactionTypeOut decreases stock (sale, exchange dispatch)
	TransactionTypeOut TransactionType = "OUT"
	// TransactionTypeAdjustment carries a signed correction delta
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReferenceType identifies the kind of record a transaction originates from.
// It is a closed set so every consumer can switch exhaustively instead of
// comparing free-form strings.
type ReferenceType string

const (
	ReferenceTypeSale             ReferenceType = "SALE"
	ReferenceTypePurchase         ReferenceType = "PURCHASE"
	ReferenceTypeReturn           ReferenceType = "RETURN"
	ReferenceTypeExchange         ReferenceType = "EXCHANGE"
	ReferenceTypeManualAdjustment ReferenceType = "MANUAL_ADJUSTMENT"
)

// IsValid checks if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypeSale, ReferenceTypePurchase, ReferenceTypeReturn,
		ReferenceTypeExchange, ReferenceTypeManualAdjustment:
		return true
	}
	return false
}

// AdjustmentReason is the mandatory reason code on manual stock corrections
type AdjustmentReason string

const (
	AdjustmentReasonCountCorrection  AdjustmentReason = "COUNT_CORRECTION"
	AdjustmentReasonDamaged          AdjustmentReason = "DAMAGED"
	AdjustmentReasonExpired          AdjustmentReason = "EXPIRED"
	AdjustmentReasonTheftLoss        AdjustmentReason = "THEFT_LOSS"
	AdjustmentReasonFound            AdjustmentReason = "FOUND"
	AdjustmentReasonSupplierReturn   AdjustmentReason = "SUPPLIER_RETURN"
	AdjustmentReasonQualityRejection AdjustmentReason = "QUALITY_REJECTION"
	AdjustmentReasonTransfer         AdjustmentReason = "TRANSFER"
	AdjustmentReasonOther            AdjustmentReason = "OTHER"
)

// IsValid checks if the adjustment reason is valid
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case AdjustmentReasonCountCorrection, AdjustmentReasonDamaged,
		AdjustmentReasonExpired, AdjustmentReasonTheftLoss,
		AdjustmentReasonFound, AdjustmentReasonSupplierReturn,
		AdjustmentReasonQualityRejection, AdjustmentReasonTransfer,
		AdjustmentReasonOther:
		return true
	}
	return false
}

// InventoryTransaction is one immutable entry in the stock movement ledger.
// Entries are created once and never updated or deleted; corrections are
// made by appending an offsetting ADJUSTMENT entry so the full audit
// history is preserved.
//
// Quantity semantics: for IN and OUT the quantity is an unsigned magnitude
// and the direction is encoded by the type. For ADJUSTMENT the quantity is
// the signed stock delta itself.
type InventoryTransaction struct {
	shared.BaseEntity
	BusinessID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_inv_tx_business_time,priority:1"`
	ProductID        uuid.UUID          `gorm:"type:uuid;not null;index:idx_inv_tx_product"`
	TransactionType  TransactionType    `gorm:"type:varchar(20);not null;index:idx_inv_tx_type"`
	Quantity         int64              `gorm:"not null"`
	ReferenceID      *uuid.UUID         `gorm:"type:uuid;index:idx_inv_tx_reference"`
	ReferenceType    *ReferenceType     `gorm:"type:varchar(30)"`
	AdjustmentReason *AdjustmentReason  `gorm:"type:varchar(30)"`
	UnitCost         *valueobject.Money `gorm:"type:decimal(18,4)"`
	Notes            string             `gorm:"type:text"`
	RecordedBy       *uuid.UUID         `gorm:"type:uuid"`
	RecordedAt       time.Time          `gorm:"not null;index:idx_inv_tx_business_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new immutable ledger entry
func NewInventoryTransaction(
	businessID, productID uuid.UUID,
	transactionType TransactionType,
	quantity int64,
) (*InventoryTransaction, error) {
	if !transactionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type: "+string(transactionType))
	}

	switch transactionType {
	case TransactionTypeIn, TransactionTypeOut:
		if quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive for IN/OUT transactions")
		}
	case TransactionTypeAdjustment:
		if quantity == 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
		}
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		BusinessID:      businessID,
		ProductID:       productID,
		TransactionType: transactionType,
		Quantity:        quantity,
		RecordedAt:      time.Now(),
	}, nil
}

// WithReference attaches the originating record
func (t *InventoryTransaction) WithReference(referenceType ReferenceType, referenceID uuid.UUID) *InventoryTransaction {
	t.ReferenceType = &referenceType
	t.ReferenceID = &referenceID
	return t
}

// WithAdjustmentReason attaches the reason code of a manual correction
func (t *InventoryTransaction) WithAdjustmentReason(reason AdjustmentReason) *InventoryTransaction {
	t.AdjustmentReason = &reason
	return t
}

// WithUnitCost attaches the unit cost of the movement
func (t *InventoryTransaction) WithUnitCost(unitCost valueobject.Money) *InventoryTransaction {
	t.UnitCost = &unitCost
	return t
}

// WithNotes attaches free-text notes
func (t *InventoryTransaction) WithNotes(notes string) *InventoryTransaction {
	t.Notes = notes
	return t
}

// WithActor records who created the entry
func (t *InventoryTransaction) WithActor(userID uuid.UUID) *InventoryTransaction {
	t.RecordedBy = &userID
	return t
}

// SignedQuantity returns the stock delta this entry contributes to the
// projection: +quantity for IN, -quantity for OUT, the stored signed value
// for ADJUSTMENT.
func (t *InventoryTransaction) SignedQuantity() int64 {
	switch t.TransactionType {
	case TransactionTypeIn:
		return t.Quantity
	case TransactionTypeOut:
		return -t.Quantity
	case TransactionTypeAdjustment:
		return t.Quantity
	}
	return 0
}

// HasReference returns true when the entry points at an originating record
func (t *InventoryTransaction) HasReference() bool {
	return t.ReferenceID != nil && t.ReferenceType != nil
}

// Validate re-checks the entry's invariants before persistence
func (t *InventoryTransaction) Validate() error {
	if !t.TransactionType.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type: "+string(t.TransactionType))
	}
	switch t.TransactionType {
	case TransactionTypeIn, TransactionTypeOut:
		if t.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive for IN/OUT transactions")
		}
	case TransactionTypeAdjustment:
		if t.Quantity == 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
		}
	}
	if t.ReferenceID != nil && t.ReferenceType == nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference ID and reference type must be set together")
	}
	// Manual adjustments originate from no other record, so the type may
	// stand alone. Every other reference type points at one.
	if t.ReferenceID == nil && t.ReferenceType != nil && *t.ReferenceType != ReferenceTypeManualAdjustment {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference ID is required for reference type "+string(*t.ReferenceType))
	}
	if t.ReferenceType != nil && !t.ReferenceType.IsValid() {
		return shared.NewDomainError("INVALID_REFERENCE", "Unknown reference type: "+string(*t.ReferenceType))
	}
	if t.AdjustmentReason != nil {
		if t.TransactionType != TransactionTypeAdjustment {
			return shared.NewDomainError("INVALID_REASON", "Adjustment reason is only valid on adjustment transactions")
		}
		if !t.AdjustmentReason.IsValid() {
			return shared.NewDomainError("INVALID_REASON", "Unknown adjustment reason: "+string(*t.AdjustmentReason))
		}
	}
	if t.UnitCost != nil && t.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	return nil
}

// TransactionBuilder assembles a ledger entry step by step
type TransactionBuilder struct {
	businessID      uuid.UUID
	productID       uuid.UUID
	transactionType TransactionType
	quantity        int64
	referenceID      *uuid.UUID
	referenceType    *ReferenceType
	adjustmentReason *AdjustmentReason
	unitCost         *valueobject.Money
	notes           string
	recordedBy      *uuid.UUID
}

// NewTransactionBuilder creates a builder for the given movement
func NewTransactionBuilder(businessID, productID uuid.UUID, transactionType TransactionType, quantity int64) *TransactionBuilder {
	return &TransactionBuilder{
		businessID:      businessID,
		productID:       productID,
		transactionType: transactionType,
		quantity:        quantity,
	}
}

// WithReference sets the originating record
func (b *TransactionBuilder) WithReference(referenceType ReferenceType, referenceID uuid.UUID) *TransactionBuilder {
	b.referenceType = &referenceType
	b.referenceID = &referenceID
	return b
}

// WithReferenceType sets the originating kind without a record id. Only
// MANUAL_ADJUSTMENT survives validation without one.
func (b *TransactionBuilder) WithReferenceType(referenceType ReferenceType) *TransactionBuilder {
	b.referenceType = &referenceType
	return b
}

// WithAdjustmentReason sets the manual correction reason code
func (b *TransactionBuilder) WithAdjustmentReason(reason AdjustmentReason) *TransactionBuilder {
	b.adjustmentReason = &reason
	return b
}

// WithUnitCost sets the unit cost
func (b *TransactionBuilder) WithUnitCost(unitCost valueobject.Money) *TransactionBuilder {
	b.unitCost = &unitCost
	return b
}

// WithNotes sets free-text notes
func (b *TransactionBuilder) WithNotes(notes string) *TransactionBuilder {
	b.notes = notes
	return b
}

// WithActor sets the recording user
func (b *TransactionBuilder) WithActor(userID uuid.UUID) *TransactionBuilder {
	b.recordedBy = &userID
	return b
}

// Build validates and creates the transaction
func (b *TransactionBuilder) Build() (*InventoryTransaction, error) {
	tx, err := NewInventoryTransaction(b.businessID, b.productID, b.transactionType, b.quantity)
	if err != nil {
		return nil, err
	}
	tx.ReferenceID = b.referenceID
	tx.ReferenceType = b.referenceType
	tx.AdjustmentReason = b.adjustmentReason
	tx.UnitCost = b.unitCost
	tx.Notes = b.notes
	tx.RecordedBy = b.recordedBy
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}
