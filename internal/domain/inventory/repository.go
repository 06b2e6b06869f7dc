package inventory

import (
	"context"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionRepository persists the append-only stock movement ledger.
// The interface deliberately has no update or delete methods: entries are
// immutable once written.
type TransactionRepository interface {
	// Append writes a new ledger entry
	Append(ctx context.Context, tx *InventoryTransaction) error

	// AppendBatch writes multiple ledger entries in one call
	AppendBatch(ctx context.Context, txs []*InventoryTransaction) error

	// FindByID finds a ledger entry by ID within a business
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*InventoryTransaction, error)

	// FindByProduct lists a product's ledger entries, newest first,
	// honoring filter pagination and the transaction_type, reference_type,
	// date_from and date_to filter keys
	FindByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)

	// CountByProduct counts a product's ledger entries under the same filters
	CountByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) (int64, error)

	// FindByReference lists entries produced by a specific originating record
	FindByReference(ctx context.Context, businessID uuid.UUID, referenceType ReferenceType, referenceID uuid.UUID) ([]InventoryTransaction, error)

	// SumSignedQuantity projects a product's current stock as the signed
	// sum of all its ledger entries
	SumSignedQuantity(ctx context.Context, businessID, productID uuid.UUID) (int64, error)

	// SumSignedQuantitySince projects the stock delta accumulated after a
	// point in time, used for checkpoint verification
	SumSignedQuantitySince(ctx context.Context, businessID, productID uuid.UUID, since time.Time) (int64, error)
}
