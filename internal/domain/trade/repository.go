package trade

import (
	"context"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository reads finished sales for return validation
type SaleRepository interface {
	// FindByIDForBusiness loads a sale with its items
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Sale, error)

	// FindByIDForBusinessLocked loads a sale while holding a row lock for
	// the enclosing transaction. Return submissions read the sale through
	// this so concurrent claims against the same sale serialize and cannot
	// jointly exceed a sold line.
	FindByIDForBusinessLocked(ctx context.Context, businessID, id uuid.UUID) (*Sale, error)

	// FindByNumber loads a sale by its human-readable number
	FindByNumber(ctx context.Context, businessID uuid.UUID, saleNumber string) (*Sale, error)

	// Save persists a sale with its items
	Save(ctx context.Context, sale *Sale) error
}

// ReturnExchangeRepository persists return/exchange workflow records
type ReturnExchangeRepository interface {
	// Save creates or updates a return
	Save(ctx context.Context, r *ReturnExchange) error

	// SaveWithLock updates a return guarded by its optimistic version.
	// Returns a CONCURRENT_MODIFICATION domain error when the stored
	// version no longer matches.
	SaveWithLock(ctx context.Context, r *ReturnExchange) error

	// FindByIDForBusiness loads a return by ID within a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*ReturnExchange, error)

	// FindBySale lists all returns raised against a sale
	FindBySale(ctx context.Context, businessID, saleID uuid.UUID) ([]ReturnExchange, error)

	// SumReturnedQuantityBySaleLine sums, per sale line key, the
	// quantities claimed by non-rejected returns of the given sale.
	// Used to stop successive requests from over-claiming a line.
	SumReturnedQuantityBySaleLine(ctx context.Context, businessID, saleID uuid.UUID) (map[string]int64, error)

	// FindAllForBusiness lists returns honoring the status, return_type
	// and original_sale_id filter keys
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]ReturnExchange, error)

	// CountForBusiness counts returns under the same filters
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateReturnNumber produces the next RET-YYYY-NNNNN identifier
	GenerateReturnNumber(ctx context.Context, businessID uuid.UUID) (string, error)
}
