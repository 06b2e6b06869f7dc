package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService owns all writes to the stock movement ledger. Every append
// refreshes the product's cached stock projection inside the same database
// transaction, so readers never observe a ledger entry without the matching
// cache value or vice versa.
type LedgerService struct {
	scope      TransactionScope
	eventBus   shared.EventPublisher
	thresholds inventory.Thresholds
	logger     *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	scope TransactionScope,
	eventBus shared.EventPublisher,
	thresholds inventory.Thresholds,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		scope:      scope,
		eventBus:   eventBus,
		thresholds: thresholds,
		logger:     logger,
	}
}

// RecordTransaction appends one movement to the ledger and synchronously
// refreshes the product's cached stock. A projection that goes negative is
// reported as a warning, never as a failure; blocking oversells is left to
// callers.
func (s *LedgerService) RecordTransaction(ctx context.Context, businessID uuid.UUID, req RecordTransactionRequest) (*TransactionResult, error) {
	builder := inventory.NewTransactionBuilder(businessID, req.ProductID, req.TransactionType, req.Quantity)
	if req.ReferenceType != nil && req.ReferenceID != nil {
		builder.WithReference(*req.ReferenceType, *req.ReferenceID)
	} else if req.ReferenceType != nil {
		builder.WithReferenceType(*req.ReferenceType)
	}
	if req.Reason != nil {
		builder.WithAdjustmentReason(*req.Reason)
	}
	if req.UnitCost != nil {
		cost, err := valueobject.NewMoneyNPRFromString(*req.UnitCost)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost must be a decimal number")
		}
		builder.WithUnitCost(cost)
	}
	if req.Notes != "" {
		builder.WithNotes(req.Notes)
	}
	if req.ActorID != nil {
		builder.WithActor(*req.ActorID)
	}

	tx, err := builder.Build()
	if err != nil {
		return nil, err
	}

	result := &TransactionResult{Transaction: tx}
	var events []shared.DomainEvent

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForBusiness(ctx, businessID, req.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return shared.NewDomainError("NOT_FOUND", "Product not found")
		}

		if err := repos.Transactions().Append(ctx, tx); err != nil {
			return err
		}

		projected, err := repos.Transactions().SumSignedQuantity(ctx, businessID, req.ProductID)
		if err != nil {
			return err
		}

		product.ApplyProjectedStock(projected)
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}

		result.ProjectedStock = projected
		events = append(events, inventory.NewTransactionAppendedEvent(tx, projected))

		if projected < 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("projected stock for product %s is negative (%d)", product.SKU, projected))
			events = append(events, inventory.NewNegativeStockWarningEvent(businessID, product.ID, tx.ID, projected))
		}

		minLevel := product.MinStockLevel
		if minLevel == 0 {
			minLevel = s.thresholds.DefaultLow
		}
		if severity := inventory.ClassifyStock(projected, minLevel, s.thresholds.Critical); severity != inventory.StockLevelOK {
			events = append(events, inventory.NewStockBelowThresholdEvent(
				businessID, product.ID, product.Name, product.SKU, projected, minLevel, severity))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	s.logger.Info("ledger transaction recorded",
		zap.String("business_id", businessID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("type", string(req.TransactionType)),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("projected_stock", result.ProjectedStock))

	return result, nil
}

// GetProjectedStock recomputes a product's stock straight from the ledger
func (s *LedgerService) GetProjectedStock(ctx context.Context, businessID, productID uuid.UUID) (int64, error) {
	var projected int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		projected, err = repos.Transactions().SumSignedQuantity(ctx, businessID, productID)
		return err
	})
	return projected, err
}

// VerifyStock checks the cached projection against the ledger sum. Drift
// indicates the cache was written outside the ledger path and is reported,
// not repaired.
func (s *LedgerService) VerifyStock(ctx context.Context, businessID, productID uuid.UUID) (*VerificationResult, error) {
	result := &VerificationResult{ProductID: productID, CheckedAt: time.Now()}

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForBusiness(ctx, businessID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return shared.NewDomainError("NOT_FOUND", "Product not found")
		}

		projected, err := repos.Transactions().SumSignedQuantity(ctx, businessID, productID)
		if err != nil {
			return err
		}

		result.CachedStock = product.CurrentStock
		result.ProjectedStock = projected
		result.Consistent = product.CurrentStock == projected
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Consistent {
		s.logger.Warn("stock cache drifted from ledger projection",
			zap.String("business_id", businessID.String()),
			zap.String("product_id", productID.String()),
			zap.Int64("cached", result.CachedStock),
			zap.Int64("projected", result.ProjectedStock))
	}

	return result, nil
}

// ListTransactions returns a page of a product's ledger history
func (s *LedgerService) ListTransactions(ctx context.Context, businessID uuid.UUID, query ListTransactionsQuery) (*shared.Paginated[inventory.InventoryTransaction], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.OrderBy = "recorded_at"
	if query.TransactionType != nil {
		filter.Filters["transaction_type"] = string(*query.TransactionType)
	}
	if query.ReferenceType != nil {
		filter.Filters["reference_type"] = string(*query.ReferenceType)
	}
	if query.DateFrom != nil {
		filter.Filters["date_from"] = *query.DateFrom
	}
	if query.DateTo != nil {
		filter.Filters["date_to"] = *query.DateTo
	}

	var items []inventory.InventoryTransaction
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.Transactions().FindByProduct(ctx, businessID, query.ProductID, filter)
		if err != nil {
			return err
		}
		total, err = repos.Transactions().CountByProduct(ctx, businessID, query.ProductID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish ledger events", zap.Error(err))
	}
}
