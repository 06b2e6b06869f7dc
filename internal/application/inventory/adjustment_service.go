package inventory

import (
	"context"
	"fmt"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdjustmentService validates manual stock corrections and hands them to
// the ledger as signed ADJUSTMENT entries. It never writes stock itself.
type AdjustmentService struct {
	ledger *LedgerService
	scope  TransactionScope
	logger *zap.Logger
}

// NewAdjustmentService creates a new adjustment service
func NewAdjustmentService(ledger *LedgerService, scope TransactionScope, logger *zap.Logger) *AdjustmentService {
	return &AdjustmentService{
		ledger: ledger,
		scope:  scope,
		logger: logger,
	}
}

// AdjustStock appends a manual correction. The reason code is mandatory
// and must come from the fixed set; OTHER additionally requires free-text
// notes. A preview of the resulting stock is computed first: when it is
// negative the operation still succeeds and the caller receives a warning,
// matching the ledger's warning-only policy.
func (s *AdjustmentService) AdjustStock(ctx context.Context, businessID uuid.UUID, req AdjustStockRequest) (*TransactionResult, error) {
	if !req.Reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown adjustment reason: "+string(req.Reason))
	}
	if req.Reason == inventory.AdjustmentReasonOther && req.Notes == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Notes are required when the reason is OTHER")
	}
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	var preview int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForBusiness(ctx, businessID, req.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		preview = product.CurrentStock + req.Delta
		return nil
	})
	if err != nil {
		return nil, err
	}

	if preview < 0 {
		s.logger.Warn("stock adjustment drives projection negative",
			zap.String("business_id", businessID.String()),
			zap.String("product_id", req.ProductID.String()),
			zap.Int64("delta", req.Delta),
			zap.Int64("preview", preview))
	}

	reason := req.Reason
	referenceType := inventory.ReferenceTypeManualAdjustment
	result, err := s.ledger.RecordTransaction(ctx, businessID, RecordTransactionRequest{
		ProductID:       req.ProductID,
		TransactionType: inventory.TransactionTypeAdjustment,
		Quantity:        req.Delta,
		ReferenceType:   &referenceType,
		Reason:          &reason,
		Notes:           s.describe(req),
		ActorID:         req.ActorID,
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AdjustmentService) describe(req AdjustStockRequest) string {
	if req.Notes != "" {
		return fmt.Sprintf("[%s] %s", req.Reason, req.Notes)
	}
	return fmt.Sprintf("[%s]", req.Reason)
}
