package trade

import (
	"context"
	"fmt"

	appinventory "github.com/Rajak13/Vyapar-sub001/internal/application/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReturnService drives the return/exchange workflow. Submissions and
// decisions touch only the workflow record; completion is the single
// operation that also appends ledger transactions, and it does so in one
// database transaction with the status change.
type ReturnService struct {
	scope    appinventory.TransactionScope
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewReturnService creates a new return service
func NewReturnService(scope appinventory.TransactionScope, eventBus shared.EventPublisher, logger *zap.Logger) *ReturnService {
	return &ReturnService{
		scope:    scope,
		eventBus: eventBus,
		logger:   logger,
	}
}

// SubmitReturn validates a request against the original sale and creates
// the workflow record in PENDING state. The sale row is read under a lock
// and quantities already claimed by earlier non-rejected returns are
// counted inside the same transaction, so two concurrent submissions
// cannot jointly exceed a sold line.
func (s *ReturnService) SubmitReturn(ctx context.Context, businessID uuid.UUID, req SubmitReturnRequest) (*trade.ReturnExchange, error) {
	var result *trade.ReturnExchange
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForBusinessLocked(ctx, businessID, req.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Original sale not found")
		}

		previouslyReturned, err := repos.Returns().SumReturnedQuantityBySaleLine(ctx, businessID, sale.ID)
		if err != nil {
			return err
		}

		returnedItems, err := buildReturnedItems(sale, req.ReturnedItems)
		if err != nil {
			return err
		}

		exchangeItems, err := s.buildExchangeItems(ctx, repos, businessID, req.ExchangeItems)
		if err != nil {
			return err
		}

		returnExchange, err := trade.NewReturnExchange(
			businessID, sale, req.ReturnType, req.Reason, req.ReasonNote,
			returnedItems, exchangeItems, previouslyReturned)
		if err != nil {
			return err
		}
		if req.ActorID != nil {
			returnExchange.SetCreatedBy(*req.ActorID)
		}

		number, err := repos.Returns().GenerateReturnNumber(ctx, businessID)
		if err != nil {
			return err
		}
		returnExchange.ReturnNumber = number

		if err := repos.Returns().Save(ctx, returnExchange); err != nil {
			return err
		}

		result = returnExchange
		events = returnExchange.GetDomainEvents()
		returnExchange.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	s.logger.Info("return submitted",
		zap.String("business_id", businessID.String()),
		zap.String("return_number", result.ReturnNumber),
		zap.String("return_type", string(result.ReturnType)))

	return result, nil
}

// DecideReturn approves or rejects a pending request. The write is guarded
// by the aggregate's optimistic version, so two racing decisions cannot
// both land.
func (s *ReturnService) DecideReturn(ctx context.Context, businessID, returnID uuid.UUID, req DecideReturnRequest) (*trade.ReturnExchange, error) {
	var result *trade.ReturnExchange
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		returnExchange, err := repos.Returns().FindByIDForBusiness(ctx, businessID, returnID)
		if err != nil {
			return err
		}
		if returnExchange == nil {
			return shared.NewDomainError("NOT_FOUND", "Return not found")
		}

		if req.Approve {
			err = returnExchange.Approve(req.ActorID, req.Note)
		} else {
			err = returnExchange.Reject(req.ActorID, req.Reason)
		}
		if err != nil {
			return err
		}

		if err := repos.Returns().SaveWithLock(ctx, returnExchange); err != nil {
			return err
		}

		result = returnExchange
		events = returnExchange.GetDomainEvents()
		returnExchange.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	return result, nil
}

// CompleteReturn settles an approved request: the status moves to
// COMPLETED, one IN ledger entry is appended per returned item, one OUT
// entry per exchange item, and every touched product's stock cache is
// reprojected, all inside a single database transaction. A crash or
// conflict rolls back all of it.
func (s *ReturnService) CompleteReturn(ctx context.Context, businessID, returnID, actorID uuid.UUID) (*CompletionResult, error) {
	result := &CompletionResult{}
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		returnExchange, err := repos.Returns().FindByIDForBusiness(ctx, businessID, returnID)
		if err != nil {
			return err
		}
		if returnExchange == nil {
			return shared.NewDomainError("NOT_FOUND", "Return not found")
		}

		if err := returnExchange.Complete(actorID); err != nil {
			return err
		}

		txs, err := returnExchange.BuildCompletionTransactions()
		if err != nil {
			return err
		}

		if err := repos.Returns().SaveWithLock(ctx, returnExchange); err != nil {
			return err
		}
		if err := repos.Transactions().AppendBatch(ctx, txs); err != nil {
			return err
		}

		touched := make(map[uuid.UUID]struct{}, len(txs))
		for _, tx := range txs {
			touched[tx.ProductID] = struct{}{}
		}
		for productID := range touched {
			product, err := repos.Products().FindByIDForBusiness(ctx, businessID, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Product %s referenced by the return no longer exists", productID))
			}

			projected, err := repos.Transactions().SumSignedQuantity(ctx, businessID, productID)
			if err != nil {
				return err
			}
			product.ApplyProjectedStock(projected)
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}

			if projected < 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("projected stock for product %s is negative (%d)", product.SKU, projected))
				events = append(events, inventory.NewNegativeStockWarningEvent(businessID, productID, returnExchange.ID, projected))
			}
		}

		result.ReturnExchange = returnExchange
		result.Transactions = txs
		events = append(events, returnExchange.GetDomainEvents()...)
		returnExchange.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	s.logger.Info("return completed",
		zap.String("business_id", businessID.String()),
		zap.String("return_number", result.ReturnExchange.ReturnNumber),
		zap.Int("ledger_transactions", len(result.Transactions)))

	return result, nil
}

// GetReturn loads one return by ID
func (s *ReturnService) GetReturn(ctx context.Context, businessID, returnID uuid.UUID) (*trade.ReturnExchange, error) {
	var result *trade.ReturnExchange
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		returnExchange, err := repos.Returns().FindByIDForBusiness(ctx, businessID, returnID)
		if err != nil {
			return err
		}
		if returnExchange == nil {
			return shared.NewDomainError("NOT_FOUND", "Return not found")
		}
		result = returnExchange
		return nil
	})
	return result, err
}

// ListReturns returns a filtered page of workflow records
func (s *ReturnService) ListReturns(ctx context.Context, businessID uuid.UUID, query ListReturnsQuery) (*shared.Paginated[trade.ReturnExchange], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.Status != nil {
		filter.Filters["status"] = string(*query.Status)
	}
	if query.ReturnType != nil {
		filter.Filters["return_type"] = string(*query.ReturnType)
	}
	if query.SaleID != nil {
		filter.Filters["original_sale_id"] = *query.SaleID
	}

	var items []trade.ReturnExchange
	var total int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		items, err = repos.Returns().FindAllForBusiness(ctx, businessID, filter)
		if err != nil {
			return err
		}
		total, err = repos.Returns().CountForBusiness(ctx, businessID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func buildReturnedItems(sale *trade.Sale, requests []ReturnedItemRequest) ([]trade.ReturnItem, error) {
	items := make([]trade.ReturnItem, 0, len(requests))
	for _, r := range requests {
		line := sale.FindItem(r.ProductID, r.VariantName)
		if line == nil {
			return nil, shared.NewDomainError("ITEM_NOT_IN_SALE",
				fmt.Sprintf("Product %s was not part of the original sale", r.ProductID))
		}
		item, err := trade.NewReturnItem(line.ProductID, line.ProductName, line.VariantName, r.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *ReturnService) buildExchangeItems(ctx context.Context, repos appinventory.TransactionalRepositories, businessID uuid.UUID, requests []ExchangeItemRequest) ([]trade.ReturnItem, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	items := make([]trade.ReturnItem, 0, len(requests))
	for _, r := range requests {
		product, err := repos.Products().FindByIDForBusiness(ctx, businessID, r.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Exchange product %s not found", r.ProductID))
		}
		item, err := trade.NewReturnItem(product.ID, product.Name, r.VariantName, r.Quantity, product.SellingPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *ReturnService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish return events", zap.Error(err))
	}
}
