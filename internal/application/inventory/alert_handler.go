package inventory

import (
	"context"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockAlert is the payload handed to notification collaborators
type StockAlert struct {
	BusinessID    uuid.UUID            `json:"business_id"`
	ProductID     uuid.UUID            `json:"product_id"`
	ProductName   string               `json:"product_name"`
	SKU           string               `json:"sku"`
	CurrentStock  int64                `json:"current_stock"`
	MinStockLevel int64                `json:"min_stock_level"`
	Severity      inventory.StockLevel `json:"severity"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// AlertDispatcher delivers stock alerts. Implementations own retries and
// delivery outcome logging; the core only classifies and hands over.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert StockAlert) error
}

// AlertLimiter throttles alert batches per business so repeated threshold
// crossings do not turn into notification storms
type AlertLimiter interface {
	// Allow reports whether a new alert batch may fire for the business.
	// A false result means the minimum interval has not yet elapsed.
	Allow(ctx context.Context, businessID uuid.UUID) (bool, error)
}

// StockAlertHandler subscribes to threshold events and forwards them to
// the dispatcher, rate-limited per business
type StockAlertHandler struct {
	dispatcher AlertDispatcher
	limiter    AlertLimiter
	logger     *zap.Logger
}

// NewStockAlertHandler creates a new stock alert handler
func NewStockAlertHandler(dispatcher AlertDispatcher, limiter AlertLimiter, logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{
		dispatcher: dispatcher,
		limiter:    limiter,
		logger:     logger,
	}
}

// EventTypes returns the subscribed event types
func (h *StockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle forwards one threshold event to the dispatcher. Limiter errors
// fail open: a broken limiter should never suppress a stock alert.
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	allowed, err := h.limiter.Allow(ctx, thresholdEvent.BusinessID())
	if err != nil {
		h.logger.Warn("alert limiter unavailable, dispatching anyway", zap.Error(err))
		allowed = true
	}
	if !allowed {
		h.logger.Debug("stock alert suppressed by rate limit",
			zap.String("business_id", thresholdEvent.BusinessID().String()),
			zap.String("sku", thresholdEvent.SKU))
		return nil
	}

	alert := StockAlert{
		BusinessID:    thresholdEvent.BusinessID(),
		ProductID:     thresholdEvent.ProductID,
		ProductName:   thresholdEvent.ProductName,
		SKU:           thresholdEvent.SKU,
		CurrentStock:  thresholdEvent.CurrentStock,
		MinStockLevel: thresholdEvent.MinStockLevel,
		Severity:      thresholdEvent.Severity,
		OccurredAt:    thresholdEvent.OccurredAt(),
	}

	if err := h.dispatcher.Dispatch(ctx, alert); err != nil {
		h.logger.Error("failed to dispatch stock alert",
			zap.String("sku", alert.SKU),
			zap.Error(err))
		return err
	}

	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
