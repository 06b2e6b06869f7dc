package alert

import (
	"context"

	appinventory "github.com/Rajak13/Vyapar-sub001/internal/application/inventory"
	"go.uber.org/zap"
)

// LoggingAlertDispatcher writes stock alerts to the structured log. Shops
// without a notification channel configured still get an operator-visible
// trace of every threshold crossing.
type LoggingAlertDispatcher struct {
	logger *zap.Logger
}

// NewLoggingAlertDispatcher creates a new logging dispatcher
func NewLoggingAlertDispatcher(logger *zap.Logger) *LoggingAlertDispatcher {
	return &LoggingAlertDispatcher{logger: logger.Named("stock-alerts")}
}

// Dispatch logs the alert at warn level
func (d *LoggingAlertDispatcher) Dispatch(_ context.Context, alert appinventory.StockAlert) error {
	d.logger.Warn("low stock alert",
		zap.String("business_id", alert.BusinessID.String()),
		zap.String("product_id", alert.ProductID.String()),
		zap.String("sku", alert.SKU),
		zap.String("product_name", alert.ProductName),
		zap.Int64("current_stock", alert.CurrentStock),
		zap.Int64("min_stock_level", alert.MinStockLevel),
		zap.String("severity", string(alert.Severity)),
	)
	return nil
}

var _ appinventory.AlertDispatcher = (*LoggingAlertDispatcher)(nil)
