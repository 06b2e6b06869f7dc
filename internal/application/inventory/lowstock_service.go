package inventory

import (
	"context"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LowStockService evaluates products against the low and critical stock
// thresholds. Classification itself is pure and side-effect-free; alert
// delivery and rate limiting live behind the AlertDispatcher and
// AlertLimiter collaborators.
type LowStockService struct {
	products   catalog.ProductRepository
	eventBus   shared.EventPublisher
	thresholds inventory.Thresholds
	logger     *zap.Logger
}

// NewLowStockService creates a new low-stock service
func NewLowStockService(
	products catalog.ProductRepository,
	eventBus shared.EventPublisher,
	thresholds inventory.Thresholds,
	logger *zap.Logger,
) *LowStockService {
	return &LowStockService{
		products:   products,
		eventBus:   eventBus,
		thresholds: thresholds,
		logger:     logger,
	}
}

// ClassifyLowStock partitions a business's products into critical and low
// alert sets. Optional thresholds override the configured defaults for one
// evaluation. Products classified ok are excluded from the report.
func (s *LowStockService) ClassifyLowStock(ctx context.Context, businessID uuid.UUID, override *inventory.Thresholds) (*LowStockReport, error) {
	thresholds := s.thresholds
	if override != nil {
		thresholds = *override
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 0 // classification always sees the full catalog
	products, err := s.products.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	classification := inventory.ClassifyProducts(products, thresholds)

	report := &LowStockReport{
		Critical:    make([]ProductStockDTO, 0, len(classification.Critical)),
		Low:         make([]ProductStockDTO, 0, len(classification.Low)),
		GeneratedAt: time.Now(),
	}
	for _, p := range classification.Critical {
		report.Critical = append(report.Critical, toProductStockDTO(p, inventory.StockLevelCritical))
	}
	for _, p := range classification.Low {
		report.Low = append(report.Low, toProductStockDTO(p, inventory.StockLevelLow))
	}

	return report, nil
}

// CheckAndAlert classifies the catalog and publishes one threshold event
// per flagged product. The alert handler downstream applies the per
// business re-fire interval before anything reaches a dispatcher.
func (s *LowStockService) CheckAndAlert(ctx context.Context, businessID uuid.UUID) (*LowStockReport, error) {
	report, err := s.ClassifyLowStock(ctx, businessID, nil)
	if err != nil {
		return nil, err
	}

	events := make([]shared.DomainEvent, 0, len(report.Critical)+len(report.Low))
	for _, p := range report.Critical {
		events = append(events, inventory.NewStockBelowThresholdEvent(
			businessID, p.ProductID, p.Name, p.SKU, p.CurrentStock, p.MinStockLevel, inventory.StockLevelCritical))
	}
	for _, p := range report.Low {
		events = append(events, inventory.NewStockBelowThresholdEvent(
			businessID, p.ProductID, p.Name, p.SKU, p.CurrentStock, p.MinStockLevel, inventory.StockLevelLow))
	}

	if len(events) > 0 && s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish low stock events", zap.Error(err))
		}
	}

	s.logger.Debug("low stock check finished",
		zap.String("business_id", businessID.String()),
		zap.Int("critical", len(report.Critical)),
		zap.Int("low", len(report.Low)))

	return report, nil
}
