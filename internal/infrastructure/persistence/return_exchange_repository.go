package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReturnExchangeRepository implements trade.ReturnExchangeRepository
// using GORM
type GormReturnExchangeRepository struct {
	db *gorm.DB
}

// NewGormReturnExchangeRepository creates a new GormReturnExchangeRepository
func NewGormReturnExchangeRepository(db *gorm.DB) *GormReturnExchangeRepository {
	return &GormReturnExchangeRepository{db: db}
}

// Save creates or updates a return
func (r *GormReturnExchangeRepository) Save(ctx context.Context, ret *trade.ReturnExchange) error {
	return r.db.WithContext(ctx).Save(ret).Error
}

// SaveWithLock updates a return guarded by its optimistic version. The
// aggregate increments its version before the write, so the row must still
// hold the previous one.
func (r *GormReturnExchangeRepository) SaveWithLock(ctx context.Context, ret *trade.ReturnExchange) error {
	result := r.db.WithContext(ctx).
		Model(ret).
		Where("id = ? AND version = ?", ret.ID, ret.Version-1).
		Updates(map[string]interface{}{
			"status":              ret.Status,
			"refund_amount":       ret.RefundAmount,
			"exchange_difference": ret.ExchangeDifference,
			"decision_note":       ret.DecisionNote,
			"processed_by":        ret.ProcessedBy,
			"processed_at":        ret.ProcessedAt,
			"version":             ret.Version,
			"updated_at":          ret.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "Return was modified by another process")
	}
	return nil
}

// FindByIDForBusiness loads a return by ID within a business
func (r *GormReturnExchangeRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*trade.ReturnExchange, error) {
	var ret trade.ReturnExchange
	if err := r.db.WithContext(ctx).
		First(&ret, "business_id = ? AND id = ?", businessID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// FindBySale lists all returns raised against a sale
func (r *GormReturnExchangeRepository) FindBySale(ctx context.Context, businessID, saleID uuid.UUID) ([]trade.ReturnExchange, error) {
	var returns []trade.ReturnExchange
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND original_sale_id = ?", businessID, saleID).
		Order("created_at DESC").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// SumReturnedQuantityBySaleLine sums, per sale line key, the quantities
// claimed by non-rejected returns of the given sale. The returned items
// live in a JSONB column, so the aggregation happens here rather than in
// SQL.
func (r *GormReturnExchangeRepository) SumReturnedQuantityBySaleLine(ctx context.Context, businessID, saleID uuid.UUID) (map[string]int64, error) {
	var returns []trade.ReturnExchange
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND original_sale_id = ? AND status <> ?",
			businessID, saleID, trade.ReturnStatusRejected).
		Find(&returns).Error; err != nil {
		return nil, err
	}

	claimed := make(map[string]int64)
	for _, ret := range returns {
		for _, item := range ret.ReturnedItems {
			claimed[item.LineKey()] += item.Quantity
		}
	}
	return claimed, nil
}

// FindAllForBusiness lists returns honoring the status, return_type and
// original_sale_id filter keys
func (r *GormReturnExchangeRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]trade.ReturnExchange, error) {
	var returns []trade.ReturnExchange
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.ReturnExchange{}).
			Where("business_id = ?", businessID),
		filter,
	)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// CountForBusiness counts returns under the same filters
func (r *GormReturnExchangeRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&trade.ReturnExchange{}).
			Where("business_id = ?", businessID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReturnNumber produces the next RET-YYYY-NNNNN identifier for a
// business, restarting the sequence each year.
func (r *GormReturnExchangeRepository) GenerateReturnNumber(ctx context.Context, businessID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RET-%d-", year)

	var last trade.ReturnExchange
	err := r.db.WithContext(ctx).
		Model(&trade.ReturnExchange{}).
		Where("business_id = ? AND return_number LIKE ?", businessID, prefix+"%").
		Order("return_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnNumber != "" {
		parts := strings.Split(last.ReturnNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Walk forward past any number taken by a concurrent writer
	for i := 0; i < 100; i++ {
		exists, err := r.existsByNumber(ctx, businessID, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
		nextNum++
		number = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return "", fmt.Errorf("could not generate a unique return number after 100 attempts")
}

func (r *GormReturnExchangeRepository) existsByNumber(ctx context.Context, businessID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.ReturnExchange{}).
		Where("business_id = ? AND return_number = ?", businessID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormReturnExchangeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormReturnExchangeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "return_type":
			query = query.Where("return_type = ?", value)
		case "original_sale_id":
			query = query.Where("original_sale_id = ?", value)
		}
	}

	return query
}

var _ trade.ReturnExchangeRepository = (*GormReturnExchangeRepository)(nil)
