package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements inventory.TransactionRepository using
// GORM. Ledger entries are append-only so there are no update or delete
// paths here.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Append writes a new ledger entry
func (r *GormTransactionRepository) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// AppendBatch writes multiple ledger entries in one call
func (r *GormTransactionRepository) AppendBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

// FindByID finds a ledger entry by ID within a business
func (r *GormTransactionRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		First(&tx, "business_id = ? AND id = ?", businessID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// FindByProduct lists a product's ledger entries, newest first
func (r *GormTransactionRepository) FindByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
			Where("business_id = ? AND product_id = ?", businessID, productID),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CountByProduct counts a product's ledger entries under the same filters
func (r *GormTransactionRepository) CountByProduct(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
			Where("business_id = ? AND product_id = ?", businessID, productID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByReference lists entries produced by a specific originating record
func (r *GormTransactionRepository) FindByReference(ctx context.Context, businessID uuid.UUID, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?", businessID, referenceType, referenceID).
		Order("recorded_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SumSignedQuantity projects a product's current stock as the signed sum of
// all its ledger entries. OUT rows count negative, IN and ADJUSTMENT rows
// keep their stored sign.
func (r *GormTransactionRepository) SumSignedQuantity(ctx context.Context, businessID, productID uuid.UUID) (int64, error) {
	return r.sumSigned(r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Where("business_id = ? AND product_id = ?", businessID, productID))
}

// SumSignedQuantitySince projects the stock delta accumulated after a point in time
func (r *GormTransactionRepository) SumSignedQuantitySince(ctx context.Context, businessID, productID uuid.UUID, since time.Time) (int64, error) {
	return r.sumSigned(r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Where("business_id = ? AND product_id = ? AND recorded_at > ?", businessID, productID, since))
}

func (r *GormTransactionRepository) sumSigned(query *gorm.DB) (int64, error) {
	var result struct {
		Total int64
	}
	if err := query.
		Select("COALESCE(SUM(CASE WHEN transaction_type = 'OUT' THEN -quantity ELSE quantity END), 0) as total").
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("recorded_at DESC")
	}

	return query
}

func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "reference_type":
			query = query.Where("reference_type = ?", value)
		case "reference_id":
			query = query.Where("reference_id = ?", value)
		case "date_from":
			query = query.Where("recorded_at >= ?", value)
		case "date_to":
			query = query.Where("recorded_at <= ?", value)
		}
	}

	return query
}

var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
