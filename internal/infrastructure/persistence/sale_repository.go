package persistence

import (
	"context"
	"errors"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByIDForBusiness loads a sale with its items
func (r *GormSaleRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "business_id = ? AND id = ?", businessID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForBusinessLocked loads a sale with its items under SELECT FOR
// UPDATE. Callers must be inside a transaction for the lock to be held.
func (r *GormSaleRepository) FindByIDForBusinessLocked(ctx context.Context, businessID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&sale, "business_id = ? AND id = ?", businessID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber loads a sale by its human-readable number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, businessID uuid.UUID, saleNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "business_id = ? AND sale_number = ?", businessID, saleNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// Save persists a sale with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
