package trade

import (
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleStatus represents the status of a completed sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusVoided    SaleStatus = "voided"
)

// Sale is the read model for a finished point-of-sale transaction. Returns
// and exchanges are validated against its line items. The POS front end
// owns sale creation; this module only reads them.
type Sale struct {
	shared.BusinessAggregateRoot
	SaleNumber  string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_business_number,priority:2"`
	CustomerID  *uuid.UUID        `gorm:"type:uuid;index"`
	TotalAmount valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	Status      SaleStatus        `gorm:"type:varchar(20);not null;default:'completed'"`
	Items       []SaleItem        `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductName string            `gorm:"type:varchar(200);not null"`
	VariantName string            `gorm:"type:varchar(100)"`
	Quantity    int64             `gorm:"not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(18,4);not null"`
	LineTotal   valueobject.Money `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// FindItem locates a sale line by product and variant
func (s *Sale) FindItem(productID uuid.UUID, variantName string) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID && s.Items[i].VariantName == variantName {
			return &s.Items[i]
		}
	}
	return nil
}

// IsVoided returns true when the sale was voided
func (s *Sale) IsVoided() bool {
	return s.Status == SaleStatusVoided
}
