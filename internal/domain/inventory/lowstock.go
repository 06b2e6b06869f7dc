package inventory

import (
	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
)

// StockLevel is the severity tier of a product's projected stock
type StockLevel string

const (
	StockLevelOK       StockLevel = "ok"
	StockLevelLow      StockLevel = "low"
	StockLevelCritical StockLevel = "critical"
)

// Thresholds configures stock classification. DefaultLow is used for
// products that have no reorder level of their own. Critical is expected to
// sit below the low threshold, but this is a convention rather than an
// enforced rule.
type Thresholds struct {
	DefaultLow int64
	Critical   int64
}

// ClassifyStock classifies a single stock figure. Precedence: the critical
// band wins at the boundary, then the product's reorder level, then ok.
func ClassifyStock(currentStock, minStockLevel, criticalThreshold int64) StockLevel {
	if currentStock <= criticalThreshold {
		return StockLevelCritical
	}
	if currentStock <= minStockLevel {
		return StockLevelLow
	}
	return StockLevelOK
}

// Classification is the alert set produced by ClassifyProducts
type Classification struct {
	Critical []catalog.Product
	Low      []catalog.Product
}

// ClassifyProducts partitions products into critical and low alert sets
// using their cached stock projection. Products classified ok are excluded.
// The function is pure: it never mutates its inputs and carries no state
// between calls.
func ClassifyProducts(products []catalog.Product, thresholds Thresholds) Classification {
	result := Classification{
		Critical: make([]catalog.Product, 0),
		Low:      make([]catalog.Product, 0),
	}

	for _, p := range products {
		minLevel := p.MinStockLevel
		if minLevel == 0 {
			minLevel = thresholds.DefaultLow
		}
		switch ClassifyStock(p.CurrentStock, minLevel, thresholds.Critical) {
		case StockLevelCritical:
			result.Critical = append(result.Critical, p)
		case StockLevelLow:
			result.Low = append(result.Low, p)
		}
	}

	return result
}
