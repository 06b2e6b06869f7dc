package persistence

import (
	"testing"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/shared"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			business_id TEXT NOT NULL,
			created_by TEXT,
			sku TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			barcode TEXT,
			unit TEXT NOT NULL,
			purchase_price TEXT NOT NULL DEFAULT '0',
			selling_price TEXT NOT NULL DEFAULT '0',
			current_stock INTEGER NOT NULL DEFAULT 0,
			min_stock_level INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			UNIQUE(business_id, sku)
		)`,
		`CREATE TABLE inventory_transactions (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			business_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			transaction_type TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			reference_id TEXT,
			reference_type TEXT,
			adjustment_reason TEXT,
			unit_cost TEXT,
			notes TEXT,
			recorded_by TEXT,
			recorded_at DATETIME NOT NULL
		)`,
		`CREATE TABLE sales (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			business_id TEXT NOT NULL,
			created_by TEXT,
			sale_number TEXT NOT NULL,
			customer_id TEXT,
			total_amount TEXT NOT NULL DEFAULT '0',
			status TEXT NOT NULL DEFAULT 'completed',
			UNIQUE(business_id, sale_number)
		)`,
		`CREATE TABLE sale_items (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			sale_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			variant_name TEXT,
			quantity INTEGER NOT NULL,
			unit_price TEXT NOT NULL,
			line_total TEXT NOT NULL
		)`,
		`CREATE TABLE returns_exchanges (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			business_id TEXT NOT NULL,
			created_by TEXT,
			return_number TEXT NOT NULL,
			original_sale_id TEXT NOT NULL,
			customer_id TEXT,
			return_type TEXT NOT NULL,
			reason TEXT NOT NULL,
			reason_note TEXT,
			status TEXT NOT NULL,
			returned_items TEXT NOT NULL,
			exchange_items TEXT NOT NULL,
			original_amount TEXT NOT NULL DEFAULT '0',
			refund_amount TEXT NOT NULL DEFAULT '0',
			exchange_difference TEXT NOT NULL DEFAULT '0',
			decision_note TEXT,
			processed_by TEXT,
			processed_at DATETIME,
			UNIQUE(business_id, return_number)
		)`,
	}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// newFilterWith builds a default filter carrying a single key
func newFilterWith(key string, value interface{}) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Filters[key] = value
	return filter
}
