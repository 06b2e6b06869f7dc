package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGormSaleRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	businessID := uuid.New()
	sale := newStoredSale(businessID)
	require.NoError(t, repo.Save(ctx, sale))

	t.Run("loads a sale with its items", func(t *testing.T) {
		found, err := repo.FindByIDForBusiness(ctx, businessID, sale.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "SALE-2026-00042", found.SaleNumber)
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Cotton T-Shirt", found.Items[0].ProductName)
		assert.Equal(t, int64(2), found.Items[0].Quantity)
	})

	t.Run("loads by sale number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, businessID, "SALE-2026-00042")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, sale.ID, found.ID)
		assert.Len(t, found.Items, 2)
	})

	t.Run("missing sale is nil", func(t *testing.T) {
		found, err := repo.FindByIDForBusiness(ctx, businessID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("scoped to the business", func(t *testing.T) {
		found, err := repo.FindByIDForBusiness(ctx, uuid.New(), sale.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

// newMockSaleRepository creates a GormSaleRepository with a mocked SQL connection
func newMockSaleRepository(t *testing.T) (*GormSaleRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSaleRepository(gormDB), mock, mockDB
}

func TestGormSaleRepository_FindByIDForBusinessLocked(t *testing.T) {
	repo, mock, mockDB := newMockSaleRepository(t)
	defer mockDB.Close()

	saleID := uuid.New()
	businessID := uuid.New()
	now := time.Now()

	// The sale row must be read FOR UPDATE so concurrent return
	// submissions against the same sale serialize on it.
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE business_id = \$1 AND id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(businessID, saleID, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version", "business_id",
			"sale_number", "customer_id", "total_amount", "status",
		}).AddRow(saleID, now, now, 1, businessID,
			"SALE-2026-00042", nil, "750", "completed"))
	mock.ExpectQuery(`SELECT \* FROM "sale_items" WHERE "sale_items"\."sale_id" = \$1`).
		WithArgs(saleID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "sale_id", "product_id",
			"product_name", "variant_name", "quantity", "unit_price", "line_total",
		}))

	sale, err := repo.FindByIDForBusinessLocked(context.Background(), businessID, saleID)

	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, "SALE-2026-00042", sale.SaleNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
