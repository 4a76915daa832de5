package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/retailscan/backend/internal/domain/shared"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormProductRepository(gormDB, nil), mock, mockDB
}

func TestGormProductRepository_FindAllSearch(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	productID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "barcode"}).
		AddRow(productID, "Milk 1L", "4000417025005")

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE name ILIKE \$1 OR barcode ILIKE \$2`).
		WithArgs("%milk%", "%milk%").
		WillReturnRows(rows)

	found, err := repo.FindAll(context.Background(), shared.Filter{Search: "milk"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, productID, found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_CountSearch(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE name ILIKE \$1 OR barcode ILIKE \$2`).
		WithArgs("%milk%", "%milk%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(context.Background(), shared.Filter{Search: "milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
