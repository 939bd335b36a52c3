package repository_test

import (
	"context"
	"regexp"
	"testing"

	"order-service/models"
	"order-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestInventoryCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormInventoryRepository(gormDB)

	inv := &models.Inventory{
		VariantID:      uuid.New(),
		QuantityOnHand: 25,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "inventories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), inv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByVariantID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormInventoryRepository(gormDB)

	id := uuid.New()
	variantID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "variant_id", "quantity_on_hand", "reserved_quantity", "reorder_threshold", "is_reorder_needed", "version"}).
		AddRow(id, variantID, 12, 3, 5, false, 7)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventories"`)).
		WillReturnRows(rows)

	inv, err := repo.GetByVariantID(context.Background(), variantID)
	assert.NoError(t, err)
	assert.NotNil(t, inv)
	assert.Equal(t, 12, inv.QuantityOnHand)
	assert.Equal(t, 3, inv.ReservedQuantity)
	assert.Equal(t, int64(7), inv.Version)
}

func TestGetByVariantID_NoRecord(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormInventoryRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventories"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	inv, err := repo.GetByVariantID(context.Background(), uuid.New())
	assert.NoError(t, err, "a missing ledger row is not an error")
	assert.Nil(t, inv)
}

func TestCompareAndSwap_VersionMatch(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormInventoryRepository(gormDB)

	inv := &models.Inventory{
		ID:             uuid.New(),
		VariantID:      uuid.New(),
		QuantityOnHand: 9,
		Version:        4,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventories"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.CompareAndSwap(context.Background(), inv)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCompareAndSwap_VersionMismatch(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormInventoryRepository(gormDB)

	inv := &models.Inventory{
		ID:      uuid.New(),
		Version: 4,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventories"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.CompareAndSwap(context.Background(), inv)
	assert.NoError(t, err, "a lost race is reported via the bool, not an error")
	assert.False(t, ok)
}
