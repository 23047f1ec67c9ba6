package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-etl/internal/common"
	"github.com/Veraticus/spice-etl/internal/model"
)

func newMockWarehouse(t *testing.T) (*Warehouse, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	wh, err := New(sqlx.NewDb(mockDB, "mysql"))
	require.NoError(t, err)
	return wh, mock
}

func TestMySQL_GetOrCreateNames(t *testing.T) {
	t.Parallel()
	wh, mock := newMockWarehouse(t)
	assert.Equal(t, DriverMySQL, wh.Driver())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO dim_vendor (vendor_name) VALUES (?)")).
		WithArgs("Acme").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO dim_vendor (vendor_name) VALUES (?)")).
		WithArgs("Globex").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vendor_id AS id, vendor_name AS name FROM dim_vendor")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Acme").AddRow(7, "Globex"))
	mock.ExpectCommit()

	mapping, err := wh.GetOrCreateNames(context.Background(), model.DimVendor, []string{"Acme", "Globex"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Acme": 1, "Globex": 7}, mapping)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_GetOrCreateCustomers(t *testing.T) {
	t.Parallel()
	wh, mock := newMockWarehouse(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO dim_customer (customer_name, region)") +
		`\s+SELECT \?, \? FROM DUAL\s+WHERE NOT EXISTS`).
		WithArgs("Acme", "", "Acme", "").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT customer_id AS id, customer_name AS name, COALESCE(region, '') AS region FROM dim_customer")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "region"}).
			AddRow(9, "Acme", "").
			AddRow(3, "Acme", ""))
	mock.ExpectCommit()

	mapping, err := wh.GetOrCreateCustomers(context.Background(), []model.CustomerKey{{Name: "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, map[model.CustomerKey]int64{{Name: "Acme"}: 3}, mapping, "oldest row wins")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_GetOrCreateDates_ByteDates(t *testing.T) {
	t.Parallel()
	wh, mock := newMockWarehouse(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT date_id AS id, full_date FROM dim_date")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_date"}).AddRow(4, []byte("2024-01-05")))
	mock.ExpectCommit()

	mapping, err := wh.GetOrCreateDates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, mapping, 1)
	for d, id := range mapping {
		assert.Equal(t, "2024-01-05", d.String())
		assert.Equal(t, int64(4), id)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_InsertFactsRollsBack(t *testing.T) {
	t.Parallel()
	wh, mock := newMockWarehouse(t)

	insert := regexp.QuoteMeta("INSERT IGNORE INTO fact_inventory_moves (")
	mock.ExpectBegin()
	mock.ExpectExec(insert).
		WithArgs("M1", nil, nil, 5.0, "IN", nil, "East").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).
		WithArgs("M2", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := wh.InsertInventoryFacts(context.Background(), []model.InventoryFact{
		{MoveID: "M1", MoveType: model.MoveIn, Quantity: 5, Warehouse: model.Some("East")},
		{MoveID: "M2", MoveType: model.MoveOut, Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPersistence))
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_InsertFactsCountsOnlyNewRows(t *testing.T) {
	t.Parallel()
	wh, mock := newMockWarehouse(t)

	insert := regexp.QuoteMeta("INSERT IGNORE INTO fact_sales_funnel (")
	mock.ExpectBegin()
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, err := wh.InsertSalesFacts(context.Background(), []model.SalesFact{
		{LeadID: "L1", Stage: model.StageLead},
		{LeadID: "L2", Stage: model.StageClosedWon},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectRender(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"id BIGINT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin, note TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin",
		mysqlDialect.render("id {{pk}}, name {{key}}, note {{text}}"))
	assert.Equal(t, "id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, note TEXT", sqliteDialect.render("id {{pk}}, name {{key}}, note {{text}}"))

	for _, m := range migrations {
		for _, stmt := range m.Statements {
			assert.NotContains(t, mysqlDialect.render(stmt), "{{", "every placeholder renders")
		}
	}

	_, err := dialectFor("oracle")
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}
