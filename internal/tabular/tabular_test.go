package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/spice-etl/internal/common"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestRead_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	writeWorkbook(t, path, [][]any{
		{" Move_ID ", "Product_Name", "QUANTITY", "Date"},
		{"M1", "widget", 5, 45296},
		{nil, nil, nil, nil},
		{"M2", "gadget", 1.5},
	})

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"move_id", "product_name", "quantity", "date"}, table.Header())
	require.Equal(t, 2, table.Len())

	first := table.Rows()[0]
	assert.Equal(t, "M1", first.Get("move_id"))
	assert.Equal(t, "5", first.Get("Quantity"))
	assert.Equal(t, "45296", first.Get("date"))
	assert.Equal(t, 2, first.Line)

	second := table.Rows()[1]
	assert.Equal(t, "1.5", second.Get("quantity"))
	assert.Equal(t, "", second.Get("date"), "ragged rows read as blank")
	assert.Equal(t, "", second.Get("no_such_column"))
}

func TestRead_CSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("\uFEFFLead_ID,Stage\nL1,lead\nL2,proposal,extra\n"), 0o600))

	table, err := Read(path)
	require.NoError(t, err)

	_, ok := table.Column("lead_id")
	assert.True(t, ok)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "proposal", table.Rows()[1].Get("stage"))
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "transactions.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingInput))
	var missing *common.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, filepath.Join(dir, "transactions.xlsx"), missing.Path)

	other := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o600))
	_, err = Read(other)
	assert.ErrorContains(t, err, "unsupported input format")
}

func TestTable_Require(t *testing.T) {
	table := NewTable("raw.csv", [][]string{{"transaction_id", "Amount"}})

	require.NoError(t, table.Require("amount", "TRANSACTION_ID"))

	err := table.Require("amount", "date", "vendor")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingColumn))
	assert.Contains(t, err.Error(), "date, vendor")
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "sales_clean.csv")
	header := []string{"lead_id", "customer_name"}
	rows := [][]string{{"L1", "Acme, Inc"}, {"L2", ""}}

	require.NoError(t, WriteCSV(path, header, rows))

	table, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, header, table.Header())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Acme, Inc", table.Rows()[0].Get("customer_name"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
