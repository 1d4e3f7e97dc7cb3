package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	appinventory "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

func TestExcel_WriteExpiryReport(t *testing.T) {
	expiry, err := shared.ParseDate("2026-11-01")
	require.NoError(t, err)
	rows := []appinventory.ExpiringMaterialResponse{{
		BatchID:           uuid.New(),
		ProductName:       "Cinnamon",
		BatchNumber:       7,
		RemainingQuantity: decimal.NewFromFloat(4.5),
		Unit:              "kg",
		SupplierName:      "Lanka Spices",
		ExpiryDate:        expiry,
		DaysLeft:          3,
		Action:            inventory.ExpiryActionUseImmediately,
	}}

	buf := &bytes.Buffer{}
	generated := time.Date(2026, 10, 29, 9, 30, 0, 0, time.UTC)
	require.NoError(t, NewExcel().WriteExpiryReport(buf, rows, generated))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(expirySheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Generated 2026-10-29 09:30", got[0][0])
	assert.Equal(t, []string{"Product", "Batch", "Remaining Qty", "Unit", "Supplier", "Expiry Date", "Days Left", "Suggested Action"}, got[1])
	assert.Equal(t, []string{"Cinnamon", "7", "4.5", "kg", "Lanka Spices", "2026-11-01", "3", "Use immediately"}, got[2])
}

func TestExcel_WriteExpiryReport_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewExcel().WriteExpiryReport(buf, nil, time.Now()))
	assert.NotZero(t, buf.Len())
}

func TestExcel_ParseBatches(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Product", "Batch", "Quantity", "Unit", "Supplier", "Expiry Date"},
		[]interface{}{"Cinnamon", 7, 12.5, "kg", "Lanka Spices", "2027-01-31"},
		[]interface{}{"", "", "", "", "", ""},
		[]interface{}{"Pepper", "x", 3, "kg", "", "2027-02-01"},
		[]interface{}{"Clove", 9, 2, "kg", "", time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)},
		[]interface{}{"Nutmeg", 10, "lots", "kg", "", "2027-03-15"},
	)

	rows, err := NewExcel().ParseBatches(buf)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	first := rows[0]
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "Cinnamon", first.Request.ProductName)
	assert.Equal(t, 7, first.Request.BatchNumber)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(first.Request.Quantity))
	assert.Equal(t, "Lanka Spices", first.Request.SupplierName)
	assert.Equal(t, "2027-01-31", first.Request.ExpiryDate.Format(shared.DateLayout))

	assert.Equal(t, 4, rows[1].Row)
	assert.ErrorContains(t, rows[1].Err, "Invalid batch number")

	require.NoError(t, rows[2].Err)
	assert.Equal(t, "2027-03-15", rows[2].Request.ExpiryDate.Format(shared.DateLayout))

	assert.ErrorContains(t, rows[3].Err, "Invalid quantity")
}

func TestExcel_ParseBatches_BadInput(t *testing.T) {
	_, err := NewExcel().ParseBatches(bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_FILE", ""))

	_, err = NewExcel().ParseBatches(workbook(t, []interface{}{"Product", "Quantity"}, []interface{}{"Cinnamon", 1}))
	assert.ErrorContains(t, err, "Missing columns: batch, unit, expiry")

	_, err = NewExcel().ParseBatches(workbook(t, []interface{}{"Product", "Batch", "Quantity", "Unit", "Expiry"}))
	assert.ErrorContains(t, err, "no data rows")
}
