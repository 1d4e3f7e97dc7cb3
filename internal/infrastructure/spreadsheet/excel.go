// Package spreadsheet reads batch intake sheets and renders expiry reports as xlsx.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	appinventory "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the files produced here
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const expirySheet = "Expiring Materials"

var expiryHeader = []interface{}{
	"Product", "Batch", "Remaining Qty", "Unit", "Supplier", "Expiry Date", "Days Left", "Suggested Action",
}

// Excel implements both the expiry report writer and the batch sheet parser
type Excel struct{}

// NewExcel returns the xlsx adapter
func NewExcel() *Excel {
	return &Excel{}
}

// WriteExpiryReport writes rows to w as a single-sheet workbook
func (x *Excel) WriteExpiryReport(w io.Writer, rows []appinventory.ExpiringMaterialResponse, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, expirySheet); err != nil {
		return err
	}
	sheet = expirySheet

	if err := f.SetCellValue(sheet, "A1", "Generated "+generatedAt.Format("2006-01-02 15:04")); err != nil {
		return err
	}
	header := expiryHeader
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 2, 2, bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.ProductName,
			r.BatchNumber,
			r.RemainingQuantity.InexactFloat64(),
			r.Unit,
			r.SupplierName,
			r.ExpiryDate.Format(shared.DateLayout),
			r.DaysLeft,
			string(r.Action),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "H", 18); err != nil {
		return err
	}

	return f.Write(w)
}

// column names accepted in intake sheets, lower-cased
var batchColumns = map[string][]string{
	"product":  {"product", "product name", "productname", "material"},
	"batch":    {"batch", "batch number", "batchnumber", "batch no"},
	"quantity": {"quantity", "qty"},
	"unit":     {"unit"},
	"supplier": {"supplier", "supplier name", "suppliername"},
	"received": {"received", "received date", "receiveddate"},
	"expiry":   {"expiry", "expiry date", "expirydate"},
}

var requiredBatchColumns = []string{"product", "batch", "quantity", "unit", "expiry"}

// ParseBatches reads the first sheet of an xlsx upload. The first row is the
// header; blank rows are ignored and malformed rows carry a per-row error.
func (x *Excel) ParseBatches(r io.Reader) ([]appinventory.BatchImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", "Could not read the spreadsheet; upload an .xlsx file")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, shared.NewDomainError("INVALID_FILE", "The spreadsheet has no data rows")
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]appinventory.BatchImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		req, err := parseBatchRow(row, cols)
		out = append(out, appinventory.BatchImportRow{Row: rowNum, Request: req, Err: err})
	}
	return out, nil
}

func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for key, aliases := range batchColumns {
			for _, alias := range aliases {
				if name == alias {
					cols[key] = idx
				}
			}
		}
	}
	var missing []string
	for _, key := range requiredBatchColumns {
		if _, ok := cols[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewDomainErrorf("INVALID_FILE", "Missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseBatchRow(row []string, cols map[string]int) (appinventory.CreateBatchRequest, error) {
	cell := func(key string) string {
		idx, ok := cols[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	req := appinventory.CreateBatchRequest{
		ProductName:  cell("product"),
		Unit:         cell("unit"),
		SupplierName: cell("supplier"),
	}

	batchNumber, err := strconv.ParseFloat(cell("batch"), 64)
	if err != nil || batchNumber != float64(int(batchNumber)) {
		return req, shared.NewDomainErrorf("INVALID_BATCH_NUMBER", "Invalid batch number %q", cell("batch"))
	}
	req.BatchNumber = int(batchNumber)

	req.Quantity, err = decimal.NewFromString(cell("quantity"))
	if err != nil {
		return req, shared.NewDomainErrorf("INVALID_QUANTITY", "Invalid quantity %q", cell("quantity"))
	}

	if req.ExpiryDate, err = parseCellDate(cell("expiry")); err != nil {
		return req, err
	}
	if raw := cell("received"); raw != "" {
		if req.ReceivedDate, err = parseCellDate(raw); err != nil {
			return req, err
		}
	}
	return req, nil
}

// parseCellDate accepts text dates and Excel serial day numbers
func parseCellDate(raw string) (shared.Date, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return shared.Date{}, shared.NewDomainErrorf("INVALID_DATE", "Invalid date %q", raw)
		}
		return shared.NewDate(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
	}
	return shared.ParseDate(raw)
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var (
	_ appinventory.ExpiryReportWriter = (*Excel)(nil)
	_ appinventory.BatchSheetParser   = (*Excel)(nil)
)
