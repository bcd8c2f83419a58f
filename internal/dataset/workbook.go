package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/retail-lakehouse/ingestor/internal/tables"
)

// ErrMissingSheet is returned when a requested sheet is absent from the
// workbook.
var ErrMissingSheet = errors.New("dataset: sheet not found")

// invoiceDateLayouts covers the cell formats excelize produces for the
// workbook's datetime column.
var invoiceDateLayouts = []string{
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"2006-01-02",
}

// Workbook wraps an open xlsx file.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the xlsx file at path.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// ReadSheet parses every data row of the named sheet into retail
// transactions. The first row is the header; blank rows are skipped.
func (w *Workbook) ReadSheet(name string) ([]tables.RetailTransaction, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		var sheetErr excelize.ErrSheetNotExist
		if errors.As(err, &sheetErr) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSheet, name)
		}
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMissingSheet, name)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}

	out := make([]tables.RetailTransaction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		txn, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
		out = append(out, txn)
	}
	return out, nil
}

// SheetInfo summarizes one sheet of the workbook.
type SheetInfo struct {
	Name    string
	Columns []string
	Rows    int
}

// Structure reports the workbook layout: sheet names, their column
// headers and data row counts.
func (w *Workbook) Structure() ([]SheetInfo, error) {
	var out []SheetInfo
	for _, name := range w.SheetNames() {
		rows, err := w.file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		info := SheetInfo{Name: name}
		if len(rows) > 0 {
			info.Columns = rows[0]
			info.Rows = len(rows) - 1
		}
		out = append(out, info)
	}
	return out, nil
}

// CleanSheetName normalizes a sheet name for use in object keys:
// spaces and slashes become underscores and the result is lowercased.
func CleanSheetName(name string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return strings.ToLower(r.Replace(name))
}

// columnIndexes maps the retail schema onto header positions.
type columnIndexes struct {
	invoice, stockCode, description, quantity int
	invoiceDate, price, customerID, country   int
}

func headerIndex(header []string) (columnIndexes, error) {
	idx := columnIndexes{
		invoice: -1, stockCode: -1, description: -1, quantity: -1,
		invoiceDate: -1, price: -1, customerID: -1, country: -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "")) {
		case "invoice", "invoiceno":
			idx.invoice = i
		case "stockcode":
			idx.stockCode = i
		case "description":
			idx.description = i
		case "quantity":
			idx.quantity = i
		case "invoicedate":
			idx.invoiceDate = i
		case "price", "unitprice":
			idx.price = i
		case "customerid":
			idx.customerID = i
		case "country":
			idx.country = i
		}
	}
	if idx.invoice < 0 || idx.invoiceDate < 0 || idx.quantity < 0 || idx.price < 0 {
		return idx, fmt.Errorf("header missing required retail columns: %v", header)
	}
	return idx, nil
}

func parseRow(row []string, cols columnIndexes) (tables.RetailTransaction, error) {
	txn := tables.RetailTransaction{
		Invoice:     cell(row, cols.invoice),
		StockCode:   cell(row, cols.stockCode),
		Description: cell(row, cols.description),
		CustomerID:  cell(row, cols.customerID),
		Country:     cell(row, cols.country),
	}

	if v := cell(row, cols.quantity); v != "" {
		// Quantities occasionally render as "12.0".
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return txn, fmt.Errorf("parse quantity %q: %w", v, err)
		}
		txn.Quantity = int64(f)
	}

	if v := cell(row, cols.price); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return txn, fmt.Errorf("parse price %q: %w", v, err)
		}
		txn.Price = f
	}

	v := cell(row, cols.invoiceDate)
	if v == "" {
		return txn, fmt.Errorf("missing invoice date")
	}
	ts, err := parseInvoiceDate(v)
	if err != nil {
		return txn, err
	}
	txn.InvoiceDate = ts

	return txn, nil
}

func parseInvoiceDate(v string) (time.Time, error) {
	for _, layout := range invoiceDateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse invoice date %q", v)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
