package tables

import (
	"time"
)

// RetailTransaction represents a single invoice line from the
// Online Retail II dataset. Every sheet of the source workbook
// shares this schema.
type RetailTransaction struct {
	// Invoice number; a leading 'C' marks a cancellation.
	Invoice string `parquet:"invoice"`

	StockCode   string `parquet:"stock_code"`
	Description string `parquet:"description"`
	Quantity    int64  `parquet:"quantity"`

	// Temporal field used for date-gated ingestion.
	InvoiceDate time.Time `parquet:"invoice_date,timestamp(millisecond)"`

	Price      float64 `parquet:"price"`
	CustomerID string  `parquet:"customer_id"`
	Country    string  `parquet:"country"`
}

// TableName returns the logical bronze table name for retail data.
func (RetailTransaction) TableName() string {
	return "online_retail_ii"
}

// Columns returns the column names in schema order.
func (RetailTransaction) Columns() []string {
	return []string{
		"invoice", "stock_code", "description", "quantity",
		"invoice_date", "price", "customer_id", "country",
	}
}

// OnDate reports whether the transaction falls on the given calendar day.
func (t RetailTransaction) OnDate(day time.Time) bool {
	y1, m1, d1 := t.InvoiceDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
