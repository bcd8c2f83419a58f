package tables

import (
	"testing"
	"time"
)

func TestWriteReadParquetOptionalField(t *testing.T) {
	last := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	in := []Customer{
		{
			CustomerID:       "CUST-000001",
			CustomerName:     "Ada Lovelace",
			Currency:         "GBP",
			RegistrationDate: time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
			Segment:          "retail",
			TotalOrders:      3,
			TotalSpent:       120.50,
			LastOrderDate:    &last,
		},
		{
			CustomerID:       "CUST-000002",
			CustomerName:     "Grace Hopper",
			Currency:         "USD",
			RegistrationDate: time.Date(2023, 7, 19, 0, 0, 0, 0, time.UTC),
			Segment:          "enterprise",
		},
	}

	data, err := WriteParquet(in)
	if err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	out, err := ReadParquet[Customer](data)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}

	if out[0].LastOrderDate == nil || !out[0].LastOrderDate.Equal(last) {
		t.Errorf("last_order_date = %v, want %v", out[0].LastOrderDate, last)
	}
	if out[1].LastOrderDate != nil {
		t.Errorf("expected nil last_order_date, got %v", *out[1].LastOrderDate)
	}
	if out[0].TotalSpent != 120.50 {
		t.Errorf("total_spent = %v", out[0].TotalSpent)
	}
}

func TestColumnsOf(t *testing.T) {
	cols := ColumnsOf[RetailTransaction]()
	want := RetailTransaction{}.Columns()

	if len(cols) != len(want) {
		t.Fatalf("ColumnsOf = %v, want %v", cols, want)
	}
	got := make(map[string]bool, len(cols))
	for _, c := range cols {
		got[c] = true
	}
	for _, c := range want {
		if !got[c] {
			t.Errorf("missing column %s in %v", c, cols)
		}
	}
}

func TestChecksum(t *testing.T) {
	data := []byte("parquet bytes")

	sum := ComputeChecksum(data)
	if !VerifyChecksum(data, sum) {
		t.Error("checksum failed to verify its own data")
	}
	if VerifyChecksum([]byte("tampered"), sum) {
		t.Error("checksum verified tampered data")
	}
}

func TestOnDate(t *testing.T) {
	txn := RetailTransaction{
		InvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
	}

	if !txn.OnDate(time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("OnDate rejected matching day")
	}
	if txn.OnDate(time.Date(2010, 12, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("OnDate accepted adjacent day")
	}
}
