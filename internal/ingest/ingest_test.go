package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/retail-lakehouse/ingestor/internal/cursor"
	"github.com/retail-lakehouse/ingestor/internal/metrics"
	"github.com/retail-lakehouse/ingestor/internal/storage"
	"github.com/retail-lakehouse/ingestor/internal/tables"
)

type fakeSource struct {
	order  []string
	sheets map[string][]tables.RetailTransaction
	err    error
}

func (f *fakeSource) SheetNames() []string { return f.order }

func (f *fakeSource) ReadSheet(name string) ([]tables.RetailTransaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sheets[name], nil
}

func txn(invoice string, day time.Time) tables.RetailTransaction {
	return tables.RetailTransaction{
		Invoice:     invoice,
		StockCode:   "85048",
		Description: "15CM CHRISTMAS GLASS BALL",
		Quantity:    12,
		InvoiceDate: day.Add(9 * time.Hour),
		Price:       6.95,
		CustomerID:  "13085",
		Country:     "United Kingdom",
	}
}

func day(s string) time.Time {
	d, err := time.Parse(cursor.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestIngestor(t *testing.T, rng cursor.Range) (*Ingestor, *storage.LocalStore, string) {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if err := store.EnsureBucket(context.Background(), "bronze"); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	cursorFile := filepath.Join(t.TempDir(), "last_processed_date.txt")
	in := New(Config{
		Store:      store,
		Bucket:     "bronze",
		Table:      "online_retail_ii",
		CursorFile: cursorFile,
		Range:      rng,
	})

	// Deterministic timestamps so repeated runs get distinct keys.
	seq := 0
	in.now = func() time.Time {
		seq++
		return time.Date(2024, 5, 1, 12, 0, seq, 0, time.UTC)
	}
	return in, store, cursorFile
}

func readCursor(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cursor: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func TestRunNextAdvancesCursor(t *testing.T) {
	rng := cursor.Range{Start: day("2010-01-01"), End: day("2010-01-04")}
	src := &fakeSource{
		order: []string{"Year 2009-2010", "Year 2010-2011"},
		sheets: map[string][]tables.RetailTransaction{
			"Year 2009-2010": {
				txn("489434", day("2010-01-01")),
				txn("489435", day("2010-01-01")),
				txn("489500", day("2010-01-02")),
			},
			"Year 2010-2011": {
				txn("538171", day("2010-01-01")),
			},
		},
	}
	in, store, cursorFile := newTestIngestor(t, rng)
	ctx := context.Background()

	// First run: no cursor file, resolves to the range start.
	res, err := in.RunNext(ctx, src)
	if err != nil {
		t.Fatalf("first RunNext: %v", err)
	}
	if !res.Date.Equal(day("2010-01-01")) {
		t.Errorf("first run date = %v, want 2010-01-01", res.Date)
	}
	if len(res.Uploaded) != 2 {
		t.Fatalf("first run uploaded %d objects, want 2", len(res.Uploaded))
	}
	for _, key := range res.Uploaded {
		if !strings.Contains(key, "_2010-01-01_") {
			t.Errorf("key %s not stamped with business date", key)
		}
		if !strings.HasPrefix(key, "online_retail_ii/") {
			t.Errorf("key %s not under table prefix", key)
		}
	}
	if res.Rows != 3 {
		t.Errorf("first run rows = %d, want 3", res.Rows)
	}
	if got := readCursor(t, cursorFile); got != "2010-01-02" {
		t.Errorf("cursor after first run = %s, want 2010-01-02", got)
	}

	// Second run picks up the advanced cursor.
	res2, err := in.RunNext(ctx, src)
	if err != nil {
		t.Fatalf("second RunNext: %v", err)
	}
	if !res2.Date.Equal(day("2010-01-02")) {
		t.Errorf("second run date = %v, want 2010-01-02", res2.Date)
	}
	if len(res2.Uploaded) != 1 || !strings.Contains(res2.Uploaded[0], "_2010-01-02_") {
		t.Errorf("second run keys = %v, want one keyed 2010-01-02", res2.Uploaded)
	}
	if got := readCursor(t, cursorFile); got != "2010-01-03" {
		t.Errorf("cursor after second run = %s, want 2010-01-03", got)
	}

	// Nothing from the first run was overwritten.
	keys, err := store.List(ctx, "bronze", "online_retail_ii/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("bronze holds %d objects, want 3: %v", len(keys), keys)
	}
}

func TestRunNextRangeExhausted(t *testing.T) {
	rng := cursor.Range{Start: day("2010-01-01"), End: day("2010-01-03")}
	in, store, cursorFile := newTestIngestor(t, rng)

	if err := cursor.New(cursorFile).Save(day("2010-01-03")); err != nil {
		t.Fatalf("seed cursor: %v", err)
	}

	src := &fakeSource{
		order: []string{"Year 2009-2010"},
		sheets: map[string][]tables.RetailTransaction{
			"Year 2009-2010": {txn("489434", day("2010-01-03"))},
		},
	}

	_, err := in.RunNext(context.Background(), src)
	if !errors.Is(err, cursor.ErrRangeExhausted) {
		t.Fatalf("err = %v, want ErrRangeExhausted", err)
	}

	keys, err := store.List(context.Background(), "bronze", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("exhausted run uploaded %d objects, want 0", len(keys))
	}
	if got := readCursor(t, cursorFile); got != "2010-01-03" {
		t.Errorf("cursor changed to %s on exhausted run", got)
	}
}

func TestRunNoDataLeavesCursor(t *testing.T) {
	rng := cursor.Range{Start: day("2010-01-01"), End: day("2010-01-04")}
	in, _, cursorFile := newTestIngestor(t, rng)

	src := &fakeSource{
		order: []string{"Year 2009-2010"},
		sheets: map[string][]tables.RetailTransaction{
			"Year 2009-2010": {txn("489434", day("2010-02-15"))},
		},
	}

	res, err := in.RunNext(context.Background(), src)
	if err != nil {
		t.Fatalf("RunNext: %v", err)
	}
	if len(res.Uploaded) != 0 {
		t.Errorf("uploaded %d objects for empty date", len(res.Uploaded))
	}
	if _, err := os.Stat(cursorFile); !os.IsNotExist(err) {
		t.Errorf("cursor written despite empty run")
	}
}

func TestRunSheetErrorAborts(t *testing.T) {
	rng := cursor.Range{Start: day("2010-01-01"), End: day("2010-01-04")}
	in, _, cursorFile := newTestIngestor(t, rng)

	src := &fakeSource{
		order: []string{"Year 2009-2010"},
		err:   fmt.Errorf("corrupt sheet"),
	}

	if _, err := in.RunNext(context.Background(), src); err == nil {
		t.Fatal("expected error from failing source")
	}
	if _, err := os.Stat(cursorFile); !os.IsNotExist(err) {
		t.Errorf("cursor written despite failed run")
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	m := metrics.Init("ingest_test")

	rng := cursor.Range{Start: day("2010-01-01"), End: day("2010-01-04")}
	in, _, _ := newTestIngestor(t, rng)

	src := &fakeSource{
		order: []string{"Year 2009-2010"},
		sheets: map[string][]tables.RetailTransaction{
			"Year 2009-2010": {
				txn("489434", day("2010-01-01")),
				txn("489435", day("2010-01-01")),
			},
		},
	}

	if _, err := in.RunNext(context.Background(), src); err != nil {
		t.Fatalf("RunNext: %v", err)
	}

	if got := testutil.ToFloat64(m.ObjectsUploaded.WithLabelValues("online_retail_ii", "bronze")); got != 1 {
		t.Errorf("objects_uploaded_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RowsIngested.WithLabelValues("online_retail_ii", "bronze")); got != 2 {
		t.Errorf("rows_ingested_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RunsCompleted.WithLabelValues("online_retail_ii")); got != 1 {
		t.Errorf("runs_completed_total = %v, want 1", got)
	}

	// One observation per uploaded object in each histogram family.
	if got := testutil.CollectAndCount(m.ConvertDuration); got != 1 {
		t.Errorf("convert_duration series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(m.ObjectBytes); got != 1 {
		t.Errorf("object_bytes series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(m.UploadDuration); got != 1 {
		t.Errorf("upload_duration series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(m.ObjectRows); got != 1 {
		t.Errorf("object_rows series = %d, want 1", got)
	}
}

func TestRunAttachesMetadata(t *testing.T) {
	rng := cursor.Range{Start: day("2010-01-01"), End: day("2010-01-04")}
	in, store, _ := newTestIngestor(t, rng)

	src := &fakeSource{
		order: []string{"Year 2009-2010"},
		sheets: map[string][]tables.RetailTransaction{
			"Year 2009-2010": {txn("489434", day("2010-01-01"))},
		},
	}

	res, err := in.RunNext(context.Background(), src)
	if err != nil {
		t.Fatalf("RunNext: %v", err)
	}
	if len(res.Uploaded) != 1 {
		t.Fatalf("uploaded %d objects, want 1", len(res.Uploaded))
	}

	meta, err := store.Meta("bronze", res.Uploaded[0])
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if meta[storage.MetaRowCount] != "1" {
		t.Errorf("row_count = %s, want 1", meta[storage.MetaRowCount])
	}
	if meta[storage.MetaSource] != "Year 2009-2010" {
		t.Errorf("source = %s", meta[storage.MetaSource])
	}
	if meta[storage.MetaRunID] != res.RunID {
		t.Errorf("run_id = %s, want %s", meta[storage.MetaRunID], res.RunID)
	}
	if !strings.HasPrefix(meta[storage.MetaChecksum], "sha256:") {
		t.Errorf("checksum = %s", meta[storage.MetaChecksum])
	}
	if !strings.Contains(meta[storage.MetaColumns], "invoice_date") {
		t.Errorf("columns = %s", meta[storage.MetaColumns])
	}
}
