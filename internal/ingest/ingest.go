// Package ingest converts workbook sheets to Parquet and uploads them to
// the bronze layer, one dated snapshot per sheet per run.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retail-lakehouse/ingestor/internal/cursor"
	"github.com/retail-lakehouse/ingestor/internal/dataset"
	"github.com/retail-lakehouse/ingestor/internal/logging"
	"github.com/retail-lakehouse/ingestor/internal/metrics"
	"github.com/retail-lakehouse/ingestor/internal/storage"
	"github.com/retail-lakehouse/ingestor/internal/tables"
)

// SheetSource yields the sheets to ingest. *dataset.Workbook satisfies
// it; tests substitute an in-memory fake.
type SheetSource interface {
	SheetNames() []string
	ReadSheet(name string) ([]tables.RetailTransaction, error)
}

// Config wires an Ingestor.
type Config struct {
	Store      storage.ObjectStore
	Bucket     string // bronze layer bucket
	Table      string // logical table name, first key segment
	CursorFile string
	Range      cursor.Range
}

// Ingestor runs date-gated incremental loads.
type Ingestor struct {
	store  storage.ObjectStore
	bucket string
	table  string
	cur    *cursor.Cursor
	rng    cursor.Range

	// now is swapped in tests for deterministic object keys.
	now func() time.Time
}

// New creates an Ingestor from configuration.
func New(cfg Config) *Ingestor {
	return &Ingestor{
		store:  cfg.Store,
		bucket: cfg.Bucket,
		table:  cfg.Table,
		cur:    cursor.New(cfg.CursorFile),
		rng:    cfg.Range,
		now:    time.Now,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	RunID    string
	Date     time.Time
	Uploaded []string // object keys written this run
	Rows     int
}

// RunNext resolves the next date from the cursor and ingests it. When
// every date in the range has been ingested it returns
// cursor.ErrRangeExhausted with the cursor left untouched.
func (in *Ingestor) RunNext(ctx context.Context, src SheetSource) (*Result, error) {
	day, err := cursor.NextDate(in.cur, in.rng)
	if err != nil {
		return nil, err
	}
	return in.Run(ctx, src, day)
}

// Run ingests the given business date: each sheet is filtered to rows
// whose invoice date falls on day, encoded to Parquet and uploaded.
// Sheets with no rows for the day are skipped. The cursor advances to
// the following date only when at least one object was uploaded and
// nothing failed.
func (in *Ingestor) Run(ctx context.Context, src SheetSource, day time.Time) (*Result, error) {
	res := &Result{
		RunID: uuid.New().String(),
		Date:  day,
	}
	log := logging.RunLogger(res.RunID, in.table)
	log.Info("starting ingestion run", "date", day.Format(cursor.DateFormat))

	for _, sheet := range src.SheetNames() {
		rows, err := src.ReadSheet(sheet)
		if err != nil {
			if m := metrics.Get(); m != nil {
				m.IncDatasetErrors(in.table)
				m.IncRunsFailed(in.table)
			}
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		daily := filterByDate(rows, day)
		if len(daily) == 0 {
			log.Debug("no rows for date, skipping sheet", "sheet", sheet)
			continue
		}

		key, err := in.uploadSheet(ctx, log, res.RunID, sheet, day, daily)
		if err != nil {
			if m := metrics.Get(); m != nil {
				m.IncRunsFailed(in.table)
			}
			return nil, err
		}
		res.Uploaded = append(res.Uploaded, key)
		res.Rows += len(daily)
	}

	if len(res.Uploaded) == 0 {
		log.Info("no data for date, cursor unchanged", "date", day.Format(cursor.DateFormat))
		if m := metrics.Get(); m != nil {
			m.IncRunsSkipped(in.table)
		}
		return res, nil
	}

	if err := in.cur.Save(cursor.Advance(day)); err != nil {
		return nil, fmt.Errorf("advance cursor: %w", err)
	}

	if m := metrics.Get(); m != nil {
		m.IncRunsCompleted(in.table)
		m.SetLastIngestedDate(in.table, float64(day.Unix()))
	}
	log.Info("ingestion run complete",
		"date", day.Format(cursor.DateFormat),
		"objects", len(res.Uploaded),
		"rows", res.Rows,
	)
	return res, nil
}

func (in *Ingestor) uploadSheet(ctx context.Context, log *slog.Logger, runID, sheet string, day time.Time, rows []tables.RetailTransaction) (string, error) {
	name := dataset.CleanSheetName(sheet)
	key := storage.DatedSnapshotKey(in.table, name, day, in.now().UTC())

	meta := map[string]string{
		storage.MetaSource: sheet,
		storage.MetaRunID:  runID,
	}

	encodeStart := time.Now()
	data, err := tables.WriteParquet(rows)
	if err != nil {
		return "", fmt.Errorf("encode sheet %s: %w", sheet, err)
	}
	if m := metrics.Get(); m != nil {
		m.ObserveConvertDuration(in.table, time.Since(encodeStart).Seconds())
		m.ObserveObjectBytes(in.table, float64(len(data)))
	}

	uploadStart := time.Now()
	if err := in.store.Put(ctx, in.bucket, key, data, storage.ParquetMeta(rows, data, meta)); err != nil {
		if m := metrics.Get(); m != nil {
			m.IncStorageErrors(in.bucket)
		}
		return "", fmt.Errorf("upload sheet %s: %w", sheet, err)
	}

	if m := metrics.Get(); m != nil {
		m.IncObjectsUploaded(in.table, in.bucket)
		m.AddRowsIngested(in.table, in.bucket, float64(len(rows)))
		m.ObserveUploadDuration(in.table, in.bucket, time.Since(uploadStart).Seconds())
		m.ObserveObjectRows(in.table, float64(len(rows)))
	}

	log.Info("uploaded sheet snapshot",
		"sheet", sheet,
		"key", key,
		"rows", len(rows),
	)
	return key, nil
}

func filterByDate(rows []tables.RetailTransaction, day time.Time) []tables.RetailTransaction {
	var out []tables.RetailTransaction
	for _, r := range rows {
		if r.OnDate(day) {
			out = append(out, r)
		}
	}
	return out
}
