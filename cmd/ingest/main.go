// Command ingest uploads one day of retail transactions to the bronze
// layer, advancing the date cursor on success.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/retail-lakehouse/ingestor/internal/config"
	"github.com/retail-lakehouse/ingestor/internal/cursor"
	"github.com/retail-lakehouse/ingestor/internal/dataset"
	"github.com/retail-lakehouse/ingestor/internal/ingest"
	"github.com/retail-lakehouse/ingestor/internal/logging"
	"github.com/retail-lakehouse/ingestor/internal/metrics"
	"github.com/retail-lakehouse/ingestor/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		dateFlag   = flag.String("date", "", "ingest this date (YYYY-MM-DD) instead of the cursor")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(logging.Config{Format: cfg.Logging.Format, Level: cfg.Logging.Level})
	log := logging.Component("ingest")

	if cfg.Metrics.Enabled {
		metrics.Init("")
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Address); err != nil {
				log.Error("metrics server", "error", err)
			}
		}()
	}

	ctx := context.Background()

	store, err := storage.NewObjectStore(ctx, cfg.StoreConfig())
	if err != nil {
		log.Error("create storage backend", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureBucket(ctx, cfg.Layers.Bronze); err != nil {
		log.Error("ensure bronze bucket", "error", err)
		os.Exit(1)
	}

	wb, err := dataset.OpenWorkbook(cfg.Dataset.Workbook)
	if err != nil {
		log.Error("open workbook", "error", err, "hint", "run fetch-dataset first")
		os.Exit(1)
	}
	defer wb.Close()

	rng, err := cfg.Ingest.Range()
	if err != nil {
		log.Error("invalid ingest range", "error", err)
		os.Exit(1)
	}

	in := ingest.New(ingest.Config{
		Store:      store,
		Bucket:     cfg.Layers.Bronze,
		Table:      cfg.Ingest.Table,
		CursorFile: cfg.Ingest.CursorFile,
		Range:      rng,
	})

	var res *ingest.Result
	if *dateFlag != "" {
		day, err := time.Parse(cursor.DateFormat, *dateFlag)
		if err != nil {
			log.Error("invalid -date value", "error", err)
			os.Exit(1)
		}
		res, err = in.Run(ctx, wb, day)
		if err != nil {
			log.Error("ingestion failed", "error", err)
			os.Exit(1)
		}
	} else {
		res, err = in.RunNext(ctx, wb)
		if errors.Is(err, cursor.ErrRangeExhausted) {
			log.Info("date range exhausted, nothing to ingest")
			return
		}
		if err != nil {
			log.Error("ingestion failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("run finished",
		"run_id", res.RunID,
		"date", res.Date.Format(cursor.DateFormat),
		"objects", len(res.Uploaded),
		"rows", res.Rows,
	)
}
