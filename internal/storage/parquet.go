package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/retail-lakehouse/ingestor/internal/tables"
)

// UploadParquet marshals rows to parquet and writes them as one object,
// attaching row count, column list, checksum and creation time to the
// caller-provided metadata.
func UploadParquet[T any](ctx context.Context, store ObjectStore, bucket, key string, rows []T, meta map[string]string) error {
	data, err := tables.WriteParquet(rows)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, key, err)
	}
	return store.Put(ctx, bucket, key, data, ParquetMeta(rows, data, meta))
}

// ParquetMeta builds the standard object metadata for an encoded
// payload, folding in the caller-provided entries. Callers that encode
// rows themselves pair this with Put.
func ParquetMeta[T any](rows []T, data []byte, meta map[string]string) map[string]string {
	merged := make(map[string]string, len(meta)+4)
	for k, v := range meta {
		merged[k] = v
	}
	merged[MetaRowCount] = strconv.Itoa(len(rows))
	merged[MetaColumns] = strings.Join(tables.ColumnsOf[T](), ",")
	merged[MetaChecksum] = tables.ComputeChecksum(data)
	merged[MetaCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	return merged
}

// DownloadParquet is the inverse of UploadParquet. A missing key
// surfaces as ErrNotFound from the underlying store.
func DownloadParquet[T any](ctx context.Context, store ObjectStore, bucket, key string) ([]T, error) {
	data, err := store.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	rows, err := tables.ReadParquet[T](data)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", bucket, key, err)
	}
	return rows, nil
}
