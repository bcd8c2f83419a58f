package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore abstracts the object-store primitives the ingestor needs.
// Backends must be substitutable: the S3 implementation talks to MinIO or
// any S3-compatible service, the local implementation keeps everything on
// the filesystem for tests and infrastructure-free runs.
type ObjectStore interface {
	// EnsureBucket creates the bucket if it does not exist. Idempotent.
	EnsureBucket(ctx context.Context, bucket string) error

	// Put writes or overwrites the object at key, attaching optional
	// descriptive metadata. Transport errors propagate.
	Put(ctx context.Context, bucket, key string, data []byte, meta map[string]string) error

	// Get reads the object at key. Returns ErrNotFound (wrapped) when
	// the key is absent.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// List returns the keys under prefix, ordered by key.
	List(ctx context.Context, bucket, prefix string) ([]string, error)

	// BucketStats returns object count and aggregate size per bucket.
	BucketStats(ctx context.Context) ([]BucketStats, error)

	// Close releases any resources.
	Close() error
}

// BucketStats describes one bucket for monitoring output.
type BucketStats struct {
	Bucket  string
	Objects int64
	Bytes   int64
}

// Metadata keys attached to uploaded snapshots.
const (
	MetaRowCount  = "row_count"
	MetaColumns   = "columns"
	MetaSource    = "source"
	MetaCreatedAt = "created_at"
	MetaChecksum  = "checksum"
	MetaRunID     = "run_id"
)

// SnapshotKey builds the object key for a table snapshot. The timestamp
// component makes repeated runs produce distinct keys (append-only).
func SnapshotKey(table, name string, ts time.Time) string {
	return fmt.Sprintf("%s/%s_%s.parquet", table, name, ts.Format("20060102_150405"))
}

// DatedSnapshotKey builds the object key for a date-gated snapshot: the
// business date identifies the slice, the timestamp keeps keys unique.
func DatedSnapshotKey(table, name string, day, ts time.Time) string {
	return fmt.Sprintf("%s/%s_%s_%s.parquet",
		table, name, day.Format("2006-01-02"), ts.Format("20060102_150405"))
}

// Config configures the storage backend.
type Config struct {
	Backend string // "s3" | "local"

	// S3-compatible (also MinIO, B2, R2)
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string

	// Local filesystem
	LocalDir string
}

// NewObjectStore creates a storage backend based on configuration.
func NewObjectStore(ctx context.Context, cfg Config) (ObjectStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local":
		if cfg.LocalDir == "" {
			return nil, fmt.Errorf("LocalDir required for local backend")
		}
		return NewLocalStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
