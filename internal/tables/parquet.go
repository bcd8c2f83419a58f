package tables

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet marshals rows into a snappy-compressed parquet payload.
func WriteParquet[T any](rows []T) ([]byte, error) {
	buf := new(bytes.Buffer)

	w := parquet.NewGenericWriter[T](buf, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(rows); err != nil {
		w.Close()
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadParquet unmarshals a parquet payload produced by WriteParquet.
func ReadParquet[T any](data []byte) ([]T, error) {
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}
	return rows, nil
}

// ColumnsOf returns the leaf column names of the parquet schema for T.
func ColumnsOf[T any]() []string {
	schema := parquet.SchemaOf(new(T))
	var cols []string
	for _, path := range schema.Columns() {
		if len(path) > 0 {
			cols = append(cols, path[len(path)-1])
		}
	}
	return cols
}

// ComputeChecksum computes a SHA256 checksum for the given data.
func ComputeChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// VerifyChecksum verifies that data matches the expected checksum.
func VerifyChecksum(data []byte, expected string) bool {
	return ComputeChecksum(data) == expected
}
