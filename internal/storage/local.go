package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// metaDir holds metadata sidecar files inside each bucket directory.
// It is invisible to List and BucketStats.
const metaDir = ".meta"

// LocalStore keeps buckets as directories under a base directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a new local filesystem store.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// EnsureBucket creates the bucket directory if absent.
func (s *LocalStore) EnsureBucket(ctx context.Context, bucket string) error {
	dir := filepath.Join(s.baseDir, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Put writes the object at key atomically using temp file + rename.
func (s *LocalStore) Put(ctx context.Context, bucket, key string, data []byte, meta map[string]string) error {
	path := filepath.Join(s.baseDir, bucket, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s/%s: %w", bucket, key, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename %s to %s: %w", tempPath, path, err)
	}

	if len(meta) > 0 {
		if err := s.writeMeta(bucket, key, meta); err != nil {
			return err
		}
	}
	return nil
}

func (s *LocalStore) writeMeta(bucket, key string, meta map[string]string) error {
	path := filepath.Join(s.baseDir, bucket, metaDir, filepath.FromSlash(key)+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metadata directory for %s/%s: %w", bucket, key, err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata for %s/%s: %w", bucket, key, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata for %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Meta reads the metadata sidecar for an object. Returns nil when the
// object was stored without metadata.
func (s *LocalStore) Meta(bucket, key string) (map[string]string, error) {
	path := filepath.Join(s.baseDir, bucket, metaDir, filepath.FromSlash(key)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata for %s/%s: %w", bucket, key, err)
	}
	var meta map[string]string
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s/%s: %w", bucket, key, err)
	}
	return meta, nil
}

// Get reads the object at key.
func (s *LocalStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	path := filepath.Join(s.baseDir, bucket, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// List returns the keys under prefix, ordered by key.
func (s *LocalStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	root := filepath.Join(s.baseDir, bucket)

	var keys []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == metaDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, err)
	}

	sort.Strings(keys)
	return keys, nil
}

// BucketStats returns per-bucket object count and aggregate size.
func (s *LocalStore) BucketStats(ctx context.Context) ([]BucketStats, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read base directory: %w", err)
	}

	var stats []BucketStats
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bucket := entry.Name()
		st := BucketStats{Bucket: bucket}

		root := filepath.Join(s.baseDir, bucket)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == metaDir {
					return filepath.SkipDir
				}
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			st.Objects++
			st.Bytes += info.Size()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk bucket %s: %w", bucket, err)
		}

		stats = append(stats, st)
	}
	return stats, nil
}

// Close is a no-op for local storage.
func (s *LocalStore) Close() error {
	return nil
}
