package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Layers names the three standard lakehouse buckets. Only the bronze
// layer is written by this repository; silver and gold belong to the
// downstream transformation tooling but are provisioned here so the
// whole namespace exists from the first run.
type Layers struct {
	Bronze string `yaml:"bronze"`
	Silver string `yaml:"silver"`
	Gold   string `yaml:"gold"`
}

// DefaultLayers returns the standard bucket names.
func DefaultLayers() Layers {
	return Layers{
		Bronze: "bronze",
		Silver: "silver",
		Gold:   "gold",
	}
}

// All returns the bucket names in layer order.
func (l Layers) All() []string {
	return []string{l.Bronze, l.Silver, l.Gold}
}

// EnsureLayers creates the three standard buckets. Safe to call on
// every run.
func EnsureLayers(ctx context.Context, store ObjectStore, layers Layers) error {
	log := slog.With("component", "storage")
	for _, bucket := range layers.All() {
		if err := store.EnsureBucket(ctx, bucket); err != nil {
			return fmt.Errorf("ensure layer bucket: %w", err)
		}
		log.Debug("ensured bucket", "bucket", bucket)
	}
	return nil
}
