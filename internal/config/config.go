// Package config loads the ingestor configuration from a YAML file with
// environment-variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/retail-lakehouse/ingestor/internal/cursor"
	"github.com/retail-lakehouse/ingestor/internal/storage"
)

type Config struct {
	Logging LoggingConfig  `yaml:"logging"`
	Storage StorageConfig  `yaml:"storage"`
	Layers  storage.Layers `yaml:"layers"`
	Dataset DatasetConfig  `yaml:"dataset"`
	Ingest  IngestConfig   `yaml:"ingest"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
}

type StorageConfig struct {
	Backend   string `yaml:"backend"` // "s3" or "local"
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	LocalDir  string `yaml:"local_dir"`
}

type DatasetConfig struct {
	URL      string `yaml:"url"`
	DataDir  string `yaml:"data_dir"`
	Workbook string `yaml:"workbook"`
}

type IngestConfig struct {
	Table      string `yaml:"table"`
	CursorFile string `yaml:"cursor_file"`
	StartDate  string `yaml:"start_date"`
	EndDate    string `yaml:"end_date"` // exclusive terminal date
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns the configuration matching the local MinIO demo setup.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
		Storage: StorageConfig{
			Backend:   "s3",
			Endpoint:  "http://localhost:9000",
			Region:    "us-east-1",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			LocalDir:  "./data/lakehouse",
		},
		Layers: storage.DefaultLayers(),
		Dataset: DatasetConfig{
			URL:      "https://archive.ics.uci.edu/static/public/502/online+retail+ii.zip",
			DataDir:  "./data",
			Workbook: "./data/online_retail_II.xlsx",
		},
		Ingest: IngestConfig{
			Table:      "online_retail_ii",
			CursorFile: "./data/last_processed_date.txt",
			StartDate:  "2010-12-01",
			EndDate:    "2011-12-10",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9102",
		},
	}
}

// Load reads the configuration file at path, applies environment
// overrides and validates the result. An empty path loads defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv folds environment variables over the file values. The MinIO
// variable names match the docker-compose setup used for the demo.
func (c *Config) applyEnv() {
	if v := os.Getenv("MINIO_ROOT_USER"); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv("MINIO_ROOT_PASSWORD"); v != "" {
		c.Storage.SecretKey = v
	}
	if v := os.Getenv("LAKEHOUSE_S3_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv("LAKEHOUSE_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LAKEHOUSE_DATA_DIR"); v != "" {
		c.Dataset.DataDir = v
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "s3", "local":
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	if _, err := c.Ingest.Range(); err != nil {
		return err
	}
	return nil
}

// StoreConfig maps the storage section onto the gateway config.
func (c Config) StoreConfig() storage.Config {
	return storage.Config{
		Backend:   c.Storage.Backend,
		Endpoint:  c.Storage.Endpoint,
		Region:    c.Storage.Region,
		AccessKey: c.Storage.AccessKey,
		SecretKey: c.Storage.SecretKey,
		LocalDir:  c.Storage.LocalDir,
	}
}

// Range parses the configured ingestion date bounds.
func (i IngestConfig) Range() (cursor.Range, error) {
	start, err := time.Parse(cursor.DateFormat, i.StartDate)
	if err != nil {
		return cursor.Range{}, fmt.Errorf("parse start_date %q: %w", i.StartDate, err)
	}
	end, err := time.Parse(cursor.DateFormat, i.EndDate)
	if err != nil {
		return cursor.Range{}, fmt.Errorf("parse end_date %q: %w", i.EndDate, err)
	}
	if !start.Before(end) {
		return cursor.Range{}, fmt.Errorf("start_date %s must be before end_date %s", i.StartDate, i.EndDate)
	}
	return cursor.Range{Start: start, End: end}, nil
}
