// Package metrics provides Prometheus metrics for the lakehouse ingestor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the ingestor.
type Metrics struct {
	// Run metrics
	RunsCompleted *prometheus.CounterVec
	RunsSkipped   *prometheus.CounterVec
	RunsFailed    *prometheus.CounterVec

	// Upload metrics
	ObjectsUploaded *prometheus.CounterVec
	RowsIngested    *prometheus.CounterVec

	// Timing metrics
	ConvertDuration *prometheus.HistogramVec
	UploadDuration  *prometheus.HistogramVec

	// Size metrics
	ObjectRows  *prometheus.HistogramVec
	ObjectBytes *prometheus.HistogramVec

	// Progress
	LastIngestedDate *prometheus.GaugeVec

	// Error metrics
	DatasetErrors *prometheus.CounterVec
	StorageErrors *prometheus.CounterVec
}

var defaultMetrics *Metrics

// Init initializes the metrics package with global metrics.
// Call this once at startup.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "lakehouse_ingestor"
	}

	m := &Metrics{
		RunsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of ingestion runs that uploaded data",
			},
			[]string{"table"},
		),
		RunsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_skipped_total",
				Help:      "Total number of runs with no rows for the cursor date",
			},
			[]string{"table"},
		),
		RunsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_failed_total",
				Help:      "Total number of failed ingestion runs",
			},
			[]string{"table"},
		),
		ObjectsUploaded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "objects_uploaded_total",
				Help:      "Total number of Parquet objects uploaded",
			},
			[]string{"table", "bucket"},
		),
		RowsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_ingested_total",
				Help:      "Total number of rows written to storage",
			},
			[]string{"table", "bucket"},
		),
		ConvertDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "convert_duration_seconds",
				Help:      "Time to encode a day of rows to Parquet",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"table"},
		),
		UploadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upload_duration_seconds",
				Help:      "Time to upload a Parquet object to storage",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"table", "bucket"},
		),
		ObjectRows: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "object_rows",
				Help:      "Number of rows per uploaded object",
				Buckets:   prometheus.ExponentialBuckets(10, 2, 14), // 10 to ~80k
			},
			[]string{"table"},
		),
		ObjectBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "object_bytes",
				Help:      "Size of uploaded objects in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 15), // 1KB to ~16MB
			},
			[]string{"table"},
		),
		LastIngestedDate: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_ingested_date_seconds",
				Help:      "Unix timestamp of the last date uploaded to storage",
			},
			[]string{"table"},
		),
		DatasetErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_errors_total",
				Help:      "Total number of dataset read errors",
			},
			[]string{"table"},
		),
		StorageErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_errors_total",
				Help:      "Total number of storage write errors",
			},
			[]string{"backend"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics instance.
// Returns nil if Init has not been called.
func Get() *Metrics {
	return defaultMetrics
}

// StartServer starts an HTTP server for Prometheus metrics scraping.
// Blocks until the server exits.
func StartServer(address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return http.ListenAndServe(address, mux)
}

// IncRunsCompleted increments the completed runs counter.
func (m *Metrics) IncRunsCompleted(table string) {
	m.RunsCompleted.WithLabelValues(table).Inc()
}

// IncRunsSkipped increments the skipped runs counter.
func (m *Metrics) IncRunsSkipped(table string) {
	m.RunsSkipped.WithLabelValues(table).Inc()
}

// IncRunsFailed increments the failed runs counter.
func (m *Metrics) IncRunsFailed(table string) {
	m.RunsFailed.WithLabelValues(table).Inc()
}

// IncObjectsUploaded increments the uploaded objects counter.
func (m *Metrics) IncObjectsUploaded(table, bucket string) {
	m.ObjectsUploaded.WithLabelValues(table, bucket).Inc()
}

// AddRowsIngested adds to the ingested rows counter.
func (m *Metrics) AddRowsIngested(table, bucket string, rows float64) {
	m.RowsIngested.WithLabelValues(table, bucket).Add(rows)
}

// ObserveConvertDuration records the Parquet encoding time.
func (m *Metrics) ObserveConvertDuration(table string, seconds float64) {
	m.ConvertDuration.WithLabelValues(table).Observe(seconds)
}

// ObserveUploadDuration records the object upload time.
func (m *Metrics) ObserveUploadDuration(table, bucket string, seconds float64) {
	m.UploadDuration.WithLabelValues(table, bucket).Observe(seconds)
}

// ObserveObjectRows records the number of rows in an uploaded object.
func (m *Metrics) ObserveObjectRows(table string, rows float64) {
	m.ObjectRows.WithLabelValues(table).Observe(rows)
}

// ObserveObjectBytes records the size of an uploaded object in bytes.
func (m *Metrics) ObserveObjectBytes(table string, bytes float64) {
	m.ObjectBytes.WithLabelValues(table).Observe(bytes)
}

// SetLastIngestedDate sets the last uploaded date as a unix timestamp.
func (m *Metrics) SetLastIngestedDate(table string, ts float64) {
	m.LastIngestedDate.WithLabelValues(table).Set(ts)
}

// IncDatasetErrors increments the dataset errors counter.
func (m *Metrics) IncDatasetErrors(table string) {
	m.DatasetErrors.WithLabelValues(table).Inc()
}

// IncStorageErrors increments the storage errors counter.
func (m *Metrics) IncStorageErrors(backend string) {
	m.StorageErrors.WithLabelValues(backend).Inc()
}
