package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Rows materialized per table
	rowsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txgen_rows_generated_total",
			Help: "Total number of rows generated",
		},
		[]string{"table"},
	)

	// Time spent building and encoding one table of one thread
	tableBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txgen_table_build_duration_seconds",
			Help:    "Table generation and encoding latencies in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"table"},
	)

	// Final upload outcomes partitioned by table and status
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txgen_uploads_total",
			Help: "Total number of object uploads by final status",
		},
		[]string{"table", "status"},
	)

	// Every PutObject call, including retries
	uploadAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txgen_upload_attempts_total",
			Help: "Total number of upload attempts",
		},
		[]string{"table"},
	)

	uploadedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txgen_uploaded_bytes_total",
			Help: "Total number of bytes uploaded successfully",
		},
		[]string{"table"},
	)

	// Partition assignments by outcome: reused, assigned, map_created
	partitionAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txgen_partition_assignments_total",
			Help: "Total number of partition order assignments",
		},
		[]string{"outcome"},
	)

	referencePoolSyntheticTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "txgen_reference_pool_synthetic_total",
			Help: "Reference pool entries that fell back to a synthetic value",
		},
	)

	threadsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txgen_threads_in_progress",
			Help: "Number of worker threads currently running",
		},
	)
)
