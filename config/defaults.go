// Package config holds default runtime limits and guardrails for the
// comparison engine and its transports.
package config

import "time"

const (
	// Concurrency
	DefaultMaxConcurrentComparisons = 10
	DefaultMaxParallelWorkers       = 4

	// Input bounds
	DefaultMaxInputBytes = 64 * 1024 * 1024 // 64MB per table
	DefaultMaxCellsTotal = 5_000_000

	// Column mapping
	DefaultSampleSizeMapping = 256
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
)

const (
	// Cache: parsed-table handle TTL (internal/tables).
	DefaultTableIdleTTL       = 10 * time.Minute
	DefaultTableCleanupPeriod = time.Minute
)
