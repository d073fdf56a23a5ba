// Package runtime coordinates concurrency guardrails for the comparison
// engine: a cap on simultaneously in-flight comparisons, and a bounded
// worker pool (Parallel) that cmd/comparecsv uses to fan out batch
// comparisons of many candidate files while still producing a
// deterministic, order-independent result.
package runtime

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/extest/tablesim/config"
)

// Limits captures the concurrency and resource guardrails configured for
// a transport (CLI, MCP, HTTP).
type Limits struct {
	MaxConcurrentComparisons int
	MaxParallelWorkers       int

	MaxInputBytes int64
	MaxCellsTotal int

	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with sensible fallbacks when values are unset.
func NewLimits(maxConcurrentComparisons, maxParallelWorkers int) Limits {
	if maxConcurrentComparisons <= 0 {
		maxConcurrentComparisons = config.DefaultMaxConcurrentComparisons
	}
	if maxParallelWorkers <= 0 {
		maxParallelWorkers = config.DefaultMaxParallelWorkers
	}

	return Limits{
		MaxConcurrentComparisons: maxConcurrentComparisons,
		MaxParallelWorkers:       maxParallelWorkers,
		MaxInputBytes:            config.DefaultMaxInputBytes,
		MaxCellsTotal:            config.DefaultMaxCellsTotal,
		OperationTimeout:         config.DefaultOperationTimeout,
		AcquireRequestTimeout:    config.DefaultAcquireRequestTimeout,
	}
}

// Controller gates concurrent comparisons and hands out bounded worker
// slots for Parallel.
type Controller struct {
	limits             Limits
	comparisonSemaphore *semaphore.Weighted
	workerSemaphore     *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:              limits,
		comparisonSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentComparisons)),
		workerSemaphore:     semaphore.NewWeighted(int64(limits.MaxParallelWorkers)),
	}
}

// AcquireComparison reserves capacity for an incoming comparison request.
func (c *Controller) AcquireComparison(ctx context.Context) error {
	return c.comparisonSemaphore.Acquire(ctx, 1)
}

// ReleaseComparison frees previously-acquired comparison capacity.
func (c *Controller) ReleaseComparison() {
	c.comparisonSemaphore.Release(1)
}

// Parallel runs fn(i) for i in [0,n) across at most MaxParallelWorkers
// goroutines and waits for all to finish. fn must write its result into a
// caller-owned, pre-sized slice at index i so the outcome does not depend
// on goroutine completion order (spec §5's determinism requirement).
func (c *Controller) Parallel(ctx context.Context, n int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	sem := c.workerSemaphore
	if sem == nil {
		sem = semaphore.NewWeighted(int64(c.limits.MaxParallelWorkers))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer sem.Release(1)
			fn(idx)
		}(i)
	}

	wg.Wait()
	return nil
}

// LimitsSnapshot exposes the configured guardrails for telemetry and discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
