package ports

import (
	"context"

	"owlbench/domain/bench"
)

// MemoryProfiler supplies per-system memory metrics collected by the
// external sampling harness. The engine never samples memory itself; it only
// folds the derived efficiency scores into the ranking.
type MemoryProfiler interface {
	// MetricsForSuite returns the memory metrics recorded for each system
	// in the named suite. Systems without metrics are simply absent.
	MetricsForSuite(ctx context.Context, suiteName string) (map[string]bench.MemoryMetrics, error)
}
