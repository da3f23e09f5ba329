package memfile

import (
	"context"
	"encoding/json"
	"os"

	"owlbench/domain/bench"
	"owlbench/internal/errors"
	"owlbench/ports"
)

// Profiler reads memory metrics from the JSON file the external sampling
// harness writes. File layout: {"suite": {"system": {peak, average, ...}}}.
type Profiler struct {
	path string
}

// NewProfiler creates a file-backed memory profiler
func NewProfiler(path string) *Profiler {
	return &Profiler{path: path}
}

var _ ports.MemoryProfiler = (*Profiler)(nil)

// MetricsForSuite returns the metrics recorded for the named suite. A
// missing file or absent suite yields an empty map, not an error: memory
// profiling is optional and its absence only zeroes the efficiency term.
func (p *Profiler) MetricsForSuite(ctx context.Context, suiteName string) (map[string]bench.MemoryMetrics, error) {
	if p.path == "" {
		return map[string]bench.MemoryMetrics{}, nil
	}

	raw, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return map[string]bench.MemoryMetrics{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read memory metrics file %s", p.path)
	}

	var bySuite map[string]map[string]bench.MemoryMetrics
	if err := json.Unmarshal(raw, &bySuite); err != nil {
		return nil, errors.Wrapf(err, "malformed memory metrics file %s", p.path)
	}

	metrics, ok := bySuite[suiteName]
	if !ok {
		return map[string]bench.MemoryMetrics{}, nil
	}
	return metrics, nil
}
