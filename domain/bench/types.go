package bench

import (
	"fmt"
	"math"
	"strings"

	"owlbench/domain/core"
)

// RawObservation is one completed benchmark run as recorded by the external
// orchestrator. Value is the measured metric (typically wall time in ms).
// Scale is the input size the run was executed against (triple/axiom count),
// nil when the run had no meaningful scale dimension.
type RawObservation struct {
	SystemID  string   `json:"system_id"`
	Operation string   `json:"operation"`
	Scale     *float64 `json:"scale,omitempty"`
	Value     float64  `json:"value"`
	Success   bool     `json:"success"`
}

// Valid reports whether the observation carries a usable numeric value.
// Malformed records are skipped individually; the batch continues.
func (o RawObservation) Valid() bool {
	return !math.IsNaN(o.Value) && !math.IsInf(o.Value, 0)
}

// GroupKey identifies a (system, operation) observation group.
type GroupKey struct {
	SystemID  string
	Operation string
}

// String renders the key in the reporting form "system_operation".
func (k GroupKey) String() string {
	return k.SystemID + "_" + k.Operation
}

// MarshalText lets GroupKey serve as a JSON map key.
func (k GroupKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses "system_operation". Operations never contain
// underscores; system names may, so the split is on the last underscore.
func (k *GroupKey) UnmarshalText(text []byte) error {
	s := string(text)
	i := strings.LastIndex(s, "_")
	if i <= 0 || i == len(s)-1 {
		return fmt.Errorf("malformed group key %q", s)
	}
	k.SystemID = s[:i]
	k.Operation = s[i+1:]
	return nil
}

// Suite is a snapshot of collected observations handed to the analysis
// engine. The engine never mutates it.
type Suite struct {
	Name         string                    `json:"name"`
	CollectedAt  core.Timestamp            `json:"collected_at"`
	Observations []RawObservation          `json:"observations"`
	Environment  *EnvironmentSpecification `json:"environment,omitempty"`
}

// MemorySample is one point on a memory usage timeline.
type MemorySample struct {
	OffsetMs float64 `json:"offset_ms"`
	MemoryMB float64 `json:"memory_mb"`
}

// MemoryMetrics is the finished record produced by the external memory
// sampling collaborator. The analysis engine only derives the efficiency
// term from it.
type MemoryMetrics struct {
	PeakMemoryMB    float64        `json:"peak_memory_mb"`
	AverageMemoryMB float64        `json:"average_memory_mb"`
	Timeline        []MemorySample `json:"timeline,omitempty"`
}

// EfficiencyScore maps peak memory onto (0, 1], monotonically decreasing.
// A system peaking at 1 GiB scores 0.5; lighter systems score higher.
func (m MemoryMetrics) EfficiencyScore() float64 {
	if m.PeakMemoryMB <= 0 {
		return 1.0
	}
	return 1.0 / (1.0 + m.PeakMemoryMB/1024.0)
}

// EnvironmentSpecification describes the host the benchmarks ran on. It is
// collected externally and passed through unmodified for reporting; the
// analysis engine never inspects it.
type EnvironmentSpecification struct {
	OS           string  `json:"os,omitempty"`
	Arch         string  `json:"arch,omitempty"`
	CPUModel     string  `json:"cpu_model,omitempty"`
	CPUCores     int     `json:"cpu_cores,omitempty"`
	TotalRAMMB   float64 `json:"total_ram_mb,omitempty"`
	Runtime      string  `json:"runtime,omitempty"`
	Hostname     string  `json:"hostname,omitempty"`
	CollectorTag string  `json:"collector_tag,omitempty"`
}
