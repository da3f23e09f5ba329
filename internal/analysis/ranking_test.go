package analysis

import (
	"testing"

	"owlbench/domain/bench"
)

func obsFor(system string, values []float64, failures int) []bench.RawObservation {
	out := make([]bench.RawObservation, 0, len(values)+failures)
	for _, v := range values {
		out = append(out, bench.RawObservation{SystemID: system, Operation: "classify", Value: v, Success: true})
	}
	for i := 0; i < failures; i++ {
		out = append(out, bench.RawObservation{SystemID: system, Operation: "classify", Success: false})
	}
	return out
}

func TestRank_OrdersByOverallScore(t *testing.T) {
	var obs []bench.RawObservation
	obs = append(obs, obsFor("fast", []float64{1, 1, 1}, 0)...)
	obs = append(obs, obsFor("slow", []float64{100, 100, 100}, 0)...)

	table := Rank(obs, map[string]float64{"fast": 0.9, "slow": 0.5})

	if len(table.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(table.Entries))
	}
	if table.Entries[0].SystemID != "fast" || table.Entries[0].OverallRank != 1 {
		t.Errorf("fast system should rank first: %+v", table.Entries[0])
	}
	if table.Entries[1].SystemID != "slow" || table.Entries[1].OverallRank != 2 {
		t.Errorf("slow system should rank second: %+v", table.Entries[1])
	}
}

func TestRank_TieBrokenAlphabetically(t *testing.T) {
	// B and A get identical observations and efficiency, C is worse.
	var obs []bench.RawObservation
	obs = append(obs, obsFor("B", []float64{2, 2, 2}, 0)...)
	obs = append(obs, obsFor("A", []float64{2, 2, 2}, 0)...)
	obs = append(obs, obsFor("C", []float64{50, 50, 50}, 2)...)

	table := Rank(obs, map[string]float64{"A": 0.8, "B": 0.8, "C": 0.3})

	if table.Entries[0].SystemID != "A" || table.Entries[0].OverallRank != 1 {
		t.Errorf("tie should break alphabetically, first entry: %+v", table.Entries[0])
	}
	if table.Entries[1].SystemID != "B" || table.Entries[1].OverallRank != 2 {
		t.Errorf("B should rank second: %+v", table.Entries[1])
	}
	if table.Entries[2].SystemID != "C" || table.Entries[2].OverallRank != 3 {
		t.Errorf("C should rank last: %+v", table.Entries[2])
	}
}

func TestRank_SubScores(t *testing.T) {
	obs := obsFor("sys", []float64{4, 4, 4, 4}, 4)

	table := Rank(obs, map[string]float64{"sys": 0.6})

	e := table.Entries[0]
	// Mean time 4 over successes: performance = 1/(4+1).
	if !approxEqual(e.PerformanceScore, 0.2, 1e-12) {
		t.Errorf("performance: expected 0.2, got %f", e.PerformanceScore)
	}
	// 4 successes out of 8 attempts.
	if !approxEqual(e.ReliabilityScore, 0.5, 1e-12) {
		t.Errorf("reliability: expected 0.5, got %f", e.ReliabilityScore)
	}
	if e.EfficiencyScore != 0.6 {
		t.Errorf("efficiency: expected 0.6, got %f", e.EfficiencyScore)
	}
	want := 0.4*0.2 + 0.3*0.6 + 0.3*0.5
	if !approxEqual(e.OverallScore, want, 1e-12) {
		t.Errorf("overall: expected %f, got %f", want, e.OverallScore)
	}
}

func TestRank_AllFailuresScoresZeroPerformance(t *testing.T) {
	table := Rank(obsFor("broken", nil, 5), nil)

	e := table.Entries[0]
	if e.PerformanceScore != 0 {
		t.Errorf("no successful runs means zero performance, got %f", e.PerformanceScore)
	}
	if e.ReliabilityScore != 0 {
		t.Errorf("all failures means zero reliability, got %f", e.ReliabilityScore)
	}
}

func TestRank_MissingEfficiencyDefaultsZero(t *testing.T) {
	table := Rank(obsFor("sys", []float64{1, 2, 3}, 0), nil)

	if table.Entries[0].EfficiencyScore != 0 {
		t.Errorf("unknown system should score 0 efficiency, got %f", table.Entries[0].EfficiencyScore)
	}
}
