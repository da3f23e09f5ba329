package analysis

import (
	"reflect"
	"testing"

	"owlbench/domain/bench"
	"owlbench/domain/verdict"
)

func suiteFixture() bench.Suite {
	var obs []bench.RawObservation
	add := func(system string, scale float64, values ...float64) {
		for _, v := range values {
			obs = append(obs, bench.RawObservation{
				SystemID:  system,
				Operation: "classify",
				Scale:     floatPtr(scale),
				Value:     v,
				Success:   true,
			})
		}
	}
	add("elk", 100, 10, 11, 10.5, 10.2, 10.8)
	add("elk", 1000, 100, 104, 98)
	add("hermit", 100, 50, 52, 51, 49, 50.5)
	add("hermit", 1000, 2000, 2100, 1950)
	// A third system with a single run, enough to group but not compare.
	obs = append(obs, bench.RawObservation{
		SystemID: "pellet", Operation: "classify", Value: 30, Success: true,
	})

	return bench.Suite{
		Name:         "ore_2015",
		Observations: obs,
		Environment:  &bench.EnvironmentSpecification{OS: "linux", CPUCores: 8},
	}
}

func TestEngine_AnalyzeAssemblesAllSections(t *testing.T) {
	engine := NewEngine(0.05, nil)
	bundle := engine.Analyze(suiteFixture(), map[string]float64{"elk": 0.9, "hermit": 0.4})

	if bundle.SuiteName != "ore_2015" {
		t.Errorf("suite name lost: %q", bundle.SuiteName)
	}
	if bundle.Alpha != 0.05 {
		t.Errorf("alpha lost: %f", bundle.Alpha)
	}
	if len(bundle.Summaries) != 3 {
		t.Errorf("expected 3 group summaries, got %d", len(bundle.Summaries))
	}
	if len(bundle.Outliers) != 3 {
		t.Errorf("expected 3 outlier reports, got %d", len(bundle.Outliers))
	}
	// Three systems share the classify operation: 3 unordered pairs.
	if len(bundle.Comparisons) != 3 {
		t.Errorf("expected 3 comparisons, got %d", len(bundle.Comparisons))
	}
	if len(bundle.Complexity) != 3 {
		t.Errorf("every system gets a complexity profile, got %d", len(bundle.Complexity))
	}
	if len(bundle.Ranking.Entries) != 3 {
		t.Errorf("expected 3 ranking entries, got %d", len(bundle.Ranking.Entries))
	}
	if bundle.Environment == nil || bundle.Environment.OS != "linux" {
		t.Errorf("environment not passed through: %+v", bundle.Environment)
	}
}

func TestEngine_PairKeysLexicographic(t *testing.T) {
	engine := NewEngine(0.05, nil)
	bundle := engine.Analyze(suiteFixture(), nil)

	for _, key := range []string{
		"elk_vs_hermit_classify",
		"elk_vs_pellet_classify",
		"hermit_vs_pellet_classify",
	} {
		if _, ok := bundle.Comparisons[key]; !ok {
			t.Errorf("missing comparison key %q (have %v)", key, comparisonKeys(bundle))
		}
	}
}

func TestEngine_InsufficientPairsStillPresent(t *testing.T) {
	engine := NewEngine(0.05, nil)
	bundle := engine.Analyze(suiteFixture(), nil)

	result, ok := bundle.Comparisons["elk_vs_pellet_classify"]
	if !ok {
		t.Fatal("single-observation pair must still produce an entry")
	}
	if result.TestType != verdict.TestInsufficientData {
		t.Errorf("expected insufficient_data, got %s", result.TestType)
	}
}

func TestEngine_ComplexityPerSystem(t *testing.T) {
	engine := NewEngine(0.05, nil)
	bundle := engine.Analyze(suiteFixture(), nil)

	hermit := bundle.Complexity["hermit"]
	if !hermit.Fitted {
		t.Fatal("hermit has two scales and should fit")
	}
	if hermit.Exponent <= 1.0 {
		t.Errorf("hermit degrades superlinearly, exponent %f", hermit.Exponent)
	}

	elk := bundle.Complexity["elk"]
	if !elk.Fitted {
		t.Fatal("elk has two scales and should fit")
	}
	if elk.Exponent >= hermit.Exponent {
		t.Errorf("elk should scale better than hermit: %f vs %f", elk.Exponent, hermit.Exponent)
	}

	pellet, ok := bundle.Complexity["pellet"]
	if !ok {
		t.Fatal("unscaled systems still get a profile entry")
	}
	if pellet.Fitted {
		t.Error("pellet has no scale data and cannot be fitted")
	}
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(0.05, nil)
	suite := suiteFixture()
	efficiency := map[string]float64{"elk": 0.9, "hermit": 0.4, "pellet": 0.7}

	first := engine.Analyze(suite, efficiency)
	second := engine.Analyze(suite, efficiency)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input must produce an identical bundle")
	}
}

func TestNewEngine_RejectsBadAlpha(t *testing.T) {
	for _, alpha := range []float64{-0.1, 0, 1, 2} {
		engine := NewEngine(alpha, nil)
		if engine.SignificanceLevel() != DefaultSignificanceLevel {
			t.Errorf("alpha %f should fall back to default, got %f", alpha, engine.SignificanceLevel())
		}
	}
}

func comparisonKeys(bundle *verdict.Bundle) []string {
	keys := make([]string, 0, len(bundle.Comparisons))
	for k := range bundle.Comparisons {
		keys = append(keys, k)
	}
	return keys
}
