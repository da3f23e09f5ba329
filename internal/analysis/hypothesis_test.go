package analysis

import (
	"math"
	"strings"
	"testing"

	"owlbench/domain/verdict"
)

// TestCompare_ClearSeparation covers the canonical two-reasoner case: small
// symmetric groups far apart routed onto a parametric test.
func TestCompare_ClearSeparation(t *testing.T) {
	a := []float64{100, 102, 98, 101, 99}
	b := []float64{150, 155, 148, 152, 151}

	result := Compare("SysA", "SysB", "classify", a, b, 0.05)

	if result.TestType != verdict.TestTTest && result.TestType != verdict.TestWelchTTest {
		t.Fatalf("expected parametric test, got %s", result.TestType)
	}
	if result.PValue >= 0.001 {
		t.Errorf("expected p < 0.001, got %g", result.PValue)
	}
	if result.EffectSize <= 2 {
		t.Errorf("expected Cohen's d > 2, got %f", result.EffectSize)
	}
	if !result.Significant {
		t.Error("expected significant result")
	}
	if !strings.Contains(result.Interpretation, "SysA is significantly faster than SysB") {
		t.Errorf("interpretation wrong: %q", result.Interpretation)
	}
	if result.MeanDifference >= 0 {
		t.Errorf("SysA is faster, mean difference should be negative: %f", result.MeanDifference)
	}
	if result.CILow > result.MeanDifference || result.CIHigh < result.MeanDifference {
		t.Errorf("CI [%f, %f] must bracket the mean difference %f", result.CILow, result.CIHigh, result.MeanDifference)
	}
	t.Logf("test=%s t=%.3f p=%.3g d=%.2f ci=[%.2f, %.2f]",
		result.TestType, result.Statistic, result.PValue, result.EffectSize, result.CILow, result.CIHigh)
}

func TestCompare_InsufficientData(t *testing.T) {
	result := Compare("SysA", "SysB", "classify", []float64{100}, []float64{150, 151, 152}, 0.05)

	if result.TestType != verdict.TestInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", result.TestType)
	}
	if result.PValue != 1.0 {
		t.Errorf("insufficient comparisons report p=1, got %f", result.PValue)
	}
	if result.Significant {
		t.Error("insufficient comparisons are never significant")
	}
	if !strings.Contains(result.Interpretation, "insufficient data") {
		t.Errorf("interpretation wrong: %q", result.Interpretation)
	}
}

func TestCompare_SymmetryUpToSign(t *testing.T) {
	a := normalSample(20, 100, 4)
	b := normalSample(20, 110, 4)

	ab := Compare("SysA", "SysB", "query", a, b, 0.05)
	ba := Compare("SysB", "SysA", "query", b, a, 0.05)

	if ab.TestType != ba.TestType {
		t.Fatalf("test type should not depend on order: %s vs %s", ab.TestType, ba.TestType)
	}
	if !approxEqual(ab.PValue, ba.PValue, 1e-9) {
		t.Errorf("p-value should be order independent: %g vs %g", ab.PValue, ba.PValue)
	}
	if !approxEqual(ab.MeanDifference, -ba.MeanDifference, 1e-9) {
		t.Errorf("mean difference should flip sign: %f vs %f", ab.MeanDifference, ba.MeanDifference)
	}
	if ab.TestType != verdict.TestMannWhitneyU {
		if !approxEqual(ab.EffectSize, ba.EffectSize, 1e-9) {
			t.Errorf("Cohen's d is a magnitude: %f vs %f", ab.EffectSize, ba.EffectSize)
		}
	}
}

func TestCompare_UnequalVarianceRoutesToWelch(t *testing.T) {
	a := normalSample(40, 100, 1)
	b := normalSample(40, 105, 25)

	result := Compare("SysA", "SysB", "classify", a, b, 0.05)

	if result.TestType != verdict.TestWelchTTest {
		t.Errorf("expected welch_ttest for unequal variances, got %s", result.TestType)
	}
}

func TestCompare_NonNormalRoutesToMannWhitney(t *testing.T) {
	// Squared draws give strongly skewed timing-like groups.
	a := make([]float64, 40)
	b := make([]float64, 40)
	for i := range a {
		z := randNorm()
		a[i] = z*z*10 + 1
		z = randNorm()
		b[i] = z*z*10 + 50
	}

	result := Compare("SysA", "SysB", "classify", a, b, 0.05)

	if result.TestType != verdict.TestMannWhitneyU {
		t.Fatalf("expected mann_whitney_u for skewed groups, got %s", result.TestType)
	}
	if !result.Significant {
		t.Errorf("shifted groups should differ significantly, p=%g", result.PValue)
	}
	// Rank-biserial approximation stays in [-0.5, 0.5].
	if result.EffectSize < -0.5 || result.EffectSize > 0.5 {
		t.Errorf("rank-biserial approximation out of range: %f", result.EffectSize)
	}
}

func TestCompare_TestSelectionScaleInvariant(t *testing.T) {
	a := normalSample(15, 100, 5)
	b := normalSample(15, 120, 5)

	scale := func(values []float64, k float64) []float64 {
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v * k
		}
		return out
	}

	base := Compare("SysA", "SysB", "classify", a, b, 0.05)
	scaled := Compare("SysA", "SysB", "classify", scale(a, 1000), scale(b, 1000), 0.05)

	if base.TestType != scaled.TestType {
		t.Errorf("unit change altered test selection: %s vs %s", base.TestType, scaled.TestType)
	}
	if !approxEqual(base.PValue, scaled.PValue, 1e-6) {
		t.Errorf("unit change altered p-value: %g vs %g", base.PValue, scaled.PValue)
	}
}

func TestMannWhitneyU_HandlesTies(t *testing.T) {
	a := []float64{1, 2, 2, 3, 3, 3}
	b := []float64{3, 4, 4, 5, 5, 6}

	u, p := mannWhitneyU(a, b)

	if u < 0 || u > float64(len(a)*len(b)) {
		t.Errorf("U out of range: %f", u)
	}
	if p < 0 || p > 1 {
		t.Errorf("p out of range: %g", p)
	}
	if math.IsNaN(p) {
		t.Error("tie correction produced NaN")
	}
}

func TestMannWhitneyU_IdenticalGroups(t *testing.T) {
	a := []float64{5, 5, 5, 5}
	b := []float64{5, 5, 5, 5}

	_, p := mannWhitneyU(a, b)
	if p != 1.0 {
		t.Errorf("identical constant groups should report p=1, got %g", p)
	}
}

func TestTiedRanks_AveragesAndCorrection(t *testing.T) {
	ranks, tieSum := tiedRanks([]float64{10, 20, 20, 30})

	want := []float64{1, 2.5, 2.5, 4}
	for i, r := range ranks {
		if !approxEqual(r, want[i], 1e-12) {
			t.Errorf("rank[%d]: expected %f, got %f", i, want[i], r)
		}
	}
	// One tie group of size 2: 2^3 - 2 = 6.
	if tieSum != 6 {
		t.Errorf("tie correction: expected 6, got %f", tieSum)
	}
}

func TestConfidenceInterval_DegenerateSpread(t *testing.T) {
	low, high := confidenceInterval(10, 7, 0, 0, 5, 5)
	if low != 3 || high != 3 {
		t.Errorf("zero spread should collapse the CI onto the difference: [%f, %f]", low, high)
	}
}
