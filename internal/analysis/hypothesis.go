package analysis

import (
	"fmt"
	"math"
	"sort"

	"owlbench/domain/verdict"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// minComparisonN is the smallest per-group sample a two-sample test will
// accept. Below it the comparison is recorded as insufficient, never
// silently dropped.
const minComparisonN = 3

// Compare selects and runs the appropriate two-sample test for the ordered
// pair (systemA, systemB) on one operation. Test selection follows the
// assumption checks: pooled t-test when both groups are normal with equal
// variances, Welch's t-test when normal with unequal variances, and the
// two-sided Mann-Whitney U otherwise. The 95% confidence interval for the
// mean difference is computed via Welch-Satterthwaite degrees of freedom
// regardless of which test ran.
func Compare(systemA, systemB, operation string, a, b []float64, alpha float64) verdict.ComparisonResult {
	result := verdict.ComparisonResult{
		SystemA:   systemA,
		SystemB:   systemB,
		Operation: operation,
	}

	if len(a) < minComparisonN || len(b) < minComparisonN {
		result.TestType = verdict.TestInsufficientData
		result.PValue = 1.0
		result.Interpretation = fmt.Sprintf(
			"insufficient data to compare %s and %s for %s (need at least %d observations per system)",
			systemA, systemB, operation, minComparisonN)
		return result
	}

	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA := sampleVariance(a)
	varB := sampleVariance(b)
	nA := float64(len(a))
	nB := float64(len(b))

	check := CheckAssumptions(a, b, alpha)

	switch {
	case check.NormalA && check.NormalB && check.EqualVariance:
		result.TestType = verdict.TestTTest
		result.Statistic, result.PValue = pooledTTest(meanA, meanB, varA, varB, nA, nB)
		result.EffectSize = cohensD(meanA, meanB, varA, varB, nA, nB)
	case check.NormalA && check.NormalB:
		result.TestType = verdict.TestWelchTTest
		result.Statistic, result.PValue = welchTTest(meanA, meanB, varA, varB, nA, nB)
		result.EffectSize = cohensD(meanA, meanB, varA, varB, nA, nB)
	default:
		result.TestType = verdict.TestMannWhitneyU
		var u float64
		u, result.PValue = mannWhitneyU(a, b)
		result.Statistic = u
		// Rank-biserial approximation carried over from the original
		// harness; downstream reports depend on this exact formula.
		result.EffectSize = u/(nA*nB) - 0.5
	}

	result.MeanDifference = meanA - meanB
	result.CILow, result.CIHigh = confidenceInterval(meanA, meanB, varA, varB, nA, nB)
	result.Significant = result.PValue < alpha
	result.Interpretation = interpret(systemA, systemB, operation, result.MeanDifference, result.Significant)

	return result
}

// pooledTTest runs the independent two-sample t-test with pooled variance.
func pooledTTest(meanA, meanB, varA, varB, nA, nB float64) (statistic, pValue float64) {
	df := nA + nB - 2
	pooled := ((nA-1)*varA + (nB-1)*varB) / df
	se := math.Sqrt(pooled * (1/nA + 1/nB))
	if se == 0 {
		if meanA == meanB {
			return 0, 1.0
		}
		// Identical constant groups with different means: maximally
		// separated, but there is no spread to base a statistic on.
		return 0, 0.0
	}

	t := (meanA - meanB) / se
	return t, twoSidedStudentsT(t, df)
}

// welchTTest runs the unequal-variance t-test with Welch-Satterthwaite df.
func welchTTest(meanA, meanB, varA, varB, nA, nB float64) (statistic, pValue float64) {
	se := math.Sqrt(varA/nA + varB/nB)
	if se == 0 {
		if meanA == meanB {
			return 0, 1.0
		}
		return 0, 0.0
	}

	t := (meanA - meanB) / se
	df := welchSatterthwaiteDF(varA, varB, nA, nB)
	return t, twoSidedStudentsT(t, df)
}

func twoSidedStudentsT(t, df float64) float64 {
	if df <= 0 {
		return 1.0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p
}

// welchSatterthwaiteDF approximates the degrees of freedom for the variance
// sum. Degenerate inputs (both variances zero) fall back to the smaller
// group's df.
func welchSatterthwaiteDF(varA, varB, nA, nB float64) float64 {
	sA := varA / nA
	sB := varB / nB
	den := sA*sA/(nA-1) + sB*sB/(nB-1)
	if den == 0 {
		return math.Min(nA, nB) - 1
	}
	return (sA + sB) * (sA + sB) / den
}

// cohensD is the standardized mean difference in pooled-standard-deviation
// units, reported as a magnitude. A zero pooled deviation yields 0.
func cohensD(meanA, meanB, varA, varB, nA, nB float64) float64 {
	pooled := math.Sqrt(((nA-1)*varA + (nB-1)*varB) / (nA + nB - 2))
	if pooled == 0 {
		return 0
	}
	return math.Abs(meanA-meanB) / pooled
}

// mannWhitneyU computes the two-sided Mann-Whitney U test using tie-averaged
// ranks and the normal approximation with tie and continuity corrections.
// The returned statistic is U for group a.
func mannWhitneyU(a, b []float64) (u, pValue float64) {
	nA := float64(len(a))
	nB := float64(len(b))
	n := nA + nB

	combined := make([]float64, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)

	ranks, tieSum := tiedRanks(combined)

	rankSumA := 0.0
	for i := range a {
		rankSumA += ranks[i]
	}

	u = rankSumA - nA*(nA+1)/2

	mu := nA * nB / 2
	sigma2 := nA * nB / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if sigma2 <= 0 {
		return u, 1.0
	}

	diff := u - mu
	switch {
	case diff > 0.5:
		diff -= 0.5
	case diff < -0.5:
		diff += 0.5
	default:
		diff = 0
	}

	z := diff / math.Sqrt(sigma2)
	p := 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}
	return u, p
}

// tiedRanks assigns 1-based ranks with ties averaged, and returns the tie
// correction term sum(t^3 - t) over tie groups.
func tiedRanks(values []float64) (ranks []float64, tieSum float64) {
	n := len(values)
	ranks = make([]float64, n)
	if n == 0 {
		return ranks, 0
	}

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range values {
		pairs[i] = pair{value: v, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		if groupSize > 1 {
			t := float64(groupSize)
			tieSum += t*t*t - t
		}
		i = j
	}

	return ranks, tieSum
}

// confidenceInterval computes the 95% CI for the mean difference via the
// Welch-Satterthwaite t quantile. A zero standard error collapses the
// interval onto the mean difference itself.
func confidenceInterval(meanA, meanB, varA, varB, nA, nB float64) (low, high float64) {
	meanDiff := meanA - meanB
	se := math.Sqrt(varA/nA + varB/nB)
	if se == 0 {
		return meanDiff, meanDiff
	}

	df := welchSatterthwaiteDF(varA, varB, nA, nB)
	if df <= 0 {
		return meanDiff, meanDiff
	}

	tCrit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(0.975)
	margin := tCrit * se
	return meanDiff - margin, meanDiff + margin
}

// interpret derives the comparative conclusion; lower values mean faster.
func interpret(systemA, systemB, operation string, meanDiff float64, significant bool) string {
	if !significant {
		return fmt.Sprintf("No significant difference between %s and %s for %s", systemA, systemB, operation)
	}
	direction := "slower"
	if meanDiff < 0 {
		direction = "faster"
	}
	return fmt.Sprintf("%s is significantly %s than %s for %s", systemA, direction, systemB, operation)
}
