package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// AssumptionCheck holds the distributional checks that drive test selection
// for one candidate pairwise comparison.
type AssumptionCheck struct {
	NormalA       bool
	NormalB       bool
	EqualVariance bool
}

// CheckAssumptions classifies both groups for normality and the pair for
// variance homogeneity against the given significance level.
func CheckAssumptions(a, b []float64, alpha float64) AssumptionCheck {
	return AssumptionCheck{
		NormalA:       IsNormal(a, alpha),
		NormalB:       IsNormal(b, alpha),
		EqualVariance: EqualVariance(a, b, alpha),
	}
}

// IsNormal classifies a group as normally distributed. Groups with fewer
// than 3 observations cannot be assessed and are conservatively classified
// non-normal, which routes the comparison onto the non-parametric path.
// Constant groups (zero spread) are likewise treated as non-normal.
func IsNormal(values []float64, alpha float64) bool {
	if len(values) < 3 {
		return false
	}
	p := normalityPValue(values)
	return p > alpha
}

// normalityPValue runs a skewness/kurtosis omnibus normality test:
// D'Agostino's K-squared for n >= 8, and a Jarque-Bera-style approximation
// for smaller groups where the K-squared transforms are unreliable.
func normalityPValue(values []float64) float64 {
	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationSample(values)
	if stdDev == 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return 0.0
	}

	if len(values) >= 8 {
		return dagostinoK2(values, mean, stdDev)
	}

	skewness := sampleSkewness(values, mean, stdDev)
	excess := sampleKurtosis(values, mean, stdDev) - 3

	testStat := math.Abs(skewness) + math.Abs(excess)/2
	chi2 := distuv.ChiSquared{K: 2}
	return 1 - chi2.CDF(testStat*testStat)
}

// dagostinoK2 computes the p-value of D'Agostino's K-squared statistic,
// combining the skewness transform with the Anscombe-Glynn kurtosis
// transform against a chi-squared distribution with 2 degrees of freedom.
func dagostinoK2(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))

	g1 := sampleSkewness(values, mean, stdDev)
	g2 := sampleKurtosis(values, mean, stdDev)

	// Skewness transform to Z1.
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := (3 * (n*n + 27*n - 70) * (n + 1) * (n + 3)) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 0 {
		return 1.0
	}
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform to Z2 (on total kurtosis).
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	if v <= 0 {
		return 1.0
	}
	x := (g2 - e) / math.Sqrt(v)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return 1.0
	}

	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		return 0.0
	}
	z2 := (term - math.Pow((1-2/a)/den, 1.0/3.0)) / math.Sqrt(2/(9*a))

	k2 := z1*z1 + z2*z2
	chi2 := distuv.ChiSquared{K: 2}
	return 1 - chi2.CDF(k2)
}

// EqualVariance runs a Levene-style homogeneity test with the median as
// center (Brown-Forsythe), which is robust to the skewed timing
// distributions benchmarks produce. Pairs where either side has fewer than
// 3 observations default to homogeneous so the simpler equal-variance
// branch is used instead of blocking the analysis.
func EqualVariance(a, b []float64, alpha float64) bool {
	if len(a) < 3 || len(b) < 3 {
		return true
	}

	za := absoluteMedianDeviations(a)
	zb := absoluteMedianDeviations(b)

	meanZA, _ := stats.Mean(za)
	meanZB, _ := stats.Mean(zb)

	nA := float64(len(za))
	nB := float64(len(zb))
	grand := (nA*meanZA + nB*meanZB) / (nA + nB)

	between := nA*(meanZA-grand)*(meanZA-grand) + nB*(meanZB-grand)*(meanZB-grand)

	within := 0.0
	for _, z := range za {
		within += (z - meanZA) * (z - meanZA)
	}
	for _, z := range zb {
		within += (z - meanZB) * (z - meanZB)
	}
	if within == 0 {
		// No spread in either group's deviations; nothing to reject.
		return true
	}

	w := (nA + nB - 2) * between / within
	fDist := distuv.F{D1: 1, D2: nA + nB - 2}
	p := 1 - fDist.CDF(w)
	return p > alpha
}

func absoluteMedianDeviations(values []float64) []float64 {
	median, _ := stats.Median(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v - median)
	}
	return out
}

// sampleSkewness computes the adjusted Fisher-Pearson coefficient.
func sampleSkewness(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	if n < 3 || stdDev == 0 {
		return 0
	}

	sumCubed := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}

	skew := sumCubed / n
	return skew * math.Sqrt(n*(n-1)) / (n - 2)
}

// sampleKurtosis computes bias-corrected total (not excess) kurtosis.
// Groups too small to estimate a fourth moment report the normal value 3.
func sampleKurtosis(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	if n < 4 || stdDev == 0 {
		return 3.0
	}

	sumFourth := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}

	kurtosis := sumFourth / n
	excess := kurtosis - 3
	correction := (n - 1) / ((n - 2) * (n - 3))
	excess = excess*correction + 6/(n+1)
	return excess + 3
}
