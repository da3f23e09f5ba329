package analysis

import (
	"math"
	"sort"

	"owlbench/domain/verdict"

	"github.com/montanaflynn/stats"
)

// Summarize computes the distribution summary for one observation group.
// StdDev is the sample standard deviation (denominator n-1); a single
// observation reports StdDev = 0 and CV = 0. CV is also 0 when the mean is
// 0 so a degenerate group never raises a division error.
func Summarize(values []float64) verdict.DistributionSummary {
	n := len(values)
	if n == 0 {
		return verdict.DistributionSummary{}
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	stdDev := 0.0
	if n >= 2 {
		stdDev, _ = stats.StandardDeviationSample(values)
	}

	q1 := percentileLinear(values, 25)
	q3 := percentileLinear(values, 75)

	cv := 0.0
	if n >= 2 && mean != 0 {
		cv = stdDev / mean
	}

	return verdict.DistributionSummary{
		N:      n,
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Q1:     q1,
		Q3:     q3,
		IQR:    q3 - q1,
		CV:     cv,
	}
}

// percentileLinear computes the p-th percentile (0-100) with linear
// interpolation between closest ranks. montanaflynn's Percentile uses a
// nearest-rank rule, which shifts quartiles on small benchmark groups, so
// the interpolating variant is implemented here.
func percentileLinear(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	h := (p / 100.0) * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= n {
		return sorted[n-1]
	}
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// sampleVariance returns the n-1 variance, 0 for groups too small to spread.
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	v, _ := stats.SampleVariance(values)
	return v
}
