package analysis

import (
	"owlbench/domain/verdict"
)

// minOutlierN is the smallest group the IQR fence rule is applied to;
// quartiles on fewer points flag nearly everything.
const minOutlierN = 4

// outerFenceMultiplier separates mild from moderate outliers: excursions
// beyond the Tukey fence by more than 1.5 IQR (i.e. past the outer fence at
// 3 IQR from the quartile) are graded moderate.
const outerFenceMultiplier = 1.5

// DetectOutliers applies the IQR fence rule to one group. Values are
// outliers only when strictly below q1 - 1.5*IQR or strictly above
// q3 + 1.5*IQR; a value exactly on a fence is not flagged. Groups with
// fewer than 4 observations report Evaluated = false instead of being
// omitted, so renderers can tell "not assessed" from "no outliers".
func DetectOutliers(values []float64) verdict.OutlierReport {
	if len(values) < minOutlierN {
		return verdict.OutlierReport{Evaluated: false}
	}

	q1 := percentileLinear(values, 25)
	q3 := percentileLinear(values, 75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	report := verdict.OutlierReport{
		Evaluated:  true,
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerBound: lower,
		UpperBound: upper,
	}

	for i, v := range values {
		var excess float64
		switch {
		case v < lower:
			excess = lower - v
		case v > upper:
			excess = v - upper
		default:
			continue
		}

		severity := verdict.SeverityMild
		if excess > outerFenceMultiplier*iqr {
			severity = verdict.SeverityModerate
		}
		report.Outliers = append(report.Outliers, verdict.Outlier{
			Index:    i,
			Value:    v,
			Severity: severity,
		})
	}

	return report
}
