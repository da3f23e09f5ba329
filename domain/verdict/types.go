package verdict

import (
	"owlbench/domain/bench"
	"owlbench/domain/core"
)

// TestType is the closed set of two-sample tests the engine can select.
// Keeping it an enum (not a free string) makes branch handling exhaustive.
type TestType string

const (
	TestTTest            TestType = "ttest"
	TestWelchTTest       TestType = "welch_ttest"
	TestMannWhitneyU     TestType = "mann_whitney_u"
	TestInsufficientData TestType = "insufficient_data"
)

// Severity grades outliers and scaling breakpoints.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// DistributionSummary describes one observation group.
// StdDev is the sample standard deviation (denominator n-1); quartiles use
// linear-interpolation percentiles. CV is 0 when the mean is 0 or N < 2.
type DistributionSummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
	CV     float64 `json:"cv"`
}

// ComparisonResult is the outcome of one pairwise hypothesis test.
// TestType is TestInsufficientData when either side had fewer than 3
// successful observations; the entry is still present in the bundle.
type ComparisonResult struct {
	SystemA        string   `json:"system_a"`
	SystemB        string   `json:"system_b"`
	Operation      string   `json:"operation"`
	TestType       TestType `json:"test_type"`
	Statistic      float64  `json:"statistic"`
	PValue         float64  `json:"p_value"`
	EffectSize     float64  `json:"effect_size"`
	MeanDifference float64  `json:"mean_difference"`
	CILow          float64  `json:"ci_low"`
	CIHigh         float64  `json:"ci_high"`
	Significant    bool     `json:"significant"`
	Interpretation string   `json:"interpretation"`
}

// ScalePoint is one (input scale, mean metric) observation used by the
// complexity model.
type ScalePoint struct {
	Scale float64 `json:"scale"`
	Value float64 `json:"value"`
}

// Breakpoint marks a scale at which the metric grows disproportionately
// faster than the input.
type Breakpoint struct {
	Scale             float64  `json:"scale"`
	DegradationFactor float64  `json:"degradation_factor"`
	Severity          Severity `json:"severity"`
}

// ComplexityProfile is the fitted power-law model value ~ a * scale^b for a
// system. Fitted is false when fewer than 2 distinct positive scale points
// existed; Exponent and RSquared then hold the documented defaults (1.0,
// 0.0) rather than fitted values.
type ComplexityProfile struct {
	Exponent    float64      `json:"exponent"`
	RSquared    float64      `json:"r_squared"`
	Fitted      bool         `json:"fitted"`
	ScalePoints []ScalePoint `json:"scale_points,omitempty"`
	Breakpoints []Breakpoint `json:"breakpoints,omitempty"`
}

// Outlier is one flagged observation, indexed into the group's ordered
// value list.
type Outlier struct {
	Index    int      `json:"index"`
	Value    float64  `json:"value"`
	Severity Severity `json:"severity"`
}

// OutlierReport holds the Tukey fences and flagged values for one group.
// Evaluated is false for groups with fewer than 4 observations; the report
// is still present so downstream renderers can tell "not assessed" from
// "no outliers".
type OutlierReport struct {
	Evaluated  bool      `json:"evaluated"`
	Q1         float64   `json:"q1"`
	Q3         float64   `json:"q3"`
	IQR        float64   `json:"iqr"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Outliers   []Outlier `json:"outliers,omitempty"`
}

// RankingEntry carries one system's sub-scores and ranks.
type RankingEntry struct {
	SystemID         string  `json:"system_id"`
	PerformanceScore float64 `json:"performance_score"`
	EfficiencyScore  float64 `json:"efficiency_score"`
	ReliabilityScore float64 `json:"reliability_score"`
	OverallScore     float64 `json:"overall_score"`
	PerformanceRank  int     `json:"performance_rank"`
	EfficiencyRank   int     `json:"efficiency_rank"`
	ReliabilityRank  int     `json:"reliability_rank"`
	OverallRank      int     `json:"overall_rank"`
}

// RankingTable lists systems in overall rank order.
type RankingTable struct {
	Entries []RankingEntry `json:"entries"`
}

// SuiteSummary aggregates the raw batch before grouping.
type SuiteSummary struct {
	TotalObservations      int     `json:"total_observations"`
	SuccessfulObservations int     `json:"successful_observations"`
	FailedObservations     int     `json:"failed_observations"`
	MalformedObservations  int     `json:"malformed_observations"`
	SuccessRate            float64 `json:"success_rate"`
}

// Bundle is the complete result of analyzing one suite snapshot. Every
// section is always populated; individual entries carry explicit
// insufficient-data markers instead of being omitted.
type Bundle struct {
	SuiteName   string                                 `json:"suite_name"`
	CollectedAt core.Timestamp                         `json:"collected_at"`
	Alpha       float64                                `json:"significance_level"`
	Suite       SuiteSummary                           `json:"suite"`
	Summaries   map[bench.GroupKey]DistributionSummary `json:"summaries"`
	Comparisons map[string]ComparisonResult            `json:"comparisons"`
	Complexity  map[string]ComplexityProfile           `json:"complexity"`
	Outliers    map[bench.GroupKey]OutlierReport       `json:"outliers"`
	Ranking     RankingTable                           `json:"ranking"`
	Environment *bench.EnvironmentSpecification        `json:"environment,omitempty"`
}

// PairKey builds the canonical comparison key "{sysA}_vs_{sysB}_{operation}".
func PairKey(systemA, systemB, operation string) string {
	return systemA + "_vs_" + systemB + "_" + operation
}
