package analysis

import (
	"sort"

	"owlbench/domain/bench"
	"owlbench/domain/verdict"
	"owlbench/internal"
)

// DefaultSignificanceLevel is applied uniformly to normality, variance
// homogeneity and hypothesis decisions unless configured otherwise.
const DefaultSignificanceLevel = 0.05

// Engine transforms a snapshot of benchmark observations into a validated
// statistical conclusion bundle. It is a pure, synchronous batch transform:
// no I/O, no hidden state, no randomness. Recomputing from identical input
// always yields an identical bundle, and separate invocations may run
// concurrently as long as each is handed its own snapshot.
type Engine struct {
	alpha float64
	log   *internal.Logger
}

// NewEngine creates an engine with the given significance level. Values
// outside (0, 1) fall back to the default 0.05.
func NewEngine(alpha float64, log *internal.Logger) *Engine {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultSignificanceLevel
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Engine{alpha: alpha, log: log}
}

// SignificanceLevel returns the configured threshold.
func (e *Engine) SignificanceLevel() float64 {
	return e.alpha
}

// Analyze runs every analysis component over the suite and assembles the
// complete result bundle. efficiency carries the per-system memory
// efficiency scores supplied by the external profiling collaborator; nil is
// accepted and scores every system 0. The environment specification is
// passed through unmodified for downstream reporting.
func (e *Engine) Analyze(suite bench.Suite, efficiency map[string]float64) *verdict.Bundle {
	groups, suiteSummary := Group(suite.Observations, e.log)

	bundle := &verdict.Bundle{
		SuiteName:   suite.Name,
		CollectedAt: suite.CollectedAt,
		Alpha:       e.alpha,
		Suite:       suiteSummary,
		Summaries:   make(map[bench.GroupKey]verdict.DistributionSummary, len(groups)),
		Comparisons: make(map[string]verdict.ComparisonResult),
		Complexity:  make(map[string]verdict.ComplexityProfile),
		Outliers:    make(map[bench.GroupKey]verdict.OutlierReport, len(groups)),
		Environment: suite.Environment,
	}

	for key, values := range groups {
		bundle.Summaries[key] = Summarize(values)
		bundle.Outliers[key] = DetectOutliers(values)
	}

	e.compareAll(groups, bundle)
	e.modelComplexity(suite.Observations, bundle)
	bundle.Ranking = Rank(suite.Observations, efficiency)

	return bundle
}

// compareAll generates one comparison per unordered pair of systems sharing
// an operation, systems in lexicographic order inside the pair key. Pairs
// where either side is too small still get an entry, marked
// InsufficientData.
func (e *Engine) compareAll(groups map[bench.GroupKey][]float64, bundle *verdict.Bundle) {
	byOperation := make(map[string][]string)
	for key := range groups {
		byOperation[key.Operation] = append(byOperation[key.Operation], key.SystemID)
	}

	for operation, systems := range byOperation {
		sort.Strings(systems)
		for i := 0; i < len(systems); i++ {
			for j := i + 1; j < len(systems); j++ {
				a := groups[bench.GroupKey{SystemID: systems[i], Operation: operation}]
				b := groups[bench.GroupKey{SystemID: systems[j], Operation: operation}]
				result := Compare(systems[i], systems[j], operation, a, b, e.alpha)
				bundle.Comparisons[verdict.PairKey(systems[i], systems[j], operation)] = result
			}
		}
	}
}

// modelComplexity aggregates each system's successful scaled observations
// into per-scale means and fits the power-law model. Systems without any
// scaled observation get the unfitted default profile so the complexity
// section is never silently missing a system.
func (e *Engine) modelComplexity(observations []bench.RawObservation, bundle *verdict.Bundle) {
	type scaleAgg struct {
		sum   float64
		count int
	}
	perSystem := make(map[string]map[float64]*scaleAgg)
	systems := make(map[string]struct{})

	for _, obs := range observations {
		if obs.SystemID == "" || !obs.Valid() {
			continue
		}
		systems[obs.SystemID] = struct{}{}
		if !obs.Success || obs.Scale == nil || *obs.Scale <= 0 || obs.Value <= 0 {
			continue
		}

		scales := perSystem[obs.SystemID]
		if scales == nil {
			scales = make(map[float64]*scaleAgg)
			perSystem[obs.SystemID] = scales
		}
		agg := scales[*obs.Scale]
		if agg == nil {
			agg = &scaleAgg{}
			scales[*obs.Scale] = agg
		}
		agg.sum += obs.Value
		agg.count++
	}

	for system := range systems {
		points := make([]verdict.ScalePoint, 0, len(perSystem[system]))
		for scale, agg := range perSystem[system] {
			points = append(points, verdict.ScalePoint{
				Scale: scale,
				Value: agg.sum / float64(agg.count),
			})
		}
		bundle.Complexity[system] = FitComplexity(points)
	}
}
