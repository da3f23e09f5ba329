package analysis

import (
	"owlbench/domain/bench"
	"owlbench/domain/verdict"
	"owlbench/internal"
)

// Group partitions a flat observation list into per-(system, operation)
// groups of successful measurement values. Failed runs are counted but not
// grouped; malformed records are skipped individually with a diagnostic so
// one bad record never poisons the batch. Value order within a group follows
// input order so outlier reports can reference original positions. Groups
// with zero values never appear.
func Group(observations []bench.RawObservation, log *internal.Logger) (map[bench.GroupKey][]float64, verdict.SuiteSummary) {
	if log == nil {
		log = internal.DefaultLogger
	}

	groups := make(map[bench.GroupKey][]float64)
	summary := verdict.SuiteSummary{TotalObservations: len(observations)}

	for i, obs := range observations {
		if !obs.Valid() {
			summary.MalformedObservations++
			log.Warn("skipping malformed observation %d (system=%s operation=%s): non-finite value", i, obs.SystemID, obs.Operation)
			continue
		}
		if obs.SystemID == "" || obs.Operation == "" {
			summary.MalformedObservations++
			log.Warn("skipping malformed observation %d: missing system or operation", i)
			continue
		}

		if !obs.Success {
			summary.FailedObservations++
			continue
		}
		summary.SuccessfulObservations++

		key := bench.GroupKey{SystemID: obs.SystemID, Operation: obs.Operation}
		groups[key] = append(groups[key], obs.Value)
	}

	if summary.TotalObservations > 0 {
		summary.SuccessRate = float64(summary.SuccessfulObservations) / float64(summary.TotalObservations)
	}

	return groups, summary
}
