package analysis

import (
	"sort"

	"owlbench/domain/bench"
	"owlbench/domain/verdict"
)

// Ranking sub-score weights. Performance dominates; efficiency and
// reliability split the remainder evenly.
const (
	performanceWeight = 0.4
	efficiencyWeight  = 0.3
	reliabilityWeight = 0.3
)

// Rank combines per-system sub-scores into ranked tables. Performance is
// 1/(mean time + 1) over successful observations, efficiency comes from the
// external memory-profiling collaborator (0 when a system has no metrics),
// and reliability is the success fraction over all attempted runs. Each
// dimension is ranked independently, descending, with ties broken by system
// name so the output ordering is reproducible.
func Rank(observations []bench.RawObservation, efficiency map[string]float64) verdict.RankingTable {
	type accumulator struct {
		total     int
		successes int
		valueSum  float64
	}
	acc := make(map[string]*accumulator)

	for _, obs := range observations {
		if obs.SystemID == "" || !obs.Valid() {
			continue
		}
		a := acc[obs.SystemID]
		if a == nil {
			a = &accumulator{}
			acc[obs.SystemID] = a
		}
		a.total++
		if obs.Success {
			a.successes++
			a.valueSum += obs.Value
		}
	}

	entries := make([]verdict.RankingEntry, 0, len(acc))
	for system, a := range acc {
		performance := 0.0
		if a.successes > 0 {
			meanTime := a.valueSum / float64(a.successes)
			performance = 1.0 / (meanTime + 1.0)
		}

		reliability := 0.0
		if a.total > 0 {
			reliability = float64(a.successes) / float64(a.total)
		}

		eff := efficiency[system]

		entries = append(entries, verdict.RankingEntry{
			SystemID:         system,
			PerformanceScore: performance,
			EfficiencyScore:  eff,
			ReliabilityScore: reliability,
			OverallScore: performanceWeight*performance +
				efficiencyWeight*eff +
				reliabilityWeight*reliability,
		})
	}

	assignRanks(entries, func(e *verdict.RankingEntry) float64 { return e.PerformanceScore },
		func(e *verdict.RankingEntry, rank int) { e.PerformanceRank = rank })
	assignRanks(entries, func(e *verdict.RankingEntry) float64 { return e.EfficiencyScore },
		func(e *verdict.RankingEntry, rank int) { e.EfficiencyRank = rank })
	assignRanks(entries, func(e *verdict.RankingEntry) float64 { return e.ReliabilityScore },
		func(e *verdict.RankingEntry, rank int) { e.ReliabilityRank = rank })
	assignRanks(entries, func(e *verdict.RankingEntry) float64 { return e.OverallScore },
		func(e *verdict.RankingEntry, rank int) { e.OverallRank = rank })

	sort.Slice(entries, func(i, j int) bool { return entries[i].OverallRank < entries[j].OverallRank })

	return verdict.RankingTable{Entries: entries}
}

// assignRanks ranks entries descending by score, ties broken by system name
// ascending, and writes the 1-based rank back through set.
func assignRanks(entries []verdict.RankingEntry, score func(*verdict.RankingEntry) float64, set func(*verdict.RankingEntry, int)) {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(a, b int) bool {
		ea, eb := &entries[order[a]], &entries[order[b]]
		if score(ea) != score(eb) {
			return score(ea) > score(eb)
		}
		return ea.SystemID < eb.SystemID
	})

	for rank, idx := range order {
		set(&entries[idx], rank+1)
	}
}
