package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"owlbench/domain/verdict"
)

// RenderMarkdown produces the human-readable analysis report for one result
// bundle. Section order mirrors the analysis pipeline: suite overview,
// per-group statistics, pairwise tests, scaling behavior, outliers, ranking.
func RenderMarkdown(bundle *verdict.Bundle, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Statistical Analysis Report: %s\n\n", bundle.SuiteName)
	fmt.Fprintf(&b, "Generated: %s  \n", generatedAt.UTC().Format(time.RFC3339))
	if !bundle.CollectedAt.IsZero() {
		fmt.Fprintf(&b, "Observations collected: %s  \n", bundle.CollectedAt.Time().UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Significance level: %.3g\n\n", bundle.Alpha)

	writeEnvironment(&b, bundle)
	writeSuiteSummary(&b, bundle)
	writeGroupSummaries(&b, bundle)
	writeComparisons(&b, bundle)
	writeComplexity(&b, bundle)
	writeOutliers(&b, bundle)
	writeRanking(&b, bundle)

	return b.String()
}

func writeEnvironment(b *strings.Builder, bundle *verdict.Bundle) {
	env := bundle.Environment
	if env == nil {
		return
	}
	b.WriteString("## Environment\n\n")
	if env.OS != "" {
		fmt.Fprintf(b, "- OS: %s/%s\n", env.OS, env.Arch)
	}
	if env.CPUModel != "" {
		fmt.Fprintf(b, "- CPU: %s (%d cores)\n", env.CPUModel, env.CPUCores)
	}
	if env.TotalRAMMB > 0 {
		fmt.Fprintf(b, "- RAM: %.0f MB\n", env.TotalRAMMB)
	}
	if env.Runtime != "" {
		fmt.Fprintf(b, "- Runtime: %s\n", env.Runtime)
	}
	b.WriteString("\n")
}

func writeSuiteSummary(b *strings.Builder, bundle *verdict.Bundle) {
	s := bundle.Suite
	b.WriteString("## Suite Overview\n\n")
	fmt.Fprintf(b, "- Observations: %d total, %d successful, %d failed, %d malformed\n",
		s.TotalObservations, s.SuccessfulObservations, s.FailedObservations, s.MalformedObservations)
	fmt.Fprintf(b, "- Success rate: %.1f%%\n\n", s.SuccessRate*100)
}

func writeGroupSummaries(b *strings.Builder, bundle *verdict.Bundle) {
	if len(bundle.Summaries) == 0 {
		return
	}
	b.WriteString("## Descriptive Statistics\n\n")
	b.WriteString("| Group | N | Mean | Median | StdDev | Min | Max | IQR | CV |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")

	keys := make([]string, 0, len(bundle.Summaries))
	byKey := make(map[string]verdict.DistributionSummary, len(bundle.Summaries))
	for key, s := range bundle.Summaries {
		keys = append(keys, key.String())
		byKey[key.String()] = s
	}
	sort.Strings(keys)

	for _, key := range keys {
		s := byKey[key]
		fmt.Fprintf(b, "| %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
			key, s.N, s.Mean, s.Median, s.StdDev, s.Min, s.Max, s.IQR, s.CV)
	}
	b.WriteString("\n")
}

func writeComparisons(b *strings.Builder, bundle *verdict.Bundle) {
	if len(bundle.Comparisons) == 0 {
		return
	}
	b.WriteString("## Pairwise Comparisons\n\n")

	keys := make([]string, 0, len(bundle.Comparisons))
	for key := range bundle.Comparisons {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		c := bundle.Comparisons[key]
		fmt.Fprintf(b, "### %s vs %s (%s)\n\n", c.SystemA, c.SystemB, c.Operation)
		if c.TestType == verdict.TestInsufficientData {
			fmt.Fprintf(b, "%s\n\n", c.Interpretation)
			continue
		}
		fmt.Fprintf(b, "- Test: %s\n", c.TestType)
		fmt.Fprintf(b, "- Statistic: %.4f, p-value: %.4g\n", c.Statistic, c.PValue)
		fmt.Fprintf(b, "- Effect size: %.3f\n", c.EffectSize)
		fmt.Fprintf(b, "- Mean difference: %.3f (95%% CI [%.3f, %.3f])\n", c.MeanDifference, c.CILow, c.CIHigh)
		fmt.Fprintf(b, "- **%s**\n\n", c.Interpretation)
	}
}

func writeComplexity(b *strings.Builder, bundle *verdict.Bundle) {
	if len(bundle.Complexity) == 0 {
		return
	}
	b.WriteString("## Scalability\n\n")

	systems := make([]string, 0, len(bundle.Complexity))
	for system := range bundle.Complexity {
		systems = append(systems, system)
	}
	sort.Strings(systems)

	for _, system := range systems {
		p := bundle.Complexity[system]
		if !p.Fitted {
			fmt.Fprintf(b, "- **%s**: not enough scale points to fit a model\n", system)
			continue
		}
		fmt.Fprintf(b, "- **%s**: empirical exponent %.2f (r² = %.3f), %s\n",
			system, p.Exponent, p.RSquared, classifyExponent(p.Exponent))
		for _, bp := range p.Breakpoints {
			fmt.Fprintf(b, "  - degradation breakpoint at scale %.0f (%.1fx, %s)\n",
				bp.Scale, bp.DegradationFactor, bp.Severity)
		}
	}
	b.WriteString("\n")
}

// classifyExponent gives a coarse reading of the fitted power-law exponent.
func classifyExponent(exponent float64) string {
	switch {
	case exponent < 1.1:
		return "approximately linear scaling"
	case exponent < 1.5:
		return "mildly superlinear scaling"
	case exponent < 2.5:
		return "polynomial scaling"
	default:
		return "severe scaling degradation"
	}
}

func writeOutliers(b *strings.Builder, bundle *verdict.Bundle) {
	if len(bundle.Outliers) == 0 {
		return
	}
	b.WriteString("## Outliers\n\n")

	keys := make([]string, 0, len(bundle.Outliers))
	byKey := make(map[string]verdict.OutlierReport, len(bundle.Outliers))
	for key, r := range bundle.Outliers {
		keys = append(keys, key.String())
		byKey[key.String()] = r
	}
	sort.Strings(keys)

	flagged := false
	for _, key := range keys {
		r := byKey[key]
		if !r.Evaluated || len(r.Outliers) == 0 {
			continue
		}
		flagged = true
		fmt.Fprintf(b, "- **%s** (fences [%.3f, %.3f]):\n", key, r.LowerBound, r.UpperBound)
		for _, o := range r.Outliers {
			fmt.Fprintf(b, "  - observation %d: %.3f (%s)\n", o.Index, o.Value, o.Severity)
		}
	}
	if !flagged {
		b.WriteString("No outliers detected.\n")
	}
	b.WriteString("\n")
}

func writeRanking(b *strings.Builder, bundle *verdict.Bundle) {
	if len(bundle.Ranking.Entries) == 0 {
		return
	}
	b.WriteString("## Overall Ranking\n\n")
	b.WriteString("| Rank | System | Overall | Performance | Efficiency | Reliability |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, e := range bundle.Ranking.Entries {
		fmt.Fprintf(b, "| %d | %s | %.3f | %.3f | %.3f | %.3f |\n",
			e.OverallRank, e.SystemID, e.OverallScore, e.PerformanceScore, e.EfficiencyScore, e.ReliabilityScore)
	}
	b.WriteString("\n")
}
