package excel

import (
	"context"
	"fmt"
	"sort"

	"owlbench/domain/verdict"
	"owlbench/internal/errors"
	"owlbench/ports"

	"github.com/xuri/excelize/v2"
)

// Exporter renders a result bundle as a multi-sheet xlsx workbook.
type Exporter struct{}

// NewExporter creates an xlsx table exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

var _ ports.TableExporter = (*Exporter)(nil)

// Export writes one sheet per bundle section and returns the written path.
func (e *Exporter) Export(ctx context.Context, bundle *verdict.Bundle, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummaries(f, bundle); err != nil {
		return "", errors.ExportError(path, err)
	}
	if err := e.writeComparisons(f, bundle); err != nil {
		return "", errors.ExportError(path, err)
	}
	if err := e.writeComplexity(f, bundle); err != nil {
		return "", errors.ExportError(path, err)
	}
	if err := e.writeRanking(f, bundle); err != nil {
		return "", errors.ExportError(path, err)
	}

	// The workbook starts with a default sheet; drop it once real sheets exist.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return "", errors.ExportError(path, err)
	}
	return path, nil
}

func (e *Exporter) writeSummaries(f *excelize.File, bundle *verdict.Bundle) error {
	const sheet = "Summaries"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Group", "N", "Mean", "Median", "StdDev", "Min", "Max", "Q1", "Q3", "IQR", "CV"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	keys := make([]string, 0, len(bundle.Summaries))
	byKey := make(map[string]verdict.DistributionSummary, len(bundle.Summaries))
	for key, s := range bundle.Summaries {
		keys = append(keys, key.String())
		byKey[key.String()] = s
	}
	sort.Strings(keys)

	for i, key := range keys {
		s := byKey[key]
		row := []interface{}{key, s.N, s.Mean, s.Median, s.StdDev, s.Min, s.Max, s.Q1, s.Q3, s.IQR, s.CV}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeComparisons(f *excelize.File, bundle *verdict.Bundle) error {
	const sheet = "Comparisons"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Pair", "Test", "Statistic", "PValue", "EffectSize", "MeanDiff", "CILow", "CIHigh", "Significant", "Interpretation"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	keys := make([]string, 0, len(bundle.Comparisons))
	for key := range bundle.Comparisons {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		c := bundle.Comparisons[key]
		row := []interface{}{key, string(c.TestType), c.Statistic, c.PValue, c.EffectSize, c.MeanDifference, c.CILow, c.CIHigh, c.Significant, c.Interpretation}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeComplexity(f *excelize.File, bundle *verdict.Bundle) error {
	const sheet = "Complexity"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"System", "Fitted", "Exponent", "RSquared", "Breakpoints"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	systems := make([]string, 0, len(bundle.Complexity))
	for system := range bundle.Complexity {
		systems = append(systems, system)
	}
	sort.Strings(systems)

	for i, system := range systems {
		p := bundle.Complexity[system]
		row := []interface{}{system, p.Fitted, p.Exponent, p.RSquared, len(p.Breakpoints)}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeRanking(f *excelize.File, bundle *verdict.Bundle) error {
	const sheet = "Ranking"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Rank", "System", "Overall", "Performance", "Efficiency", "Reliability"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, entry := range bundle.Ranking.Entries {
		row := []interface{}{entry.OverallRank, entry.SystemID, entry.OverallScore, entry.PerformanceScore, entry.EfficiencyScore, entry.ReliabilityScore}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
