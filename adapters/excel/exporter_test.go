package excel

import (
	"context"
	"path/filepath"
	"testing"

	"owlbench/domain/bench"
	"owlbench/domain/verdict"

	"github.com/xuri/excelize/v2"
)

func TestExport_WritesAllSheets(t *testing.T) {
	bundle := &verdict.Bundle{
		SuiteName: "ore_2015",
		Alpha:     0.05,
		Summaries: map[bench.GroupKey]verdict.DistributionSummary{
			{SystemID: "elk", Operation: "classify"}: {N: 5, Mean: 100},
		},
		Comparisons: map[string]verdict.ComparisonResult{
			"elk_vs_hermit_classify": {
				SystemA: "elk", SystemB: "hermit", Operation: "classify",
				TestType: verdict.TestTTest, PValue: 0.001, Significant: true,
				Interpretation: "elk is significantly faster than hermit for classify",
			},
		},
		Complexity: map[string]verdict.ComplexityProfile{
			"elk": {Exponent: 1.02, RSquared: 0.99, Fitted: true},
		},
		Ranking: verdict.RankingTable{Entries: []verdict.RankingEntry{
			{SystemID: "elk", OverallRank: 1, OverallScore: 0.8},
		}},
	}

	path := filepath.Join(t.TempDir(), "bundle.xlsx")
	written, err := NewExporter().Export(context.Background(), bundle, path)
	if err != nil {
		t.Fatal(err)
	}
	if written != path {
		t.Errorf("expected path %s, got %s", path, written)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("written workbook does not open: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Summaries", "Comparisons", "Complexity", "Ranking"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("missing sheet %s", sheet)
		}
	}

	cell, err := f.GetCellValue("Ranking", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if cell != "elk" {
		t.Errorf("ranking sheet wrong, B2 = %q", cell)
	}
}
