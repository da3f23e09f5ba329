package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"owlbench/adapters/excel"
	"owlbench/adapters/memfile"
	"owlbench/adapters/memory"
	"owlbench/app"
	"owlbench/domain/bench"
	"owlbench/domain/core"
	"owlbench/internal"
	"owlbench/internal/analysis"
	"owlbench/internal/report"
	"owlbench/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "owlbench-analyze",
		Short: "Statistical comparison of OWL reasoner benchmark results",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newSyntheticCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var alpha float64
	var memoryFile string
	var xlsxOut string
	var reportOut string

	cmd := &cobra.Command{
		Use:   "run [suite.json]",
		Short: "Analyze a benchmark suite from a JSON snapshot",
		Long: `Analyze a benchmark suite snapshot and print the result bundle as JSON.

The snapshot file holds a suite object: {"name": ..., "observations": [...]}.

Example: owlbench-analyze run ore2015.json --alpha 0.05 --xlsx results.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read suite snapshot: %w", err)
			}

			var suite bench.Suite
			if err := json.Unmarshal(raw, &suite); err != nil {
				return fmt.Errorf("malformed suite snapshot: %w", err)
			}
			if suite.CollectedAt.IsZero() {
				suite.CollectedAt = core.Now()
			}

			return runAnalysis(cmd, suite, alpha, memoryFile, xlsxOut, reportOut)
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", analysis.DefaultSignificanceLevel, "significance level for all tests")
	cmd.Flags().StringVar(&memoryFile, "memory-file", "", "memory metrics JSON produced by the sampling harness")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also export the bundle as an xlsx workbook")
	cmd.Flags().StringVar(&reportOut, "report", "", "also write the markdown report to this path")
	return cmd
}

func newSyntheticCmd() *cobra.Command {
	var alpha float64
	var seed int64
	var reportOut string

	cmd := &cobra.Command{
		Use:   "synthetic",
		Short: "Analyze a deterministic synthetic suite (smoke test)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultSuiteConfig()
			cfg.Seed = seed
			suite := testkit.GenerateSuite(cfg)
			return runAnalysis(cmd, suite, alpha, "", "", reportOut)
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", analysis.DefaultSignificanceLevel, "significance level for all tests")
	cmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	cmd.Flags().StringVar(&reportOut, "report", "", "also write the markdown report to this path")
	return cmd
}

func runAnalysis(cmd *cobra.Command, suite bench.Suite, alpha float64, memoryFile, xlsxOut, reportOut string) error {
	log := internal.DefaultLogger
	engine := analysis.NewEngine(alpha, log)
	service := app.NewAnalysisService(engine, memory.NewArchive(), memfile.NewProfiler(memoryFile), log)

	bundle, err := service.AnalyzeSuite(cmd.Context(), suite)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if reportOut != "" {
		md := report.RenderMarkdown(bundle, time.Now())
		if err := os.WriteFile(reportOut, []byte(md), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", reportOut)
	}

	if xlsxOut != "" {
		path, err := excel.NewExporter().Export(cmd.Context(), bundle, xlsxOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "workbook written to %s\n", path)
	}

	return nil
}
