package app

import (
	"context"
	"testing"

	"owlbench/adapters/memory"
	"owlbench/domain/bench"
	"owlbench/internal/analysis"
	"owlbench/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiler struct {
	metrics map[string]bench.MemoryMetrics
	calls   int
}

func (p *stubProfiler) MetricsForSuite(ctx context.Context, suiteName string) (map[string]bench.MemoryMetrics, error) {
	p.calls++
	return p.metrics, nil
}

func newTestService(profiler *stubProfiler) (*AnalysisService, *memory.Archive) {
	archive := memory.NewArchive()
	engine := analysis.NewEngine(0.05, nil)
	return NewAnalysisService(engine, archive, profiler, nil), archive
}

func TestAnalyzeSuite_ArchivesResult(t *testing.T) {
	profiler := &stubProfiler{metrics: map[string]bench.MemoryMetrics{
		"sys-alpha": {PeakMemoryMB: 512},
	}}
	service, archive := newTestService(profiler)

	suite := testkit.GenerateSuite(testkit.DefaultSuiteConfig())
	bundle, err := service.AnalyzeSuite(context.Background(), suite)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	runs, err := archive.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, suite.Name, runs[0].SuiteName)

	decoded, err := runs[0].DecodeBundle()
	require.NoError(t, err)
	assert.Equal(t, bundle.SuiteName, decoded.SuiteName)
	assert.Equal(t, len(bundle.Comparisons), len(decoded.Comparisons))
}

func TestAnalyzeSuite_MemoizesBySuiteName(t *testing.T) {
	profiler := &stubProfiler{}
	service, archive := newTestService(profiler)

	suite := testkit.GenerateSuite(testkit.DefaultSuiteConfig())

	first, err := service.AnalyzeSuite(context.Background(), suite)
	require.NoError(t, err)
	second, err := service.AnalyzeSuite(context.Background(), suite)
	require.NoError(t, err)

	assert.Same(t, first, second, "repeat call should return the memoized bundle")
	assert.Equal(t, 1, profiler.calls, "memoized call must not re-profile")

	runs, err := archive.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "memoized call must not re-archive")
}

func TestAnalyzeSuite_InvalidateForcesRecompute(t *testing.T) {
	service, archive := newTestService(&stubProfiler{})
	suite := testkit.GenerateSuite(testkit.DefaultSuiteConfig())

	_, err := service.AnalyzeSuite(context.Background(), suite)
	require.NoError(t, err)

	service.InvalidateSuite(suite.Name)

	_, err = service.AnalyzeSuite(context.Background(), suite)
	require.NoError(t, err)

	runs, err := archive.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestAnalyzeSuite_RequiresName(t *testing.T) {
	service, _ := newTestService(&stubProfiler{})

	_, err := service.AnalyzeSuite(context.Background(), bench.Suite{})
	assert.Error(t, err)
}

func TestAnalyzeSuites_ConcurrentFanOut(t *testing.T) {
	service, _ := newTestService(&stubProfiler{})

	suites := make([]bench.Suite, 4)
	for i := range suites {
		cfg := testkit.DefaultSuiteConfig()
		cfg.SuiteName = cfg.SuiteName + "-" + string(rune('a'+i))
		cfg.Seed = int64(i + 1)
		suites[i] = testkit.GenerateSuite(cfg)
	}

	bundles, err := service.AnalyzeSuites(context.Background(), suites)
	require.NoError(t, err)
	require.Len(t, bundles, 4)

	for i, bundle := range bundles {
		assert.Equal(t, suites[i].Name, bundle.SuiteName, "results must come back in input order")
	}
}

func TestEfficiencyScores_FoldedIntoRanking(t *testing.T) {
	profiler := &stubProfiler{metrics: map[string]bench.MemoryMetrics{
		"sys-alpha": {PeakMemoryMB: 1024},
	}}
	service, _ := newTestService(profiler)

	suite := testkit.GenerateSuite(testkit.DefaultSuiteConfig())
	bundle, err := service.AnalyzeSuite(context.Background(), suite)
	require.NoError(t, err)

	for _, entry := range bundle.Ranking.Entries {
		if entry.SystemID == "sys-alpha" {
			// 1 GiB peak maps onto 0.5 exactly.
			assert.InDelta(t, 0.5, entry.EfficiencyScore, 1e-9)
			return
		}
	}
	t.Fatal("sys-alpha missing from ranking")
}
