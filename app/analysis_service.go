package app

import (
	"context"
	"sync"

	"owlbench/domain/bench"
	"owlbench/domain/core"
	"owlbench/domain/verdict"
	"owlbench/internal"
	"owlbench/internal/analysis"
	appErrors "owlbench/internal/errors"
	"owlbench/models"
	"owlbench/ports"

	"golang.org/x/sync/errgroup"
)

// AnalysisService orchestrates one engine invocation end to end: gather
// memory metrics, run the engine, archive the result. The engine itself is
// stateless; the memoization map lives here, owned by the service, keyed by
// suite name.
type AnalysisService struct {
	engine   *analysis.Engine
	archive  ports.RunArchive
	profiler ports.MemoryProfiler
	log      *internal.Logger

	mu   sync.Mutex
	memo map[string]*verdict.Bundle
}

// NewAnalysisService creates the orchestration service
func NewAnalysisService(engine *analysis.Engine, archive ports.RunArchive, profiler ports.MemoryProfiler, log *internal.Logger) *AnalysisService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AnalysisService{
		engine:   engine,
		archive:  archive,
		profiler: profiler,
		log:      log,
		memo:     make(map[string]*verdict.Bundle),
	}
}

// AnalyzeSuite analyzes one suite snapshot and archives the result. Repeat
// calls for the same suite name return the memoized bundle without
// re-running the engine; InvalidateSuite clears the entry when new
// observations arrive.
func (s *AnalysisService) AnalyzeSuite(ctx context.Context, suite bench.Suite) (*verdict.Bundle, error) {
	if suite.Name == "" {
		return nil, appErrors.InvalidInput("suite name is required")
	}

	s.mu.Lock()
	if cached, ok := s.memo[suite.Name]; ok {
		s.mu.Unlock()
		s.log.Debug("returning memoized analysis for suite %s", suite.Name)
		return cached, nil
	}
	s.mu.Unlock()

	efficiency, err := s.efficiencyScores(ctx, suite.Name)
	if err != nil {
		return nil, err
	}

	bundle := s.engine.Analyze(suite, efficiency)

	run, err := models.NewAnalysisRun(bundle)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to serialize analysis run")
	}
	if err := s.archive.SaveRun(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, "failed to archive analysis run")
	}
	s.log.Info("analyzed suite %s: %d comparisons, %d systems ranked (run %s)",
		suite.Name, len(bundle.Comparisons), len(bundle.Ranking.Entries), run.ID)

	s.mu.Lock()
	s.memo[suite.Name] = bundle
	s.mu.Unlock()

	return bundle, nil
}

// AnalyzeSuites fans suite analyses out concurrently. Each suite is an
// independent snapshot, so the only shared state is the memoization map and
// the archive, both safe under their own synchronization. Results come back
// in input order.
func (s *AnalysisService) AnalyzeSuites(ctx context.Context, suites []bench.Suite) ([]*verdict.Bundle, error) {
	bundles := make([]*verdict.Bundle, len(suites))

	g, ctx := errgroup.WithContext(ctx)
	for i, suite := range suites {
		i, suite := i, suite
		g.Go(func() error {
			bundle, err := s.AnalyzeSuite(ctx, suite)
			if err != nil {
				return appErrors.Wrapf(err, "suite %s", suite.Name)
			}
			bundles[i] = bundle
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

// InvalidateSuite drops the memoized bundle for a suite, forcing the next
// AnalyzeSuite call to recompute.
func (s *AnalysisService) InvalidateSuite(suiteName string) {
	s.mu.Lock()
	delete(s.memo, suiteName)
	s.mu.Unlock()
}

// GetRun retrieves an archived run by ID
func (s *AnalysisService) GetRun(ctx context.Context, id core.RunID) (*models.AnalysisRun, error) {
	return s.archive.GetRun(ctx, id)
}

// ListRuns returns the most recent archived runs
func (s *AnalysisService) ListRuns(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	return s.archive.ListRuns(ctx, limit)
}

// efficiencyScores folds the profiler's memory metrics into the per-system
// efficiency terms the ranking consumes. A missing profiler or missing
// metrics zeroes the term rather than failing the analysis.
func (s *AnalysisService) efficiencyScores(ctx context.Context, suiteName string) (map[string]float64, error) {
	if s.profiler == nil {
		return nil, nil
	}

	metrics, err := s.profiler.MetricsForSuite(ctx, suiteName)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to load memory metrics")
	}

	scores := make(map[string]float64, len(metrics))
	for system, m := range metrics {
		scores[system] = m.EfficiencyScore()
	}
	return scores, nil
}
