package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"owlbench/domain/core"
	"owlbench/internal/errors"
	"owlbench/models"
	"owlbench/ports"
)

// Archive is an in-memory RunArchive for CLI use and tests, where a
// database is not configured.
type Archive struct {
	mu   sync.RWMutex
	runs map[core.RunID]*models.AnalysisRun
}

// NewArchive creates an empty in-memory archive
func NewArchive() *Archive {
	return &Archive{runs: make(map[core.RunID]*models.AnalysisRun)}
}

var _ ports.RunArchive = (*Archive)(nil)

// SaveRun stores a finished run
func (a *Archive) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	copied := *run
	a.runs[run.ID] = &copied
	return nil
}

// GetRun retrieves a run by ID
func (a *Archive) GetRun(ctx context.Context, id core.RunID) (*models.AnalysisRun, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	run, ok := a.runs[id]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("analysis run %s", id))
	}
	copied := *run
	return &copied, nil
}

// ListRuns returns the most recent runs, newest first
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.collect(func(*models.AnalysisRun) bool { return true }, limit), nil
}

// ListRunsForSuite returns runs for one suite, newest first
func (a *Archive) ListRunsForSuite(ctx context.Context, suiteName string, limit int) ([]*models.AnalysisRun, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.collect(func(r *models.AnalysisRun) bool { return r.SuiteName == suiteName }, limit), nil
}

func (a *Archive) collect(keep func(*models.AnalysisRun) bool, limit int) []*models.AnalysisRun {
	if limit <= 0 {
		limit = 50
	}
	out := make([]*models.AnalysisRun, 0, len(a.runs))
	for _, run := range a.runs {
		if keep(run) {
			copied := *run
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
