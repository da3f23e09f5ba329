package ports

import (
	"context"

	"owlbench/domain/core"
	"owlbench/models"
)

// RunArchive persists finished analysis runs so reports can be re-rendered
// without re-running the engine.
type RunArchive interface {
	// SaveRun stores a finished run.
	SaveRun(ctx context.Context, run *models.AnalysisRun) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id core.RunID) (*models.AnalysisRun, error)

	// ListRuns returns the most recent runs, newest first, optionally limited.
	ListRuns(ctx context.Context, limit int) ([]*models.AnalysisRun, error)

	// ListRunsForSuite returns runs for one suite, newest first.
	ListRunsForSuite(ctx context.Context, suiteName string, limit int) ([]*models.AnalysisRun, error)
}
