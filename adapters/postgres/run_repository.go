package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"owlbench/domain/core"
	"owlbench/internal/errors"
	"owlbench/models"
	"owlbench/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunArchive for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run archive
func NewRunRepository(db *sqlx.DB) ports.RunArchive {
	return &RunRepositoryImpl{db: db}
}

// EnsureSchema creates the analysis_runs table if it does not exist.
func (r *RunRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id UUID PRIMARY KEY,
			suite_name TEXT NOT NULL,
			significance_level DOUBLE PRECISION NOT NULL,
			bundle JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_analysis_runs_suite
			ON analysis_runs (suite_name, created_at DESC);
	`)
	if err != nil {
		return errors.Wrap(err, "failed to ensure analysis_runs schema")
	}
	return nil
}

// SaveRun stores a finished run
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO analysis_runs (id, suite_name, significance_level, bundle, created_at)
		VALUES (:id, :suite_name, :significance_level, :bundle, :created_at)
	`, run)
	if err != nil {
		return errors.Wrap(err, "failed to save analysis run")
	}
	return nil
}

// GetRun retrieves a run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := r.db.GetContext(ctx, &run, `
		SELECT id, suite_name, significance_level, bundle, created_at
		FROM analysis_runs
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(fmt.Sprintf("analysis run %s", id))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis run")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.AnalysisRun
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, suite_name, significance_level, bundle, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list analysis runs")
	}
	return runs, nil
}

// ListRunsForSuite returns runs for one suite, newest first
func (r *RunRepositoryImpl) ListRunsForSuite(ctx context.Context, suiteName string, limit int) ([]*models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.AnalysisRun
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, suite_name, significance_level, bundle, created_at
		FROM analysis_runs
		WHERE suite_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, suiteName, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs for suite")
	}
	return runs, nil
}
