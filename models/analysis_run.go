package models

import (
	"encoding/json"
	"time"

	"owlbench/domain/core"
	"owlbench/domain/verdict"
)

// AnalysisRun is one archived engine invocation: the suite it analyzed, the
// significance level it ran at, and the full result bundle as stored JSON.
type AnalysisRun struct {
	ID        core.RunID      `db:"id" json:"id"`
	SuiteName string          `db:"suite_name" json:"suite_name"`
	Alpha     float64         `db:"significance_level" json:"significance_level"`
	Bundle    json.RawMessage `db:"bundle" json:"bundle"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NewAnalysisRun wraps a finished bundle for archival. The bundle is
// serialized once here so every archive backend stores identical bytes.
func NewAnalysisRun(bundle *verdict.Bundle) (*AnalysisRun, error) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return nil, err
	}
	return &AnalysisRun{
		ID:        core.RunID(core.NewID()),
		SuiteName: bundle.SuiteName,
		Alpha:     bundle.Alpha,
		Bundle:    raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DecodeBundle unpacks the stored result bundle.
func (r *AnalysisRun) DecodeBundle() (*verdict.Bundle, error) {
	var bundle verdict.Bundle
	if err := json.Unmarshal(r.Bundle, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}
