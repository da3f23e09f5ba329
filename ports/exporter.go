package ports

import (
	"context"

	"owlbench/domain/verdict"
)

// TableExporter renders a result bundle into an external tabular artifact
// (spreadsheet, CSV) for distribution outside the service.
type TableExporter interface {
	// Export writes the bundle to the given path and returns the path of
	// the written artifact.
	Export(ctx context.Context, bundle *verdict.Bundle, path string) (string, error)
}
