package ports

import (
	"context"

	"goscreen/domain/screening"
)

// ReporterPort renders a session report into one output format.
type ReporterPort interface {
	// Render produces the report document.
	Render(ctx context.Context, report screening.Report) ([]byte, error)
	// Extension is the file extension for the format, without the dot.
	Extension() string
}
