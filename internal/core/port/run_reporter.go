package port

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// RunReporterPort publishes the summary of a finished run to an external
// consumer. Reporting is best-effort: a publish failure must not fail a run
// whose data was already persisted.
type RunReporterPort interface {
	PublishRunReport(ctx context.Context, report *domain.RunReport) error
}
