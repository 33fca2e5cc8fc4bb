package usecases

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// OrchestrateRunPort runs the whole scraping pipeline over every target
// district and returns the run report. Individual district failures are
// recorded in the report, never propagated as an error.
type OrchestrateRunPort interface {
	Execute(ctx context.Context, districts []domain.TargetDistrict) (*domain.RunReport, error)
}
