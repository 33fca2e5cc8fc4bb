package usecases

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// ScrapePartitionPort resolves one district into its final annotated data
// set: fetch both family sub-segments, keep the larger, filter and enrich.
//
// A nil result with a nil error means "no data" (both sub-segments failed
// or the winner was empty), which callers treat as a skippable district,
// not an error.
type ScrapePartitionPort interface {
	Execute(ctx context.Context, district domain.TargetDistrict, afterDate string, afterTimestamp int64) (*domain.PartitionResult, error)
}
