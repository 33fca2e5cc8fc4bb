package usecases

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// FetchListingsPort drives the paginated listings query to exhaustion for
// one district/direction/family combination.
//
// On success the returned slice holds every listing the upstream reported,
// in received order. Any page failing past the retry policy fails the whole
// fetch; partial accumulations are never returned.
type FetchListingsPort interface {
	Execute(ctx context.Context, district domain.TargetDistrict, family int, afterTimestamp int64) ([]domain.RawListing, error)
}
