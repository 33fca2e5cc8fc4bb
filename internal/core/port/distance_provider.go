package port

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// DistanceProviderPort resolves driving distances from a single origin to a
// batch of destinations. One call maps to one provider request, so callers
// must respect the provider's per-request destination cap.
//
// A nil error guarantees exactly one DistanceInfo per destination, in
// destination order; elements the provider could not route still get an
// entry carrying the provider's status tag. A non-nil error means the whole
// batch failed and no per-destination data is available.
type DistanceProviderPort interface {
	BatchDistances(ctx context.Context, origin domain.Coordinate, destinations []domain.Coordinate) ([]domain.DistanceInfo, error)
}
