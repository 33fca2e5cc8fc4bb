package usecase

import (
	"context"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
)

// EnrichDistancesUseCase annotates filtered listings with the driving
// distance from the office, batching provider calls under the per-request
// destination cap.
type EnrichDistancesUseCase struct {
	provider   port.DistanceProviderPort
	office     domain.Coordinate
	batchSize  int
	batchDelay time.Duration
}

// NewEnrichDistancesUseCase creates the enricher for the given office
// coordinate.
func NewEnrichDistancesUseCase(provider port.DistanceProviderPort, office domain.Coordinate) *EnrichDistancesUseCase {
	return &EnrichDistancesUseCase{
		provider:   provider,
		office:     office,
		batchSize:  constants.DistanceBatchSize,
		batchDelay: constants.DistanceBatchDelay,
	}
}

// Execute attaches a distance result to every listing's location. Listings
// without coordinates are tagged NO_COORDINATES and never sent to the
// provider. A failed batch degrades to API_ERROR placeholders for that batch
// only; enrichment never fails the pipeline.
func (uc *EnrichDistancesUseCase) Execute(ctx context.Context, listings []domain.FilteredListing) []domain.FilteredListing {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "EnrichDistances",
	})

	// Collect coordinates of routable listings, remembering which listing
	// each coordinate belongs to.
	var coords []domain.Coordinate
	var coordIndex []int
	for i := range listings {
		loc := listings[i].Location
		if loc != nil && loc.Lat != nil && loc.Lng != nil {
			coords = append(coords, domain.Coordinate{Lat: *loc.Lat, Lng: *loc.Lng})
			coordIndex = append(coordIndex, i)
		}
	}

	logger.Info("Calculating distances from office", port.Fields{
		"listings":   len(listings),
		"routable":   len(coords),
		"batch_size": uc.batchSize,
	})

	results := make([]domain.DistanceInfo, 0, len(coords))
	for start := 0; start < len(coords); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(coords) {
			end = len(coords)
		}

		batch := coords[start:end]
		infos, err := uc.provider.BatchDistances(ctx, uc.office, batch)
		if err != nil {
			logger.Error("Distance batch failed, tagging batch as provider error", err, port.Fields{
				"batch_start": start,
				"batch_len":   len(batch),
			})
			infos = make([]domain.DistanceInfo, len(batch))
			for i := range infos {
				infos[i] = errorDistanceInfo()
			}
		}
		results = append(results, infos...)

		// Wait between batches, not after the last one.
		if end < len(coords) {
			uc.sleep(ctx)
		}
	}

	// Attach results back onto the listings.
	for n, i := range coordIndex {
		if listings[i].Location == nil {
			listings[i].Location = &domain.Location{}
		}
		info := results[n]
		listings[i].Location.DistanceFromOffice = &info
	}
	for i := range listings {
		loc := listings[i].Location
		if loc == nil {
			loc = &domain.Location{}
			listings[i].Location = loc
		}
		if loc.DistanceFromOffice == nil {
			noCoords := domain.DistanceInfo{
				DurationText: "N/A",
				Status:       domain.DistanceStatusNoCoordinates,
			}
			loc.DistanceFromOffice = &noCoords
		}
	}

	// Trailing delay so back-to-back enrichment calls across partitions keep
	// the same rate-limit cadence.
	uc.sleep(ctx)

	logger.Info("Distance enrichment completed", port.Fields{"results": len(results)})

	return listings
}

func (uc *EnrichDistancesUseCase) sleep(ctx context.Context) {
	if uc.batchDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(uc.batchDelay):
	}
}

func errorDistanceInfo() domain.DistanceInfo {
	return domain.DistanceInfo{
		DurationText: "N/A",
		Status:       domain.DistanceStatusAPIError,
	}
}
