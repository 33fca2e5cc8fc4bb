package usecase

import (
	"context"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port/usecases"
)

// ScrapePartitionUseCase resolves one district: it fetches both family
// sub-segments, keeps the larger result set, filters it and enriches it with
// distance data.
type ScrapePartitionUseCase struct {
	fetchAll usecases.FetchListingsPort
	filter   *FilterListingsUseCase
	enricher *EnrichDistancesUseCase
}

// NewScrapePartitionUseCase wires the selector with its collaborators.
func NewScrapePartitionUseCase(
	fetchAll usecases.FetchListingsPort,
	filter *FilterListingsUseCase,
	enricher *EnrichDistancesUseCase,
) *ScrapePartitionUseCase {
	return &ScrapePartitionUseCase{
		fetchAll: fetchAll,
		filter:   filter,
		enricher: enricher,
	}
}

// Execute returns the partition result for the district, or nil when there
// is nothing to report (both sub-segment fetches failed or the winning one
// was empty). A failed sub-segment counts as zero listings for the
// selection; it only becomes fatal when both sides fail.
func (uc *ScrapePartitionUseCase) Execute(ctx context.Context, district domain.TargetDistrict, afterDate string, afterTimestamp int64) (*domain.PartitionResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":      "ScrapePartition",
		"district_id":   district.ID,
		"district_name": district.Name,
	})

	logger.Info("Scraping district", port.Fields{"direction_id": district.DirectionID, "after_date": afterDate})

	singles, singlesErr := uc.fetchAll.Execute(ctx, district, domain.FamilySingles, afterTimestamp)
	if singlesErr != nil {
		logger.Warn("Singles sub-segment fetch failed, treating as empty", port.Fields{"error": singlesErr.Error()})
		singles = nil
	}

	families, familiesErr := uc.fetchAll.Execute(ctx, district, domain.FamilyFamilies, afterTimestamp)
	if familiesErr != nil {
		logger.Warn("Families sub-segment fetch failed, treating as empty", port.Fields{"error": familiesErr.Error()})
		families = nil
	}

	logger.Info("Sub-segment counts", port.Fields{
		"singles":  len(singles),
		"families": len(families),
	})

	if singlesErr != nil && familiesErr != nil {
		logger.Warn("Both sub-segment fetches failed, district has no data", nil)
		return nil, nil
	}

	// Families wins only with a strictly greater count; ties select singles.
	winner := singles
	family := domain.FamilySingles
	if len(families) > len(singles) {
		winner = families
		family = domain.FamilyFamilies
	}
	familyType := domain.FamilyTypeName(family)

	if len(winner) == 0 {
		logger.Info("No new listings found for district", nil)
		return nil, nil
	}

	logger.Info("Selected sub-segment", port.Fields{"family_type": familyType, "listings": len(winner)})

	filtered, filteredOut := uc.filter.Execute(ctx, winner)
	if len(filtered) == 0 {
		logger.Info("No listings match the filtering criteria", port.Fields{"filtered_out": filteredOut})
		return nil, nil
	}

	filtered = uc.enricher.Execute(ctx, filtered)

	return &domain.PartitionResult{
		Listings: filtered,
		Metadata: domain.PartitionMetadata{
			DistrictID:       district.ID,
			DistrictName:     district.Name,
			DirectionID:      district.DirectionID,
			TotalListings:    len(winner),
			FilteredListings: len(filtered),
			FilteredOutCount: filteredOut,
			FamilyType:       familyType,
			AfterDate:        afterDate,
			ScrapeTimestamp:  time.Now().Format(time.RFC3339),
		},
	}, nil
}
