package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
)

// FetchAllListingsUseCase drives the paginated listings query to exhaustion
// for one district/direction/family combination.
type FetchAllListingsUseCase struct {
	fetcher   port.ListingsFetcherPort
	pageSize  int
	pageDelay time.Duration
}

// NewFetchAllListingsUseCase creates the use case with the standard page
// size and inter-page delay.
func NewFetchAllListingsUseCase(fetcher port.ListingsFetcherPort) *FetchAllListingsUseCase {
	return &FetchAllListingsUseCase{
		fetcher:   fetcher,
		pageSize:  constants.PageSize,
		pageDelay: constants.PageDelay,
	}
}

// Execute fetches every page for the partition and returns the accumulated
// listings in received order.
//
// The reported total is captured from the first page only. The loop stops
// when the accumulator reaches that total, or when a page comes back short
// (fewer records than the page size signals exhaustion even if the count
// bookkeeping disagrees). Any page failure fails the whole fetch: a partial
// accumulator is never returned.
func (uc *FetchAllListingsUseCase) Execute(ctx context.Context, district domain.TargetDistrict, family int, afterTimestamp int64) ([]domain.RawListing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "FetchAllListings",
		"district_id": district.ID,
		"family":      domain.FamilyTypeName(family),
	})

	var allListings []domain.RawListing
	totalListings := 0
	offset := 0

	logger.Info("Starting paginated fetch", port.Fields{"after_timestamp": afterTimestamp})

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page, err := uc.fetcher.FetchPage(ctx, domain.PageQuery{
			DistrictID:     district.ID,
			DirectionID:    district.DirectionID,
			Family:         family,
			AfterTimestamp: afterTimestamp,
			Size:           uc.pageSize,
			From:           offset,
		})
		if err != nil {
			logger.Error("Page fetch failed, discarding partial data", err, port.Fields{"offset": offset})
			return nil, fmt.Errorf("fetch listings: district %d offset %d: %w", district.ID, offset, err)
		}

		if offset == 0 {
			totalListings = page.Total
			logger.Info("Total listings reported by upstream", port.Fields{"total": totalListings})
		}

		allListings = append(allListings, page.Listings...)
		logger.Debug("Fetched page", port.Fields{"offset": offset, "page_listings": len(page.Listings)})

		if len(allListings) >= totalListings || len(page.Listings) < uc.pageSize {
			break
		}

		offset += uc.pageSize
		if uc.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.pageDelay):
			}
		}
	}

	logger.Info("Finished paginated fetch", port.Fields{
		"fetched": len(allListings),
		"total":   totalListings,
	})

	return allListings, nil
}
