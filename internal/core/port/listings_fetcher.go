package port

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// ListingsFetcherPort fetches one page of listings from the upstream API.
// Implementations own transport-level concerns (retries, timeouts); a
// returned error means the page could not be fetched at all.
type ListingsFetcherPort interface {
	FetchPage(ctx context.Context, query domain.PageQuery) (*domain.ListingsPage, error)
}
