package aqarfetcher

import (
	"fmt"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/pkg/retry"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// AqarFetcherAdapter owns all interaction with the listings GraphQL API.
type AqarFetcherAdapter struct {
	// parent collector, shares limit rules with its clones
	collector *colly.Collector
	baseURL   string
	retry     retry.Policy
}

// NewAqarFetcherAdapter creates the adapter for the given GraphQL endpoint.
// The retry policy is applied per page request.
func NewAqarFetcherAdapter(baseURL string, retryPolicy retry.Policy) (*AqarFetcherAdapter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("AqarFetcherAdapter: baseURL is required")
	}

	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(constants.RequestTimeout)

	// One request in flight at a time; the pipeline's own inter-page delay
	// does the pacing.
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("AqarFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &AqarFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
		retry:     retryPolicy,
	}, nil
}
