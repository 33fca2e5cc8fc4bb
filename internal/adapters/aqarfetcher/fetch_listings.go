package aqarfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// Structures for parsing the listings API response
type responseRoot struct {
	Data struct {
		Web struct {
			Find listingsBody `json:"find"`
		} `json:"Web"`
	} `json:"data"`
}

type listingsBody struct {
	Total    int                 `json:"total"`
	Listings []domain.RawListing `json:"listings"`
}

// FetchPage fetches one page of listings. Transport failures and non-success
// statuses are retried under the adapter's policy; an error is returned only
// after the attempts are exhausted.
func (a *AqarFetcherAdapter) FetchPage(ctx context.Context, query domain.PageQuery) (*domain.ListingsPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{
		"component":   "AqarFetcherAdapter(FetchPage)",
		"district_id": query.DistrictID,
		"offset":      query.From,
	})

	jsonData, err := json.Marshal(buildGraphQLRequest(query))
	if err != nil {
		return nil, fmt.Errorf("aqar adapter: failed to marshal request: %w", err)
	}

	var page *domain.ListingsPage

	retryPolicy := a.retry
	retryPolicy.OnRetry = func(attempt int, attemptErr error, delay time.Duration) {
		fetchLogger.Warn("Listings page request failed, retrying", port.Fields{
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   attemptErr.Error(),
		})
	}

	err = retryPolicy.Do(ctx, "listings page request", func() error {
		p, postErr := a.postPage(fetchLogger, jsonData)
		if postErr != nil {
			return postErr
		}
		page = p
		return nil
	})
	if err != nil {
		fetchLogger.Error("Listings page request exhausted retries", err, nil)
		return nil, err
	}

	fetchLogger.Debug("Fetched listings page", port.Fields{
		"total":    page.Total,
		"listings": len(page.Listings),
	})

	return page, nil
}

// postPage performs a single POST attempt against the GraphQL endpoint.
func (a *AqarFetcherAdapter) postPage(logger port.LoggerPort, jsonData []byte) (*domain.ListingsPage, error) {
	collector := a.collector.Clone()

	var page *domain.ListingsPage
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Making request to listings API", port.Fields{"url": r.URL.String()})
		r.Headers.Set("Content-Type", "application/json")
	})

	collector.OnResponse(func(r *colly.Response) {
		var data responseRoot
		if err := json.Unmarshal(r.Body, &data); err != nil {
			responseErr = fmt.Errorf("aqar adapter: failed to unmarshal json: %w", err)
			return
		}
		page = &domain.ListingsPage{
			Total:    data.Data.Web.Find.Total,
			Listings: data.Data.Web.Find.Listings,
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("aqar adapter: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := collector.PostRaw(a.baseURL, jsonData); err != nil {
		return nil, fmt.Errorf("aqar adapter: failed to post request: %w", err)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}
	if page == nil {
		return nil, fmt.Errorf("aqar adapter: no response received")
	}

	return page, nil
}
