package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// fakeFetcher serves pre-baked pages keyed by offset and records every query.
type fakeFetcher struct {
	pages   map[int]*domain.ListingsPage
	queries []domain.PageQuery
	failAt  int // offset to fail at; -1 disables
}

func (f *fakeFetcher) FetchPage(ctx context.Context, query domain.PageQuery) (*domain.ListingsPage, error) {
	f.queries = append(f.queries, query)
	if f.failAt >= 0 && query.From == f.failAt {
		return nil, errors.New("upstream unavailable")
	}
	page, ok := f.pages[query.From]
	if !ok {
		return &domain.ListingsPage{}, nil
	}
	return page, nil
}

func makeListings(n int) []domain.RawListing {
	listings := make([]domain.RawListing, n)
	for i := range listings {
		listings[i] = domain.RawListing{ID: i}
	}
	return listings
}

func newFetchUseCase(fetcher *fakeFetcher) *FetchAllListingsUseCase {
	uc := NewFetchAllListingsUseCase(fetcher)
	uc.pageDelay = 0
	return uc
}

func TestFetchAllPagesUntilTotalReached(t *testing.T) {
	fetcher := &fakeFetcher{
		failAt: -1,
		pages: map[int]*domain.ListingsPage{
			0:  {Total: 45, Listings: makeListings(20)},
			20: {Total: 45, Listings: makeListings(20)},
			40: {Total: 45, Listings: makeListings(5)},
		},
	}
	uc := newFetchUseCase(fetcher)

	district := domain.TargetDistrict{ID: 461, DirectionID: 2}
	got, err := uc.Execute(context.Background(), district, domain.FamilySingles, 1700000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 45 {
		t.Errorf("expected 45 listings, got %d", len(got))
	}

	wantOffsets := []int{0, 20, 40}
	if len(fetcher.queries) != len(wantOffsets) {
		t.Fatalf("expected %d page requests, got %d", len(wantOffsets), len(fetcher.queries))
	}
	for i, q := range fetcher.queries {
		if q.From != wantOffsets[i] {
			t.Errorf("request %d: offset = %d; want %d", i, q.From, wantOffsets[i])
		}
		if q.Size != 20 {
			t.Errorf("request %d: size = %d; want 20", i, q.Size)
		}
		if q.DistrictID != 461 || q.DirectionID != 2 {
			t.Errorf("request %d carries wrong district: %+v", i, q)
		}
	}
}

func TestFetchStopsOnShortPage(t *testing.T) {
	// Upstream claims 100 listings but runs dry after 25: the short second
	// page must end the loop regardless of the reported total.
	fetcher := &fakeFetcher{
		failAt: -1,
		pages: map[int]*domain.ListingsPage{
			0:  {Total: 100, Listings: makeListings(20)},
			20: {Total: 100, Listings: makeListings(5)},
		},
	}
	uc := newFetchUseCase(fetcher)

	got, err := uc.Execute(context.Background(), domain.TargetDistrict{ID: 1}, domain.FamilySingles, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 25 {
		t.Errorf("expected 25 listings, got %d", len(got))
	}
	if len(fetcher.queries) != 2 {
		t.Errorf("expected 2 page requests, got %d", len(fetcher.queries))
	}
}

func TestFetchTotalCapturedFromFirstPageOnly(t *testing.T) {
	// Later pages report a bigger total; the first page's 25 still rules.
	fetcher := &fakeFetcher{
		failAt: -1,
		pages: map[int]*domain.ListingsPage{
			0:  {Total: 25, Listings: makeListings(20)},
			20: {Total: 500, Listings: makeListings(20)},
		},
	}
	uc := newFetchUseCase(fetcher)

	got, err := uc.Execute(context.Background(), domain.TargetDistrict{ID: 1}, domain.FamilyFamilies, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 40 {
		t.Errorf("expected 40 listings, got %d", len(got))
	}
	if len(fetcher.queries) != 2 {
		t.Errorf("expected 2 page requests, got %d", len(fetcher.queries))
	}
}

func TestFetchEmptyFirstPage(t *testing.T) {
	fetcher := &fakeFetcher{
		failAt: -1,
		pages: map[int]*domain.ListingsPage{
			0: {Total: 0, Listings: nil},
		},
	}
	uc := newFetchUseCase(fetcher)

	got, err := uc.Execute(context.Background(), domain.TargetDistrict{ID: 1}, domain.FamilySingles, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no listings, got %d", len(got))
	}
	if len(fetcher.queries) != 1 {
		t.Errorf("expected a single page request, got %d", len(fetcher.queries))
	}
}

func TestFetchFailureDiscardsPartialData(t *testing.T) {
	fetcher := &fakeFetcher{
		failAt: 20,
		pages: map[int]*domain.ListingsPage{
			0: {Total: 45, Listings: makeListings(20)},
		},
	}
	uc := newFetchUseCase(fetcher)

	got, err := uc.Execute(context.Background(), domain.TargetDistrict{ID: 1}, domain.FamilySingles, 0)
	if err == nil {
		t.Fatal("expected an error when a page fails")
	}
	if got != nil {
		t.Errorf("expected no partial data, got %d listings", len(got))
	}
}

func TestFetchHonorsCancelledContext(t *testing.T) {
	fetcher := &fakeFetcher{failAt: -1}
	uc := newFetchUseCase(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, domain.TargetDistrict{ID: 1}, domain.FamilySingles, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(fetcher.queries) != 0 {
		t.Errorf("expected no requests after cancellation, got %d", len(fetcher.queries))
	}
}
