package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 5

// FilterListingsUseCase applies the inclusion predicates to raw listings and
// attaches the derived fields (normalized timestamps, full URL, geohash).
type FilterListingsUseCase struct {
	minRooms int
	maxRooms int
	maxPrice float64

	// Site root the listing path is appended to, i.e. the API endpoint with
	// its /graphql suffix stripped.
	baseURL  string
	location *time.Location
}

// NewFilterListingsUseCase creates the filter. apiURL is the GraphQL
// endpoint from configuration.
func NewFilterListingsUseCase(apiURL string) *FilterListingsUseCase {
	loc, err := time.LoadLocation(constants.RiyadhTimezone)
	if err != nil {
		// Riyadh has no DST, a fixed offset is equivalent.
		loc = time.FixedZone("+03", 3*60*60)
	}

	return &FilterListingsUseCase{
		minRooms: constants.MinRooms,
		maxRooms: constants.MaxRooms,
		maxPrice: constants.MaxPrice,
		baseURL:  strings.TrimSuffix(apiURL, "/graphql"),
		location: loc,
	}
}

// Execute returns the listings passing the room and price predicates, with
// derived fields attached, plus the number of rejected listings. A rejected
// listing never halts processing of the rest.
func (uc *FilterListingsUseCase) Execute(ctx context.Context, listings []domain.RawListing) ([]domain.FilteredListing, int) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FilterListings",
	})

	var filtered []domain.FilteredListing
	filteredOut := 0

	for i := range listings {
		l := &listings[i]

		if l.Rooms == nil || *l.Rooms < uc.minRooms || *l.Rooms > uc.maxRooms {
			filteredOut++
			continue
		}
		if l.Price == nil || *l.Price > uc.maxPrice {
			filteredOut++
			continue
		}

		filtered = append(filtered, uc.toFilteredListing(l))
	}

	logger.Debug("Applied listing filters", port.Fields{
		"input":        len(listings),
		"kept":         len(filtered),
		"filtered_out": filteredOut,
	})

	return filtered, filteredOut
}

// toFilteredListing derives the normalized fields and reorders the record
// into the fixed export layout.
func (uc *FilterListingsUseCase) toFilteredListing(l *domain.RawListing) domain.FilteredListing {
	location := l.Location
	if location == nil {
		location = &domain.Location{}
	}
	// The top-level address/district/direction/city fields belong to the
	// location sub-object in the output layout.
	location.Address = l.Address
	location.District = l.District
	location.Direction = l.Direction
	location.City = l.City
	if location.Lat != nil && location.Lng != nil {
		location.Geohash = geohash.EncodeWithPrecision(*location.Lat, *location.Lng, geohashPrecision)
	}

	fullURL := uc.baseURL
	if l.Path != nil {
		fullURL += *l.Path
	}

	return domain.FilteredListing{
		Rooms:    l.Rooms,
		Price:    l.Price,
		Location: location,

		CreateTimeRiyadh:  uc.ConvertToRiyadhTime(l.CreateTime),
		PublishedAtRiyadh: uc.ConvertToRiyadhTime(l.PublishedAt),
		LastUpdateRiyadh:  uc.ConvertToRiyadhTime(l.LastUpdate),
		FullURL:           fullURL,

		ID:              l.ID,
		Title:           l.Title,
		Area:            l.Area,
		Beds:            l.Beds,
		Wc:              l.Wc,
		Furnished:       l.Furnished,
		Ac:              l.Ac,
		Lift:            l.Lift,
		Age:             l.Age,
		Fl:              l.Fl,
		Livings:         l.Livings,
		Ketchen:         l.Ketchen,
		Backyard:        l.Backyard,
		Stairs:          l.Stairs,
		Stores:          l.Stores,
		MenPlace:        l.MenPlace,
		WomenPlace:      l.WomenPlace,
		Family:          l.Family,
		RentPeriod:      l.RentPeriod,
		StreetDirection: l.StreetDirection,
		Status:          l.Status,
		Published:       l.Published,
		Content:         l.Content,

		RnplMonthlyPrice:   l.RnplMonthlyPrice,
		Price2Payments:     l.Price2Payments,
		Price4Payments:     l.Price4Payments,
		Price12Payments:    l.Price12Payments,
		RangePrice:         l.RangePrice,
		OriginalRangePrice: l.OriginalRangePrice,
		PlanNo:             l.PlanNo,
		ParcelNo:           l.ParcelNo,
		ExtraUnit:          l.ExtraUnit,
		FamilySection:      l.FamilySection,
		Fb:                 l.Fb,
		Refresh:            l.Refresh,
		User:               l.User,
		Path:               l.Path,
		URI:                l.URI,

		CreateTime:  l.CreateTime,
		PublishedAt: l.PublishedAt,
		LastUpdate:  l.LastUpdate,

		Category:    l.Category,
		CityID:      l.CityID,
		DirectionID: l.DirectionID,
		DistrictID:  l.DistrictID,
		ProvinceID:  l.ProvinceID,
		Apts:        l.Apts,
	}
}

// ConvertToRiyadhTime normalizes an upstream timestamp value (epoch number,
// numeric string or ISO string) into an ISO-8601 string in the Riyadh
// timezone. Absent or unparsable values yield nil, never an error.
func (uc *FilterListingsUseCase) ConvertToRiyadhTime(value any) *string {
	var t time.Time

	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		if v == 0 {
			return nil
		}
		t = time.Unix(int64(v), 0)
	case int64:
		if v == 0 {
			return nil
		}
		t = time.Unix(v, 0)
	case int:
		if v == 0 {
			return nil
		}
		t = time.Unix(int64(v), 0)
	case string:
		if v == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			epoch, numErr := strconv.ParseFloat(v, 64)
			if numErr != nil {
				return nil
			}
			parsed = time.Unix(int64(epoch), 0)
		}
		t = parsed
	default:
		return nil
	}

	s := t.In(uc.location).Format(time.RFC3339)
	return &s
}
