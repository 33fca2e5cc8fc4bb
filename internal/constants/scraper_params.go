package constants

import "time"

// Filtering criteria for listings. Room count is an inclusive range; price
// is a ceiling in the upstream's currency unit.
const (
	MinRooms = 2
	MaxRooms = 4
	MaxPrice = 60000
)

// Listings API parameters.
const (
	PageSize        = 20
	CityID          = 21
	ListingCategory = 1

	// Delay between successful page fetches, to respect upstream rate limits.
	PageDelay = 1 * time.Second

	RequestTimeout = 30 * time.Second

	// Retry policy for a failed page request.
	MaxRetries     = 3
	RetryBaseDelay = 1 * time.Second
)

// Distance-matrix provider parameters.
const (
	// The provider accepts at most 25 destinations per request.
	DistanceBatchSize = 25

	// Delay between distance-matrix batches.
	DistanceBatchDelay = 2 * time.Second

	MileToKm = 1.60934
)

// Timezone the derived timestamp fields are normalized into.
const RiyadhTimezone = "Asia/Riyadh"

// ScraperKeyPrefix namespaces last-run repository keys.
const ScraperKeyPrefix = "districts_scraper"
