package domain

// Family sub-segment values used by the upstream query.
const (
	FamilySingles  = 0
	FamilyFamilies = 1
)

// FamilyTypeName maps a family flag to the human-readable sub-segment name
// recorded in partition metadata.
func FamilyTypeName(family int) string {
	if family == FamilyFamilies {
		return "families"
	}
	return "singles"
}

// TargetDistrict identifies one district to scrape. DirectionID comes from
// the districts metadata file, the rest from the TARGET_DISTRICTS config.
type TargetDistrict struct {
	ID          int
	Name        string
	DirectionID int
}

// PageQuery carries the parameters of a single page request against the
// listings API. Derived on each fetch iteration, never persisted.
type PageQuery struct {
	DistrictID     int
	DirectionID    int
	Family         int
	AfterTimestamp int64
	Size           int
	From           int
}

// ListingsPage is one bounded-size response chunk: the reported total count
// for the whole query plus the listings of this page in upstream order.
type ListingsPage struct {
	Total    int
	Listings []RawListing
}

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// PartitionMetadata describes how a partition result was produced.
type PartitionMetadata struct {
	DistrictID       int    `json:"district_id"`
	DistrictName     string `json:"district_name"`
	DirectionID      int    `json:"direction_id"`
	TotalListings    int    `json:"total_listings"`
	FilteredListings int    `json:"filtered_listings"`
	FilteredOutCount int    `json:"filtered_out_count"`
	FamilyType       string `json:"family_type"`
	AfterDate        string `json:"after_date"`
	ScrapeTimestamp  string `json:"scrape_timestamp"`
}

// PartitionResult is the unit handed to the persistence layer and the export
// sink: the winning sub-segment's enriched, filtered listings plus metadata.
type PartitionResult struct {
	Listings []FilteredListing
	Metadata PartitionMetadata
}
