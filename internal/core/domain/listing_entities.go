package domain

// DistanceInfo holds the driving distance from the office to a listing,
// as reported by the distance-matrix provider.
type DistanceInfo struct {
	DistanceKm      float64 `json:"distance_km"`
	DistanceMeters  int     `json:"distance_meters"`
	DurationText    string  `json:"duration_text"`
	DurationSeconds int     `json:"duration_seconds"`
	Status          string  `json:"status"`
}

// Distance result status tags. "OK" and provider-specific element statuses
// come straight from the distance-matrix API.
const (
	DistanceStatusOK            = "OK"
	DistanceStatusNoCoordinates = "NO_COORDINATES"
	DistanceStatusAPIError      = "API_ERROR"
)

// Location is the nested location object of a listing. Distance data is
// attached here after enrichment.
type Location struct {
	Lat                *float64      `json:"lat"`
	Lng                *float64      `json:"lng"`
	Address            *string       `json:"address"`
	District           *string       `json:"district"`
	Direction          *string       `json:"direction"`
	City               *string       `json:"city"`
	Geohash            string        `json:"geohash,omitempty"`
	DistanceFromOffice *DistanceInfo `json:"distance_from_office,omitempty"`
}

// User is the advertiser sub-object of a listing.
type User struct {
	Phone            *string `json:"phone"`
	Name             *string `json:"name"`
	BmlLicenseNumber *string `json:"bml_license_number"`
	BmlURL           *string `json:"bml_url"`
}

// RawListing is one listing exactly as the upstream API returns it. Almost
// every field is optional; timestamps arrive either as epoch numbers or as
// strings, so they stay untyped until the filter normalizes them.
type RawListing struct {
	ID       any       `json:"id"`
	Rooms    *int      `json:"rooms"`
	Price    *float64  `json:"price"`
	Location *Location `json:"location"`
	User     *User     `json:"user"`

	CreateTime  any `json:"create_time"`
	PublishedAt any `json:"published_at"`
	LastUpdate  any `json:"last_update"`
	Refresh     any `json:"refresh"`

	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Address   *string `json:"address"`
	District  *string `json:"district"`
	Direction *string `json:"direction"`
	City      *string `json:"city"`
	Path      *string `json:"path"`
	URI       *string `json:"uri"`

	Area       *float64 `json:"area"`
	Beds       *int     `json:"beds"`
	Wc         *int     `json:"wc"`
	Livings    *int     `json:"livings"`
	Apts       *int     `json:"apts"`
	Furnished  *int     `json:"furnished"`
	Ac         *int     `json:"ac"`
	Lift       *int     `json:"lift"`
	Age        *int     `json:"age"`
	Fl         *int     `json:"fl"`
	Ketchen    *int     `json:"ketchen"`
	Backyard   *int     `json:"backyard"`
	Stairs     *int     `json:"stairs"`
	Stores     *int     `json:"stores"`
	MenPlace   *int     `json:"men_place"`
	WomenPlace *int     `json:"women_place"`
	ExtraUnit  any      `json:"extra_unit"`

	Family          *int `json:"family"`
	FamilySection   any  `json:"family_section"`
	Fb              any  `json:"fb"`
	RentPeriod      *int `json:"rent_period"`
	StreetDirection *int `json:"street_direction"`
	Status          any  `json:"status"`
	Published       any  `json:"published"`

	RnplMonthlyPrice   *float64 `json:"rnpl_monthly_price"`
	Price2Payments     *float64 `json:"price_2_payments"`
	Price4Payments     *float64 `json:"price_4_payments"`
	Price12Payments    *float64 `json:"price_12_payments"`
	RangePrice         any      `json:"range_price"`
	OriginalRangePrice any      `json:"original_range_price"`
	PlanNo             *string  `json:"plan_no"`
	ParcelNo           *string  `json:"parcel_no"`

	Category    *int `json:"category"`
	CityID      *int `json:"city_id"`
	DirectionID *int `json:"direction_id"`
	DistrictID  *int `json:"district_id"`
	ProvinceID  *int `json:"province_id"`
}

// HasCoordinates reports whether the listing carries both latitude and
// longitude, i.e. whether it can be sent to the distance provider.
func (l *RawListing) HasCoordinates() bool {
	return l.Location != nil && l.Location.Lat != nil && l.Location.Lng != nil
}

// FilteredListing is a listing that passed the inclusion predicates, with
// the derived fields attached. The struct field order is deliberate: it is
// the presentation contract consumed by the export sink (business-critical
// fields first, then descriptive fields, then raw identifiers), and it is
// exactly the order in which fields are marshalled to the partition file.
type FilteredListing struct {
	Rooms    *int      `json:"rooms"`
	Price    *float64  `json:"price"`
	Location *Location `json:"location"`

	CreateTimeRiyadh  *string `json:"create_time_riyadh"`
	PublishedAtRiyadh *string `json:"published_at_riyadh"`
	LastUpdateRiyadh  *string `json:"last_update_riyadh"`
	FullURL           string  `json:"full_url"`

	ID              any      `json:"id"`
	Title           *string  `json:"title"`
	Area            *float64 `json:"area"`
	Beds            *int     `json:"beds"`
	Wc              *int     `json:"wc"`
	Furnished       *int     `json:"furnished"`
	Ac              *int     `json:"ac"`
	Lift            *int     `json:"lift"`
	Age             *int     `json:"age"`
	Fl              *int     `json:"fl"`
	Livings         *int     `json:"livings"`
	Ketchen         *int     `json:"ketchen"`
	Backyard        *int     `json:"backyard"`
	Stairs          *int     `json:"stairs"`
	Stores          *int     `json:"stores"`
	MenPlace        *int     `json:"men_place"`
	WomenPlace      *int     `json:"women_place"`
	Family          *int     `json:"family"`
	RentPeriod      *int     `json:"rent_period"`
	StreetDirection *int     `json:"street_direction"`
	Status          any      `json:"status"`
	Published       any      `json:"published"`
	Content         *string  `json:"content"`

	RnplMonthlyPrice   *float64 `json:"rnpl_monthly_price"`
	Price2Payments     *float64 `json:"price_2_payments"`
	Price4Payments     *float64 `json:"price_4_payments"`
	Price12Payments    *float64 `json:"price_12_payments"`
	RangePrice         any      `json:"range_price"`
	OriginalRangePrice any      `json:"original_range_price"`
	PlanNo             *string  `json:"plan_no"`
	ParcelNo           *string  `json:"parcel_no"`
	ExtraUnit          any      `json:"extra_unit"`
	FamilySection      any      `json:"family_section"`
	Fb                 any      `json:"fb"`
	Refresh            any      `json:"refresh"`
	User               *User    `json:"user"`
	Path               *string  `json:"path"`
	URI                *string  `json:"uri"`

	CreateTime  any `json:"create_time"`
	PublishedAt any `json:"published_at"`
	LastUpdate  any `json:"last_update"`

	Category    *int `json:"category"`
	CityID      *int `json:"city_id"`
	DirectionID *int `json:"direction_id"`
	DistrictID  *int `json:"district_id"`
	ProvinceID  *int `json:"province_id"`
	Apts        *int `json:"apts"`
}
