package aqarfetcher

import (
	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// GraphQL request structures
type graphQLRequest struct {
	OperationName string           `json:"operationName"`
	Variables     requestVariables `json:"variables"`
	Query         string           `json:"query"`
}

type requestVariables struct {
	Size  int         `json:"size"`
	From  int         `json:"from"`
	Sort  sortInput   `json:"sort"`
	Sov   sovFilter   `json:"sov"`
	Where whereFilter `json:"where"`
}

// Upstream sorts by creation time, then by has-image.
type sortInput struct {
	CreateTime string `json:"create_time"`
	HasImg     string `json:"has_img"`
}

type sovFilter struct {
	ListingCategory  int    `json:"listing_category"`
	CityID           int    `json:"city_id"`
	DistrictID       int    `json:"district_id"`
	DirectionID      int    `json:"direction_id"`
	Enabled          bool   `json:"enabled"`
	CampaignCategory string `json:"campaign_category"`
}

type whereFilter struct {
	Category    eqInt    `json:"category"`
	CityID      eqInt    `json:"city_id"`
	DirectionID eqInt    `json:"direction_id"`
	DistrictID  eqInt    `json:"district_id"`
	Family      eqInt    `json:"family"`
	CreateTime  gteInt64 `json:"create_time"`
}

type eqInt struct {
	Eq int `json:"eq"`
}

type gteInt64 struct {
	Gte int64 `json:"gte"`
}

const findListingsQuery = `fragment WebResult on WebResults {
  total
  listings {
    id
    rnpl_monthly_price
    ac
    age
    apts
    area
    backyard
    beds
    category
    city_id
    create_time
    published_at
    direction_id
    district_id
    province_id
    extra_unit
    family
    family_section
    fb
    fl
    furnished
    ketchen
    last_update
    refresh
    lift
    livings
    location {
      lat
      lng
      __typename
    }
    men_place
    price
    price_2_payments
    price_4_payments
    price_12_payments
    range_price
    rent_period
    rooms
    stairs
    stores
    status
    street_direction
    user {
      phone
      name
      bml_license_number
      bml_url
    }
    wc
    women_place
    published
    content
    address
    district
    direction
    city
    title
    path
    uri
    range_price
    original_range_price
    plan_no
    parcel_no
  }
}

query findListings($size: Int, $from: Int, $sort: SortInput, $where: WhereInput, $polygon: [LocationInput!], $daily_renting_filter: DailyRentingFilter, $sov: SovListingsFilter) {
  Web {
    find(
      size: $size
      from: $from
      sort: $sort
      where: $where
      polygon: $polygon
      daily_renting_filter: $daily_renting_filter
    ) {
      ...WebResult
      __typename
    }
    sov: find(
      from: $from
      sort: $sort
      where: $where
      polygon: $polygon
      daily_renting_filter: $daily_renting_filter
      size: 6
      sov_listings: $sov
    ) {
      ...WebResult
      __typename
    }
    __typename
  }
}`

// buildGraphQLRequest assembles the findListings request for one page.
func buildGraphQLRequest(q domain.PageQuery) graphQLRequest {
	return graphQLRequest{
		OperationName: "findListings",
		Variables: requestVariables{
			Size: q.Size,
			From: q.From,
			Sort: sortInput{CreateTime: "desc", HasImg: "desc"},
			Sov: sovFilter{
				ListingCategory:  constants.ListingCategory,
				CityID:           constants.CityID,
				DistrictID:       q.DistrictID,
				DirectionID:      q.DirectionID,
				Enabled:          true,
				CampaignCategory: "PROMOTED",
			},
			Where: whereFilter{
				Category:    eqInt{Eq: constants.ListingCategory},
				CityID:      eqInt{Eq: constants.CityID},
				DirectionID: eqInt{Eq: q.DirectionID},
				DistrictID:  eqInt{Eq: q.DistrictID},
				Family:      eqInt{Eq: q.Family},
				CreateTime:  gteInt64{Gte: q.AfterTimestamp},
			},
		},
		Query: findListingsQuery,
	}
}
