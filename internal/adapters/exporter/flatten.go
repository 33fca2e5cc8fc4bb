package exporter

import (
	"encoding/json"
	"sort"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// Column order the sink consumers expect: business-critical columns first,
// everything else alphabetical after them.
var priorityColumns = []string{
	"rooms",
	"price",
	"rnpl_monthly_price",
	"distance_from_office_km",
	"distance_duration",
	"content",
	"full_url",
	"location_address",
	"location_lng",
	"location_lat",
	"create_time_riyadh",
	"published_at_riyadh",
	"last_update_riyadh",
}

// flattenListing turns a listing with nested location/user/distance objects
// into a flat column->value map.
func flattenListing(listing domain.FilteredListing) map[string]any {
	raw, err := json.Marshal(listing)
	if err != nil {
		return nil
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil
	}

	flattened := make(map[string]any, len(record)+12)

	for key, value := range record {
		switch key {
		case "location":
			loc, ok := value.(map[string]any)
			if !ok {
				flattened["location"] = value
				continue
			}
			flattened["location_address"] = loc["address"]
			flattened["location_lat"] = loc["lat"]
			flattened["location_lng"] = loc["lng"]
			flattened["location_district"] = loc["district"]
			flattened["location_direction"] = loc["direction"]
			flattened["location_city"] = loc["city"]
			if gh, ok := loc["geohash"]; ok {
				flattened["location_geohash"] = gh
			}
			if dist, ok := loc["distance_from_office"].(map[string]any); ok {
				flattened["distance_from_office_km"] = dist["distance_km"]
				flattened["distance_duration"] = dist["duration_text"]
				flattened["distance_meters"] = dist["distance_meters"]
				flattened["distance_seconds"] = dist["duration_seconds"]
				flattened["distance_status"] = dist["status"]
			}
		case "user":
			user, ok := value.(map[string]any)
			if !ok {
				flattened["user"] = value
				continue
			}
			flattened["user_name"] = user["name"]
			flattened["user_phone"] = user["phone"]
			flattened["user_bml_license"] = user["bml_license_number"]
			flattened["user_bml_url"] = user["bml_url"]
		default:
			flattened[key] = value
		}
	}

	return flattened
}

// orderColumns builds the final column list: priority columns that actually
// occur, then the remaining columns sorted alphabetically.
func orderColumns(records []map[string]any) []string {
	seen := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			seen[key] = true
		}
	}

	isPriority := make(map[string]bool, len(priorityColumns))
	var ordered []string
	for _, col := range priorityColumns {
		isPriority[col] = true
		if seen[col] {
			ordered = append(ordered, col)
		}
	}

	var remaining []string
	for col := range seen {
		if !isPriority[col] {
			remaining = append(remaining, col)
		}
	}
	sort.Strings(remaining)

	return append(ordered, remaining...)
}
