package domain

import "github.com/google/uuid"

// DistrictOutcome is the per-partition success/failure record of a run.
type DistrictOutcome struct {
	DistrictID   int    `json:"district_id"`
	DistrictName string `json:"district_name"`
	Status       string `json:"status"` // "ok", "no_data" or "failed"
	Error        string `json:"error,omitempty"`
	Listings     int    `json:"listings"`
}

// RunReport summarizes one complete scraping run across all target districts.
// No single district failure aborts a run, so the report always covers every
// target.
type RunReport struct {
	RunID      uuid.UUID         `json:"run_id"`
	ScrapeDate string            `json:"scrape_date"`
	AfterDate  string            `json:"after_date"`
	Succeeded  int               `json:"succeeded"`
	NoData     int               `json:"no_data"`
	Failed     int               `json:"failed"`
	Districts  []DistrictOutcome `json:"districts"`
}
