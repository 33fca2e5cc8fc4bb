package googlemaps

import (
	"testing"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

func TestParseDistanceText(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"8.2 km", 8.2},
		{"8,2 km", 82}, // comma stripped, upstream never mixes separators
		{"1,250 km", 1250},
		{"1.0 mi", 1.61},
		{"2 mi", 3.22},
		{"0.5 mi", 0.8},
		{"350 m", 350},
		{"", 0},
		{"km", 0},
	}

	for _, tt := range tests {
		got := parseDistanceText(tt.text)
		if got != tt.want {
			t.Errorf("parseDistanceText(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestToDistanceInfoOKElement(t *testing.T) {
	el := matrixElement{
		Status:   "OK",
		Distance: matrixValue{Text: "8.2 km", Value: 8203},
		Duration: matrixValue{Text: "14 min", Value: 841},
	}

	info := toDistanceInfo(el)
	if info.Status != domain.DistanceStatusOK {
		t.Errorf("status = %q; want OK", info.Status)
	}
	if info.DistanceKm != 8.2 {
		t.Errorf("distance_km = %v; want 8.2", info.DistanceKm)
	}
	if info.DistanceMeters != 8203 {
		t.Errorf("distance_meters = %d; want 8203", info.DistanceMeters)
	}
	if info.DurationText != "14 min" || info.DurationSeconds != 841 {
		t.Errorf("duration = %q/%d; want 14 min/841", info.DurationText, info.DurationSeconds)
	}
}

func TestToDistanceInfoNonOKElement(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"ZERO_RESULTS", "ZERO_RESULTS"},
		{"NOT_FOUND", "NOT_FOUND"},
		{"", "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		info := toDistanceInfo(matrixElement{Status: tt.status})
		if info.Status != tt.want {
			t.Errorf("element status %q: got %q; want %q", tt.status, info.Status, tt.want)
		}
		if info.DistanceKm != 0 || info.DistanceMeters != 0 {
			t.Errorf("element status %q: expected zero distances", tt.status)
		}
		if info.DurationText != "N/A" {
			t.Errorf("element status %q: duration_text = %q; want N/A", tt.status, info.DurationText)
		}
	}
}
