package googlemaps

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

var distanceValuePattern = regexp.MustCompile(`[\d]+\.?\d*`)

// toDistanceInfo maps one matrix element to the domain result. A non-OK
// element keeps zero values and carries the provider's status tag.
func toDistanceInfo(el matrixElement) domain.DistanceInfo {
	if el.Status != "OK" {
		status := el.Status
		if status == "" {
			status = "UNKNOWN_ERROR"
		}
		return domain.DistanceInfo{
			DurationText: "N/A",
			Status:       status,
		}
	}

	return domain.DistanceInfo{
		DistanceKm:      parseDistanceText(el.Distance.Text),
		DistanceMeters:  el.Distance.Value,
		DurationText:    el.Duration.Text,
		DurationSeconds: el.Duration.Value,
		Status:          domain.DistanceStatusOK,
	}
}

// parseDistanceText extracts the kilometer value from a distance string like
// "8.2 km" or "1.2 mi". Miles are converted to kilometers and the result is
// rounded to 2 decimal places.
func parseDistanceText(text string) float64 {
	if text == "" {
		return 0
	}

	match := distanceValuePattern.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	if strings.Contains(strings.ToLower(text), "mi") {
		value *= constants.MileToKm
	}

	return math.Round(value*100) / 100
}
