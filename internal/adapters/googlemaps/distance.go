package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
)

// Distance Matrix response structures
type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Rows         []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixElement struct {
	Status   string      `json:"status"`
	Distance matrixValue `json:"distance"`
	Duration matrixValue `json:"duration"`
}

type matrixValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// BatchDistances resolves driving distances from the origin to every
// destination in one provider call. Callers keep batches within the
// provider's 25-destination cap.
func (a *GoogleMapsAdapter) BatchDistances(ctx context.Context, origin domain.Coordinate, destinations []domain.Coordinate) ([]domain.DistanceInfo, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GoogleMapsAdapter",
	})

	if len(destinations) == 0 {
		return nil, nil
	}

	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = fmt.Sprintf("%f,%f", d.Lat, d.Lng)
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destinations", strings.Join(dests, "|"))
	params.Set("mode", "driving")
	params.Set("language", "ar")
	params.Set("units", "metric")
	params.Set("key", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("googlemaps adapter: failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googlemaps adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("googlemaps adapter: unexpected status code: %d", resp.StatusCode)
	}

	var data matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("googlemaps adapter: failed to decode response: %w", err)
	}

	if data.Status != "OK" {
		if data.ErrorMessage != "" {
			return nil, fmt.Errorf("googlemaps adapter: API returned status %s: %s", data.Status, data.ErrorMessage)
		}
		return nil, fmt.Errorf("googlemaps adapter: API returned status %s", data.Status)
	}

	var elements []matrixElement
	if len(data.Rows) > 0 {
		elements = data.Rows[0].Elements
	}

	// One result per destination, in destination order. Elements the
	// provider omitted are treated as errored.
	results := make([]domain.DistanceInfo, len(destinations))
	for i := range destinations {
		if i >= len(elements) {
			results[i] = domain.DistanceInfo{DurationText: "N/A", Status: domain.DistanceStatusAPIError}
			continue
		}
		results[i] = toDistanceInfo(elements[i])
	}

	logger.Debug("Distance matrix batch resolved", port.Fields{"destinations": len(destinations)})

	return results, nil
}
