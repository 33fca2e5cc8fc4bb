// Package googlemaps implements the distance provider port on top of the
// Google Maps Distance Matrix API.
package googlemaps

import (
	"fmt"
	"net/http"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// GoogleMapsAdapter calls the Distance Matrix API over plain HTTP. It does
// not retry: batch failures degrade into tagged placeholder results at the
// use-case level.
type GoogleMapsAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleMapsAdapter creates the adapter. The API key is required.
func NewGoogleMapsAdapter(apiKey string) (*GoogleMapsAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("googlemaps adapter: API key is required")
	}

	return &GoogleMapsAdapter{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: constants.RequestTimeout,
		},
	}, nil
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (a *GoogleMapsAdapter) WithBaseURL(baseURL string) *GoogleMapsAdapter {
	a.baseURL = baseURL
	return a
}
