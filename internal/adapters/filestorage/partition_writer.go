// Package filestorage persists partition results as per-district JSON files
// consumed by the export sink.
package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
)

// Output file DTOs. The layout mirrors the upstream response shape so the
// files stay drop-in compatible with earlier consumers.
type outputDocument struct {
	Metadata outputMetadata `json:"metadata"`
	Data     outputData     `json:"data"`
}

type outputMetadata struct {
	domain.PartitionMetadata
	Filters             outputFilters  `json:"filters"`
	OfficeLocation      outputOffice   `json:"office_location"`
	DistanceCalculation outputDistance `json:"distance_calculation"`
}

type outputFilters struct {
	MinRooms int     `json:"min_rooms"`
	MaxRooms int     `json:"max_rooms"`
	MaxPrice float64 `json:"max_price"`
}

type outputOffice struct {
	Coordinates string `json:"coordinates"`
	Description string `json:"description"`
}

type outputDistance struct {
	Service string `json:"service"`
	Mode    string `json:"mode"`
	Units   string `json:"units"`
}

type outputData struct {
	Web outputWeb `json:"Web"`
}

type outputWeb struct {
	Find     outputFind `json:"find"`
	Typename string     `json:"__typename"`
}

type outputFind struct {
	Total    int                      `json:"total"`
	Listings []domain.FilteredListing `json:"listings"`
	Typename string                   `json:"__typename"`
}

// PartitionWriterAdapter writes one JSON file per partition into the run's
// output directory.
type PartitionWriterAdapter struct {
	outputDir string
	office    domain.Coordinate
}

// NewPartitionWriterAdapter creates the writer for the given directory.
func NewPartitionWriterAdapter(outputDir string, office domain.Coordinate) (*PartitionWriterAdapter, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("filestorage: output directory is required")
	}
	return &PartitionWriterAdapter{outputDir: outputDir, office: office}, nil
}

// WritePartition writes the result atomically: into a temp file first, then
// renamed into place, so a crash mid-write never leaves a truncated
// partition file behind.
func (a *PartitionWriterAdapter) WritePartition(ctx context.Context, result *domain.PartitionResult) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PartitionWriterAdapter",
	})

	if result == nil {
		return "", fmt.Errorf("filestorage: nil partition result")
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("filestorage: create output dir: %w", err)
	}

	doc := outputDocument{
		Metadata: outputMetadata{
			PartitionMetadata: result.Metadata,
			Filters: outputFilters{
				MinRooms: constants.MinRooms,
				MaxRooms: constants.MaxRooms,
				MaxPrice: constants.MaxPrice,
			},
			OfficeLocation: outputOffice{
				Coordinates: fmt.Sprintf("%f,%f", a.office.Lat, a.office.Lng),
				Description: "Office location for distance calculations",
			},
			DistanceCalculation: outputDistance{
				Service: "Google Maps Distance Matrix API",
				Mode:    "driving",
				Units:   "metric",
			},
		},
		Data: outputData{
			Web: outputWeb{
				Find: outputFind{
					Total:    len(result.Listings),
					Listings: result.Listings,
					Typename: "WebResults",
				},
				Typename: "WebQryOps",
			},
		},
	}

	filename := result.Metadata.DistrictName + "_listings.json"
	finalPath := filepath.Join(a.outputDir, filename)
	tmpPath := finalPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("filestorage: create temp file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("filestorage: encode partition %q: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("filestorage: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("filestorage: rename into place: %w", err)
	}

	logger.Info("Saved partition file", port.Fields{
		"file":     filename,
		"listings": len(result.Listings),
	})

	return finalPath, nil
}
