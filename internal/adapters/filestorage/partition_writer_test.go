package filestorage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

func testResult() *domain.PartitionResult {
	rooms := 3
	price := 45000.0
	return &domain.PartitionResult{
		Listings: []domain.FilteredListing{{Rooms: &rooms, Price: &price, FullURL: "https://sa.aqar.fm/ad/1?x=1&y=2"}},
		Metadata: domain.PartitionMetadata{
			DistrictID:       461,
			DistrictName:     "Al Olaya",
			FilteredListings: 1,
			FamilyType:       "singles",
		},
	}
}

func TestWritePartitionCreatesDistrictFile(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewPartitionWriterAdapter(dir, domain.Coordinate{Lat: 24.7136, Lng: 46.6753})
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	path, err := writer.WritePartition(context.Background(), testResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(path) != "Al Olaya_listings.json" {
		t.Errorf("file name = %q; want %q", filepath.Base(path), "Al Olaya_listings.json")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}

	metadata, ok := doc["metadata"].(map[string]any)
	if !ok {
		t.Fatal("expected a metadata object")
	}
	if metadata["district_name"] != "Al Olaya" {
		t.Errorf("district_name = %v; want Al Olaya", metadata["district_name"])
	}
	if _, ok := metadata["filters"]; !ok {
		t.Error("expected filters in metadata")
	}

	data, ok := doc["data"].(map[string]any)
	if !ok {
		t.Fatal("expected a data object")
	}
	web := data["Web"].(map[string]any)
	find := web["find"].(map[string]any)
	if find["total"].(float64) != 1 {
		t.Errorf("total = %v; want 1", find["total"])
	}
	if find["__typename"] != "WebResults" {
		t.Errorf("__typename = %v; want WebResults", find["__typename"])
	}

	// URLs must survive unescaped for the export sink.
	if !strings.Contains(string(raw), "https://sa.aqar.fm/ad/1?x=1&y=2") {
		t.Error("expected the full URL to be written without HTML escaping")
	}
}

func TestWritePartitionLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewPartitionWriterAdapter(dir, domain.Coordinate{})
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	if _, err := writer.WritePartition(context.Background(), testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file %q left behind", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one output file, got %d", len(entries))
	}
}

func TestWritePartitionCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2026-08-30")
	writer, err := NewPartitionWriterAdapter(dir, domain.Coordinate{})
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	if _, err := writer.WritePartition(context.Background(), testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir was not created: %v", err)
	}
}

func TestWritePartitionRejectsNilResult(t *testing.T) {
	writer, err := NewPartitionWriterAdapter(t.TempDir(), domain.Coordinate{})
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	if _, err := writer.WritePartition(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil result")
	}
}
