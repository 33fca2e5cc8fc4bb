package configs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// targetDistrictsSchema constrains the TARGET_DISTRICTS environment
// variable: a non-empty array of {id, name} objects.
const targetDistrictsSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "integer", "minimum": 1},
			"name": {"type": "string", "minLength": 1}
		}
	}
}`

type targetDistrictEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// districtRecord is one entry of the districts metadata file. Only the
// direction id is consumed; the rest of the record is ignored.
type districtRecord struct {
	Direction *struct {
		DirectionID int `json:"direction_id"`
	} `json:"direction"`
}

// LoadTargetDistricts parses and validates the TARGET_DISTRICTS value and
// resolves each district's direction id from the districts metadata file.
// Districts missing from the metadata file are skipped with a warning: the
// upstream query needs the direction id to return anything useful.
func LoadTargetDistricts(cfg *AppConfig) ([]domain.TargetDistrict, error) {
	schema, err := jsonschema.CompileString("target_districts.json", targetDistrictsSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile target districts schema: %w", err)
	}

	var rawValue interface{}
	if err := json.Unmarshal([]byte(cfg.Scrape.TargetDistrictsJSON), &rawValue); err != nil {
		return nil, fmt.Errorf("TARGET_DISTRICTS is not valid JSON: %w", err)
	}
	if err := schema.Validate(rawValue); err != nil {
		return nil, fmt.Errorf("TARGET_DISTRICTS failed validation: %w", err)
	}

	var entries []targetDistrictEntry
	if err := json.Unmarshal([]byte(cfg.Scrape.TargetDistrictsJSON), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode TARGET_DISTRICTS: %w", err)
	}

	directions, err := loadDistrictDirections(cfg.Scrape.DistrictsFile)
	if err != nil {
		return nil, err
	}

	districts := make([]domain.TargetDistrict, 0, len(entries))
	for _, entry := range entries {
		directionID, ok := directions[entry.ID]
		if !ok {
			log.Printf("Warning: district %d (%s) not found in %s, skipping\n",
				entry.ID, entry.Name, cfg.Scrape.DistrictsFile)
			continue
		}
		districts = append(districts, domain.TargetDistrict{
			ID:          entry.ID,
			Name:        strings.TrimSpace(entry.Name),
			DirectionID: directionID,
		})
	}

	if len(districts) == 0 {
		return nil, fmt.Errorf("none of the target districts are present in %s", cfg.Scrape.DistrictsFile)
	}

	return districts, nil
}

// loadDistrictDirections reads the districts metadata file and returns a
// district id to direction id mapping. The file keys are district ids as
// strings.
func loadDistrictDirections(path string) (map[int]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read districts file %s: %w", path, err)
	}

	var records map[string]districtRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse districts file %s: %w", path, err)
	}

	directions := make(map[int]int, len(records))
	for key, record := range records {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			continue
		}
		// Records without a direction default to 1.
		directionID := 1
		if record.Direction != nil {
			directionID = record.Direction.DirectionID
		}
		directions[id] = directionID
	}
	return directions, nil
}
