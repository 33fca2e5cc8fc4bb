// Package exporter converts persisted partition files into spreadsheet and
// delimited-text representations.
package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// partitionFile is the subset of the partition document the exporter needs.
type partitionFile struct {
	Data struct {
		Web struct {
			Find struct {
				Listings []domain.FilteredListing `json:"listings"`
			} `json:"find"`
		} `json:"Web"`
	} `json:"data"`
}

// ExporterAdapter reads every *_listings.json in the input directory and
// writes an .xlsx and a .csv per district into the output directory.
type ExporterAdapter struct {
	inputDir  string
	outputDir string
}

// NewExporterAdapter creates the exporter for the given directories.
func NewExporterAdapter(inputDir, outputDir string) (*ExporterAdapter, error) {
	if inputDir == "" || outputDir == "" {
		return nil, fmt.Errorf("exporter: input and output directories are required")
	}
	return &ExporterAdapter{inputDir: inputDir, outputDir: outputDir}, nil
}

// ConvertAll converts all partition files of the run. A file that fails to
// convert is logged and skipped; the remaining files still convert.
func (a *ExporterAdapter) ConvertAll(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ExporterAdapter",
	})

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return fmt.Errorf("exporter: create output dir: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(a.inputDir, "*_listings.json"))
	if err != nil {
		return fmt.Errorf("exporter: glob input dir: %w", err)
	}

	logger.Info("Converting partition files", port.Fields{"files": len(files)})

	converted := 0
	failed := 0
	for _, file := range files {
		if err := a.convertFile(file); err != nil {
			logger.Error("Failed to convert partition file", err, port.Fields{"file": filepath.Base(file)})
			failed++
			continue
		}
		converted++
	}

	logger.Info("Conversion finished", port.Fields{"converted": converted, "failed": failed})

	if converted == 0 && failed > 0 {
		return fmt.Errorf("exporter: all %d partition files failed to convert", failed)
	}
	return nil
}

func (a *ExporterAdapter) convertFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}

	var doc partitionFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}

	listings := doc.Data.Web.Find.Listings
	if len(listings) == 0 {
		return fmt.Errorf("no listings in %q", path)
	}

	records := make([]map[string]any, 0, len(listings))
	for _, l := range listings {
		records = append(records, flattenListing(l))
	}
	columns := orderColumns(records)

	district := strings.TrimSuffix(filepath.Base(path), "_listings.json")

	if err := a.writeXLSX(district, columns, records); err != nil {
		return err
	}
	return a.writeCSV(district, columns, records)
}

func (a *ExporterAdapter) writeXLSX(district string, columns []string, records []map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for rowIdx, record := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = cellValue(record[col])
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return fmt.Errorf("xlsx cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", rowIdx+2, err)
		}
	}

	path := filepath.Join(a.outputDir, district+"_listings.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}

func (a *ExporterAdapter) writeCSV(district string, columns []string, records []map[string]any) error {
	path := filepath.Join(a.outputDir, district+"_listings.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer file.Close()

	// UTF-8 BOM so spreadsheet applications detect the encoding.
	if _, err := file.WriteString("\xEF\xBB\xBF"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellString(record[col])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// cellValue keeps native types for the spreadsheet writer but blanks nils.
func cellValue(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func cellString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
