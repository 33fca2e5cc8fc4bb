package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePartition = `{
	"metadata": {"district_name": "Al Olaya"},
	"data": {"Web": {"find": {
		"total": 2,
		"listings": [
			{"rooms": 3, "price": 45000, "full_url": "https://sa.aqar.fm/ad/1"},
			{"rooms": 2, "price": 30000, "full_url": "https://sa.aqar.fm/ad/2"}
		],
		"__typename": "WebResults"
	}, "__typename": "WebQryOps"}}
}`

func writeSample(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(samplePartition), 0o644); err != nil {
		t.Fatalf("failed to write sample partition: %v", err)
	}
}

func TestConvertAllWritesBothFormats(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSample(t, inputDir, "Al Olaya_listings.json")

	a, err := NewExporterAdapter(inputDir, outputDir)
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	if err := a.ConvertAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"Al Olaya_listings.xlsx", "Al Olaya_listings.csv"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("expected %q to exist: %v", name, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(outputDir, "Al Olaya_listings.csv"))
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "\xEF\xBB\xBF") {
		t.Error("expected a UTF-8 BOM at the start of the csv")
	}
	header := strings.SplitN(strings.TrimPrefix(content, "\xEF\xBB\xBF"), "\n", 2)[0]
	if !strings.HasPrefix(header, "rooms,price") {
		t.Errorf("csv header does not start with the priority columns: %q", header)
	}
	if !strings.Contains(content, "https://sa.aqar.fm/ad/1") {
		t.Error("expected listing URL in csv body")
	}
}

func TestConvertAllSkipsBrokenFiles(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSample(t, inputDir, "Good_listings.json")
	if err := os.WriteFile(filepath.Join(inputDir, "Broken_listings.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("failed to write broken file: %v", err)
	}

	a, err := NewExporterAdapter(inputDir, outputDir)
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	if err := a.ConvertAll(context.Background()); err != nil {
		t.Fatalf("one broken file must not fail the conversion: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Good_listings.xlsx")); err != nil {
		t.Errorf("expected the good file to still convert: %v", err)
	}
}

func TestConvertAllFailsWhenEverythingFails(t *testing.T) {
	inputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "Broken_listings.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("failed to write broken file: %v", err)
	}

	a, err := NewExporterAdapter(inputDir, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	if err := a.ConvertAll(context.Background()); err == nil {
		t.Fatal("expected an error when every file fails to convert")
	}
}

func TestConvertAllEmptyInputDirIsFine(t *testing.T) {
	a, err := NewExporterAdapter(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	if err := a.ConvertAll(context.Background()); err != nil {
		t.Errorf("an empty run should not error: %v", err)
	}
}
