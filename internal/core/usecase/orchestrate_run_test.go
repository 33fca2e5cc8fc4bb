package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// fakeScraper serves a canned result per district id.
type fakeScraper struct {
	results map[int]*domain.PartitionResult
	errs    map[int]error
	panics  map[int]bool
}

func (f *fakeScraper) Execute(ctx context.Context, district domain.TargetDistrict, afterDate string, afterTimestamp int64) (*domain.PartitionResult, error) {
	if f.panics[district.ID] {
		panic("boom")
	}
	if err, ok := f.errs[district.ID]; ok {
		return nil, err
	}
	return f.results[district.ID], nil
}

type fakeWriter struct {
	written []int
	err     error
}

func (f *fakeWriter) WritePartition(ctx context.Context, result *domain.PartitionResult) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.written = append(f.written, result.Metadata.DistrictID)
	return result.Metadata.DistrictName + "_listings.json", nil
}

type fakeExporter struct {
	calls int
}

func (f *fakeExporter) ConvertAll(ctx context.Context) error {
	f.calls++
	return nil
}

type fakeReporter struct {
	reports []*domain.RunReport
}

func (f *fakeReporter) PublishRunReport(ctx context.Context, report *domain.RunReport) error {
	f.reports = append(f.reports, report)
	return nil
}

type fakeLastRun struct {
	stored map[string]time.Time
	sets   map[string]time.Time
}

func (f *fakeLastRun) GetLastRunTimestamp(ctx context.Context, scraperKey string) (time.Time, error) {
	return f.stored[scraperKey], nil
}

func (f *fakeLastRun) SetLastRunTimestamp(ctx context.Context, scraperKey string, ts time.Time) error {
	if f.sets == nil {
		f.sets = make(map[string]time.Time)
	}
	f.sets[scraperKey] = ts
	return nil
}

func resultFor(district domain.TargetDistrict, listings int) *domain.PartitionResult {
	return &domain.PartitionResult{
		Listings: make([]domain.FilteredListing, listings),
		Metadata: domain.PartitionMetadata{
			DistrictID:   district.ID,
			DistrictName: district.Name,
		},
	}
}

func TestOrchestrateTalliesOutcomes(t *testing.T) {
	ok := domain.TargetDistrict{ID: 1, Name: "A"}
	empty := domain.TargetDistrict{ID: 2, Name: "B"}
	broken := domain.TargetDistrict{ID: 3, Name: "C"}

	scraper := &fakeScraper{
		results: map[int]*domain.PartitionResult{ok.ID: resultFor(ok, 4)},
		errs:    map[int]error{broken.ID: errors.New("exploded")},
	}
	writer := &fakeWriter{}
	exporter := &fakeExporter{}
	reporter := &fakeReporter{}

	uc := NewOrchestrateRunUseCase(scraper, writer, exporter, nil, reporter, "2025-11-01")
	report, err := uc.Execute(context.Background(), []domain.TargetDistrict{ok, empty, broken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Succeeded != 1 || report.NoData != 1 || report.Failed != 1 {
		t.Errorf("tallies = %d/%d/%d; want 1/1/1", report.Succeeded, report.NoData, report.Failed)
	}
	if len(report.Districts) != 3 {
		t.Fatalf("expected 3 district outcomes, got %d", len(report.Districts))
	}
	if report.Districts[0].Status != "ok" || report.Districts[0].Listings != 4 {
		t.Errorf("first outcome wrong: %+v", report.Districts[0])
	}
	if report.Districts[1].Status != "no_data" {
		t.Errorf("second outcome wrong: %+v", report.Districts[1])
	}
	if report.Districts[2].Status != "failed" || report.Districts[2].Error == "" {
		t.Errorf("third outcome wrong: %+v", report.Districts[2])
	}

	if len(writer.written) != 1 || writer.written[0] != ok.ID {
		t.Errorf("expected exactly district %d written, got %v", ok.ID, writer.written)
	}
	if exporter.calls != 1 {
		t.Errorf("expected 1 export conversion, got %d", exporter.calls)
	}
	if len(reporter.reports) != 1 {
		t.Errorf("expected 1 published report, got %d", len(reporter.reports))
	}
}

func TestOrchestrateRecoversFromPanic(t *testing.T) {
	bad := domain.TargetDistrict{ID: 1, Name: "A"}
	good := domain.TargetDistrict{ID: 2, Name: "B"}

	scraper := &fakeScraper{
		panics:  map[int]bool{bad.ID: true},
		results: map[int]*domain.PartitionResult{good.ID: resultFor(good, 1)},
	}
	writer := &fakeWriter{}

	uc := NewOrchestrateRunUseCase(scraper, writer, &fakeExporter{}, nil, nil, "2025-11-01")
	report, err := uc.Execute(context.Background(), []domain.TargetDistrict{bad, good})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Failed != 1 || report.Succeeded != 1 {
		t.Errorf("tallies = failed %d / succeeded %d; want 1/1", report.Failed, report.Succeeded)
	}
	if report.Districts[0].Status != "failed" {
		t.Errorf("panicked district not marked failed: %+v", report.Districts[0])
	}
	if len(writer.written) != 1 || writer.written[0] != good.ID {
		t.Errorf("expected the sibling district to still be written, got %v", writer.written)
	}
}

func TestOrchestrateWriteFailureMarksDistrictFailed(t *testing.T) {
	district := domain.TargetDistrict{ID: 1, Name: "A"}

	scraper := &fakeScraper{results: map[int]*domain.PartitionResult{district.ID: resultFor(district, 2)}}
	writer := &fakeWriter{err: errors.New("disk full")}
	exporter := &fakeExporter{}

	uc := NewOrchestrateRunUseCase(scraper, writer, exporter, nil, nil, "2025-11-01")
	report, err := uc.Execute(context.Background(), []domain.TargetDistrict{district})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Failed != 1 {
		t.Errorf("expected 1 failed district, got %d", report.Failed)
	}
	if exporter.calls != 0 {
		t.Errorf("expected no export conversion without successes, got %d", exporter.calls)
	}
}

func TestOrchestrateRejectsInvalidAfterDate(t *testing.T) {
	uc := NewOrchestrateRunUseCase(&fakeScraper{}, &fakeWriter{}, &fakeExporter{}, nil, nil, "01.11.2025")

	_, err := uc.Execute(context.Background(), []domain.TargetDistrict{{ID: 1}})
	if err == nil {
		t.Fatal("expected an error for an unparsable after date")
	}
}

func TestOrchestrateUpdatesLastRunOnSuccess(t *testing.T) {
	district := domain.TargetDistrict{ID: 461, Name: "Al Olaya", DirectionID: 2}

	scraper := &fakeScraper{results: map[int]*domain.PartitionResult{district.ID: resultFor(district, 1)}}
	lastRun := &fakeLastRun{}

	uc := NewOrchestrateRunUseCase(scraper, &fakeWriter{}, &fakeExporter{}, lastRun, nil, "2025-11-01")
	if _, err := uc.Execute(context.Background(), []domain.TargetDistrict{district}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := lastRun.sets["districts_scraper_461_2"]; !ok {
		t.Errorf("expected last run stored under districts_scraper_461_2, got %v", lastRun.sets)
	}
}

func TestOrchestrateUsesStoredLastRunWhenLater(t *testing.T) {
	district := domain.TargetDistrict{ID: 461, Name: "Al Olaya", DirectionID: 2}
	stored := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	var gotTimestamp int64
	scraper := &recordingScraper{onExecute: func(afterTimestamp int64) {
		gotTimestamp = afterTimestamp
	}}
	lastRun := &fakeLastRun{stored: map[string]time.Time{"districts_scraper_461_2": stored}}

	uc := NewOrchestrateRunUseCase(scraper, &fakeWriter{}, &fakeExporter{}, lastRun, nil, "2025-11-01")
	if _, err := uc.Execute(context.Background(), []domain.TargetDistrict{district}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotTimestamp != stored.Unix() {
		t.Errorf("after timestamp = %d; want stored last run %d", gotTimestamp, stored.Unix())
	}
}

// recordingScraper captures the effective after timestamp it is handed.
type recordingScraper struct {
	onExecute func(afterTimestamp int64)
}

func (r *recordingScraper) Execute(ctx context.Context, district domain.TargetDistrict, afterDate string, afterTimestamp int64) (*domain.PartitionResult, error) {
	r.onExecute(afterTimestamp)
	return nil, nil
}
