package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port/usecases"

	"github.com/google/uuid"
)

// District outcome status values.
const (
	outcomeOK     = "ok"
	outcomeNoData = "no_data"
	outcomeFailed = "failed"
)

// OrchestrateRunUseCase runs the full pipeline over every target district,
// persists each partition result, converts the run's output for the export
// sink and publishes the run report.
type OrchestrateRunUseCase struct {
	scrape   usecases.ScrapePartitionPort
	writer   port.PartitionWriterPort
	exporter port.ExporterPort

	// Optional collaborators; either may be nil when disabled in config.
	lastRun  port.LastRunRepositoryPort
	reporter port.RunReporterPort

	afterDate string
}

// NewOrchestrateRunUseCase wires the run orchestrator. lastRun and reporter
// may be nil.
func NewOrchestrateRunUseCase(
	scrape usecases.ScrapePartitionPort,
	writer port.PartitionWriterPort,
	exporter port.ExporterPort,
	lastRun port.LastRunRepositoryPort,
	reporter port.RunReporterPort,
	afterDate string,
) *OrchestrateRunUseCase {
	return &OrchestrateRunUseCase{
		scrape:    scrape,
		writer:    writer,
		exporter:  exporter,
		lastRun:   lastRun,
		reporter:  reporter,
		afterDate: afterDate,
	}
}

// Execute processes all districts sequentially. A district failure is
// recorded in the report and never stops the siblings; the returned error is
// reserved for configuration-level problems (an unparsable after date).
func (uc *OrchestrateRunUseCase) Execute(ctx context.Context, districts []domain.TargetDistrict) (*domain.RunReport, error) {
	runID := uuid.New()
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "OrchestrateRun",
		"run_id":   runID.String(),
	})

	afterTime, err := time.Parse("2006-01-02", uc.afterDate)
	if err != nil {
		return nil, fmt.Errorf("orchestrate run: invalid after date %q, expected YYYY-MM-DD: %w", uc.afterDate, err)
	}

	report := &domain.RunReport{
		RunID:      runID,
		ScrapeDate: time.Now().Format("2006-01-02"),
		AfterDate:  uc.afterDate,
	}

	logger.Info("Run started", port.Fields{
		"target_districts": len(districts),
		"after_date":       uc.afterDate,
	})

	for _, district := range districts {
		if ctx.Err() != nil {
			logger.Warn("Run cancelled, remaining districts skipped", port.Fields{"district_id": district.ID})
			break
		}

		outcome := uc.processDistrict(ctx, logger, district, afterTime)
		report.Districts = append(report.Districts, outcome)

		switch outcome.Status {
		case outcomeOK:
			report.Succeeded++
		case outcomeNoData:
			report.NoData++
		default:
			report.Failed++
		}
	}

	if report.Succeeded > 0 {
		if err := uc.exporter.ConvertAll(ctx); err != nil {
			logger.Error("Export conversion failed", err, nil)
		}
	}

	if uc.reporter != nil {
		if err := uc.reporter.PublishRunReport(ctx, report); err != nil {
			logger.Error("Failed to publish run report", err, nil)
		}
	}

	logger.Info("Run finished", port.Fields{
		"succeeded": report.Succeeded,
		"no_data":   report.NoData,
		"failed":    report.Failed,
	})

	return report, nil
}

// processDistrict handles one district behind a recover boundary: a panic in
// any pipeline stage marks this district failed and the run moves on.
func (uc *OrchestrateRunUseCase) processDistrict(ctx context.Context, logger port.LoggerPort, district domain.TargetDistrict, afterTime time.Time) (outcome domain.DistrictOutcome) {
	outcome = domain.DistrictOutcome{
		DistrictID:   district.ID,
		DistrictName: district.Name,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("District processing panicked", fmt.Errorf("panic: %v", r), port.Fields{
				"district_id": district.ID,
			})
			outcome.Status = outcomeFailed
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	effectiveAfter := uc.effectiveAfterTime(ctx, logger, district, afterTime)

	result, err := uc.scrape.Execute(ctx, district, uc.afterDate, effectiveAfter.Unix())
	if err != nil {
		outcome.Status = outcomeFailed
		outcome.Error = err.Error()
		return outcome
	}
	if result == nil {
		outcome.Status = outcomeNoData
		return outcome
	}

	path, err := uc.writer.WritePartition(ctx, result)
	if err != nil {
		logger.Error("Failed to write partition file", err, port.Fields{"district_id": district.ID})
		outcome.Status = outcomeFailed
		outcome.Error = err.Error()
		return outcome
	}
	logger.Info("Partition file written", port.Fields{"district_id": district.ID, "path": path})

	if uc.lastRun != nil {
		if err := uc.lastRun.SetLastRunTimestamp(ctx, scraperKey(district), time.Now().UTC()); err != nil {
			logger.Warn("Could not update last run timestamp", port.Fields{
				"district_id": district.ID,
				"error":       err.Error(),
			})
		}
	}

	outcome.Status = outcomeOK
	outcome.Listings = len(result.Listings)
	return outcome
}

// effectiveAfterTime narrows the configured lower bound using the stored
// last run time, when the repository is enabled and is later than config.
func (uc *OrchestrateRunUseCase) effectiveAfterTime(ctx context.Context, logger port.LoggerPort, district domain.TargetDistrict, configured time.Time) time.Time {
	if uc.lastRun == nil {
		return configured
	}

	stored, err := uc.lastRun.GetLastRunTimestamp(ctx, scraperKey(district))
	if err != nil {
		logger.Warn("Could not read last run timestamp, using configured after date", port.Fields{
			"district_id": district.ID,
			"error":       err.Error(),
		})
		return configured
	}
	if stored.After(configured) {
		return stored
	}
	return configured
}

func scraperKey(district domain.TargetDistrict) string {
	return fmt.Sprintf("%s_%d_%d", constants.ScraperKeyPrefix, district.ID, district.DirectionID)
}
