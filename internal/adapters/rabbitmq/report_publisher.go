package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
	"github.com/HassanOPFT/apartments-scraper/pkg/rabbitmq"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RunReportDTO is the run-report message published to the results queue.
type RunReportDTO struct {
	RunID      uuid.UUID                `json:"run_id"`
	ScrapeDate string                   `json:"scrape_date"`
	AfterDate  string                   `json:"after_date"`
	Results    map[string]int           `json:"results"`
	Districts  []domain.DistrictOutcome `json:"districts"`
}

// RunReportPublisherAdapter publishes run reports over AMQP.
type RunReportPublisherAdapter struct {
	publisher  *rabbitmq.Publisher
	routingKey string
}

// NewRunReportPublisherAdapter creates the adapter.
func NewRunReportPublisherAdapter(publisher *rabbitmq.Publisher, routingKey string) (*RunReportPublisherAdapter, error) {
	if publisher == nil {
		return nil, fmt.Errorf("rabbitmq adapter: publisher cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &RunReportPublisherAdapter{
		publisher:  publisher,
		routingKey: routingKey,
	}, nil
}

// PublishRunReport publishes the report as a persistent JSON message.
func (a *RunReportPublisherAdapter) PublishRunReport(ctx context.Context, report *domain.RunReport) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RunReportPublisherAdapter",
		"routing_key": a.routingKey,
	})

	dto := RunReportDTO{
		RunID:      report.RunID,
		ScrapeDate: report.ScrapeDate,
		AfterDate:  report.AfterDate,
		Results: map[string]int{
			"succeeded": report.Succeeded,
			"no_data":   report.NoData,
			"failed":    report.Failed,
		},
		Districts: report.Districts,
	}

	body, _ := json.Marshal(dto)

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // survive a broker restart
		Timestamp:    time.Now(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Info("Publishing run report", port.Fields{"run_id": report.RunID.String()})
	if err := a.publisher.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish run report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish run report %s: %w", report.RunID, err)
	}

	logger.Info("Run report published", nil)
	return nil
}
