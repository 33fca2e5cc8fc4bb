package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/adapters/aqarfetcher"
	"github.com/HassanOPFT/apartments-scraper/internal/adapters/exporter"
	"github.com/HassanOPFT/apartments-scraper/internal/adapters/filestorage"
	"github.com/HassanOPFT/apartments-scraper/internal/adapters/googlemaps"
	logger_adapter "github.com/HassanOPFT/apartments-scraper/internal/adapters/logger"
	postgres_adapter "github.com/HassanOPFT/apartments-scraper/internal/adapters/postgres"
	rabbitmq_adapter "github.com/HassanOPFT/apartments-scraper/internal/adapters/rabbitmq"
	"github.com/HassanOPFT/apartments-scraper/internal/configs"
	"github.com/HassanOPFT/apartments-scraper/internal/constants"
	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port/usecases"
	"github.com/HassanOPFT/apartments-scraper/internal/core/usecase"
	"github.com/HassanOPFT/apartments-scraper/pkg/fluentlogger"
	"github.com/HassanOPFT/apartments-scraper/pkg/postgres"
	"github.com/HassanOPFT/apartments-scraper/pkg/rabbitmq"
	"github.com/HassanOPFT/apartments-scraper/pkg/retry"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the application structure.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	rmqPublisher *rabbitmq.Publisher
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
	baseLogger   port.LoggerPort

	orchestrator usecases.OrchestrateRunPort
	districts    []domain.TargetDistrict
}

// NewApp creates a new application instance. This is the composition root
// where all dependencies are created and wired together.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. LOGGER INITIALIZATION ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // text format
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Add the Fluent Bit logger when enabled in the configuration.
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. BASE APPLICATION LOGGER WITH SERVICE CONTEXT ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. TARGET DISTRICTS ---
	districts, err := configs.LoadTargetDistricts(appConfig)
	if err != nil {
		appLogger.Error("Failed to load target districts", err, nil)
		return nil, fmt.Errorf("failed to load target districts: %w", err)
	}
	appLogger.Info("Target districts loaded", port.Fields{"count": len(districts)})

	// --- 4. OPTIONAL INFRASTRUCTURE ---
	var dbPool *pgxpool.Pool
	var lastRunRepo port.LastRunRepositoryPort
	if appConfig.Database.Enabled {
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		lastRunRepo, err = postgres_adapter.NewLastRunRepository(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to create last run repository: %w", err)
		}
	} else {
		appLogger.Info("DATABASE_URL not set, last run tracking disabled.", nil)
	}

	var rmqPublisher *rabbitmq.Publisher
	var runReporter port.RunReporterPort
	if appConfig.RabbitMQ.Enabled {
		publisherLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_publisher"})
		publisherCfg := rabbitmq.PublisherConfig{
			URL:                      appConfig.RabbitMQ.URL,
			ExchangeName:             constants.ReportExchange,
			ExchangeType:             constants.ReportExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(publisherLogger),
		}
		rmqPublisher, err = rabbitmq.NewPublisher(publisherCfg)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ publisher", err, port.Fields{"url": appConfig.RabbitMQ.URL})
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
		}
		appLogger.Info("RabbitMQ publisher initialized.", nil)

		runReporter, err = rabbitmq_adapter.NewRunReportPublisherAdapter(rmqPublisher, constants.RoutingKeyRunReports)
		if err != nil {
			rmqPublisher.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create run report publisher: %w", err)
		}
	} else {
		appLogger.Info("RABBITMQ_URL not set, run report publishing disabled.", nil)
	}

	// --- 5. OUTGOING ADAPTERS ---
	fetcherAdapter, err := aqarfetcher.NewAqarFetcherAdapter(appConfig.API.URL, retry.Policy{
		MaxAttempts: constants.MaxRetries,
		BaseDelay:   constants.RetryBaseDelay,
		Multiplier:  2,
	})
	if err != nil {
		appLogger.Error("Failed to create Aqar Fetcher Adapter", err, nil)
		closeOptional(rmqPublisher, dbPool)
		return nil, fmt.Errorf("failed to initialize listings fetcher: %w", err)
	}

	mapsAdapter, err := googlemaps.NewGoogleMapsAdapter(appConfig.GoogleMaps.APIKey)
	if err != nil {
		appLogger.Error("Failed to create Google Maps Adapter", err, nil)
		closeOptional(rmqPublisher, dbPool)
		return nil, fmt.Errorf("failed to initialize distance provider: %w", err)
	}

	office := domain.Coordinate{
		Lat: appConfig.GoogleMaps.OfficeLat,
		Lng: appConfig.GoogleMaps.OfficeLng,
	}

	// Output directories are keyed by run date so consecutive runs never
	// overwrite each other.
	runDate := time.Now().Format("2006-01-02")
	outputDir := filepath.Join(appConfig.Scrape.OutputBaseDir, runDate)
	excelDir := filepath.Join(appConfig.Scrape.ExcelBaseDir, runDate)

	partitionWriter, err := filestorage.NewPartitionWriterAdapter(outputDir, office)
	if err != nil {
		appLogger.Error("Failed to create partition writer", err, nil)
		closeOptional(rmqPublisher, dbPool)
		return nil, fmt.Errorf("failed to initialize partition writer: %w", err)
	}

	exporterAdapter, err := exporter.NewExporterAdapter(outputDir, excelDir)
	if err != nil {
		appLogger.Error("Failed to create exporter", err, nil)
		closeOptional(rmqPublisher, dbPool)
		return nil, fmt.Errorf("failed to initialize exporter: %w", err)
	}

	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 6. USE CASES ---
	fetchAllUseCase := usecase.NewFetchAllListingsUseCase(fetcherAdapter)
	filterUseCase := usecase.NewFilterListingsUseCase(appConfig.API.URL)
	enrichUseCase := usecase.NewEnrichDistancesUseCase(mapsAdapter, office)
	scrapeUseCase := usecase.NewScrapePartitionUseCase(fetchAllUseCase, filterUseCase, enrichUseCase)
	orchestrator := usecase.NewOrchestrateRunUseCase(
		scrapeUseCase,
		partitionWriter,
		exporterAdapter,
		lastRunRepo,
		runReporter,
		appConfig.Scrape.AfterDate,
	)
	appLogger.Info("All use cases initialized.", nil)

	application := &App{
		config:       appConfig,
		dbPool:       dbPool,
		rmqPublisher: rmqPublisher,
		fluentClient: fluentClient,
		logger:       appLogger,
		baseLogger:   baseLogger,
		orchestrator: orchestrator,
		districts:    districts,
	}

	return application, nil
}

// Run executes one full scraping run and releases all resources afterwards.
// SIGINT/SIGTERM cancel the run context; in-flight districts finish their
// current step and the remaining ones are skipped.
func (a *App) Run() error {
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.rmqPublisher != nil {
			if err := a.rmqPublisher.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ publisher", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			a.logger.Info("Closing Fluent Bit connection...", nil)
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", port.Fields{
		"districts":  len(a.districts),
		"after_date": a.config.Scrape.AfterDate,
	})

	runCtx := contextkeys.ContextWithLogger(appCtx, a.baseLogger)

	started := time.Now()
	report, err := a.orchestrator.Execute(runCtx, a.districts)
	if err != nil {
		a.logger.Error("Scraping run failed", err, nil)
		return err
	}

	a.logger.Info("Scraping run completed", port.Fields{
		"run_id":    report.RunID.String(),
		"succeeded": report.Succeeded,
		"no_data":   report.NoData,
		"failed":    report.Failed,
		"duration":  time.Since(started).Round(time.Second).String(),
	})

	// Failed districts are reported in the summary and the published report;
	// the run itself still finishes cleanly so sibling results stay usable.
	if report.Failed > 0 {
		a.logger.Warn("Some districts failed during this run", port.Fields{
			"failed": report.Failed,
		})
	}
	return nil
}

// closeOptional releases the optional infrastructure during a failed startup.
func closeOptional(publisher *rabbitmq.Publisher, dbPool *pgxpool.Pool) {
	if publisher != nil {
		publisher.Close()
	}
	if dbPool != nil {
		dbPool.Close()
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Fall back to a safe default and log a warning.
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
