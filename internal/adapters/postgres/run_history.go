package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HassanOPFT/apartments-scraper/internal/contextkeys"
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LastRunRepository implements LastRunRepositoryPort on PostgreSQL.
type LastRunRepository struct {
	dbPool *pgxpool.Pool
}

// NewLastRunRepository creates the repository.
func NewLastRunRepository(dbPool *pgxpool.Pool) (*LastRunRepository, error) {
	if dbPool == nil {
		return nil, fmt.Errorf("postgres last run repository: dbPool cannot be nil")
	}
	return &LastRunRepository{dbPool: dbPool}, nil
}

// GetLastRunTimestamp returns the stored last-run time for the scraper key,
// or the zero time when the key has never run.
func (r *LastRunRepository) GetLastRunTimestamp(ctx context.Context, scraperKey string) (time.Time, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LastRunRepository",
		"method":    "GetLastRunTimestamp",
	})

	var lastRun time.Time
	query := `SELECT last_run_timestamp FROM scraper_last_runs WHERE scraper_key = $1`

	err := r.dbPool.QueryRow(ctx, query, scraperKey).Scan(&lastRun)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("No last run timestamp found", port.Fields{"scraper_key": scraperKey})
			return time.Time{}, nil
		}

		logger.Error("Error getting last run timestamp", err, port.Fields{"scraper_key": scraperKey})
		return time.Time{}, fmt.Errorf("LastRunRepository: error querying last run for key '%s': %w", scraperKey, err)
	}

	logger.Debug("Found last run timestamp", port.Fields{
		"scraper_key":        scraperKey,
		"last_run_timestamp": lastRun,
	})
	return lastRun, nil
}

// SetLastRunTimestamp inserts or updates the last-run time for the key.
func (r *LastRunRepository) SetLastRunTimestamp(ctx context.Context, scraperKey string, t time.Time) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LastRunRepository",
		"method":    "SetLastRunTimestamp",
	})

	// UPSERT keeps the write atomic.
	query := `
        INSERT INTO scraper_last_runs (scraper_key, last_run_timestamp)
        VALUES ($1, $2)
        ON CONFLICT (scraper_key) DO UPDATE SET last_run_timestamp = EXCLUDED.last_run_timestamp
    `

	_, err := r.dbPool.Exec(ctx, query, scraperKey, t)
	if err != nil {
		logger.Error("Error setting last run timestamp", err, port.Fields{"scraper_key": scraperKey})
		return fmt.Errorf("LastRunRepository: error setting last run for key '%s': %w", scraperKey, err)
	}

	logger.Debug("Set last run timestamp", port.Fields{
		"scraper_key":   scraperKey,
		"new_timestamp": t,
	})
	return nil
}

// CREATE TABLE IF NOT EXISTS scraper_last_runs (
//     scraper_key VARCHAR(255) PRIMARY KEY,
//     last_run_timestamp TIMESTAMPTZ NOT NULL
// );
