package port

import (
	"context"
	"time"
)

// LastRunRepositoryPort stores the last successful run time per scraper key,
// so consecutive runs can narrow the creation-time lower bound.
type LastRunRepositoryPort interface {
	// GetLastRunTimestamp returns the stored timestamp, or the zero time if
	// the key has never run.
	GetLastRunTimestamp(ctx context.Context, scraperKey string) (time.Time, error)

	SetLastRunTimestamp(ctx context.Context, scraperKey string, t time.Time) error
}
