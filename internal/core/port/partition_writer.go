package port

import (
	"context"

	"github.com/HassanOPFT/apartments-scraper/internal/core/domain"
)

// PartitionWriterPort persists one partition result for the export sink.
// Returns the path of the written file.
type PartitionWriterPort interface {
	WritePartition(ctx context.Context, result *domain.PartitionResult) (string, error)
}

// ExporterPort converts the persisted partition files of a run into the
// tabular representations (spreadsheet and delimited text).
type ExporterPort interface {
	ConvertAll(ctx context.Context) error
}
