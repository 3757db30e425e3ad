package storage

import (
	"context"
	"errors"

	"sales-analytics/models"
)

// ErrUnsupportedFormat is returned when a file extension has no backend.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SourceReader loads a raw record set from a tabular file.
type SourceReader interface {
	Read(ctx context.Context, path string) (*models.RawDataset, error)
}

// ReportWriter persists the analytics report as a structured document.
type ReportWriter interface {
	WriteReport(path string, report *models.AnalyticsReport) error
}

// TableWriter is the interface any tabular export backend must satisfy.
type TableWriter interface {
	WriteTable(t *Table) error
	Close() error
}
