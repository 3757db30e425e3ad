package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sales-analytics/models"
	"sales-analytics/utils"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader loads a raw dataset from a comma-separated file with a header
// row.
type CSVReader struct {
	logger *utils.Logger
}

func NewCSVReader(logger *utils.Logger) *CSVReader {
	return &CSVReader{logger: logger}
}

func (r *CSVReader) Read(ctx context.Context, path string) (*models.RawDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}

	ds := recordsToDataset(path, records)
	r.logger.Info("[storage] Read %d rows × %d columns from %s", len(ds.Rows), len(ds.Columns), path)
	return ds, nil
}

// recordsToDataset turns a header row plus string records into typed raw
// rows. Short rows leave their trailing columns missing.
func recordsToDataset(source string, records [][]string) *models.RawDataset {
	ds := &models.RawDataset{Source: source}
	if len(records) == 0 {
		return ds
	}

	for _, h := range records[0] {
		ds.Columns = append(ds.Columns, strings.TrimSpace(h))
	}
	ds.Rows = make([]models.RawRecord, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := make(models.RawRecord, len(ds.Columns))
		for i, col := range ds.Columns {
			if i < len(rec) {
				row[col] = utils.ParseCell(rec[i])
			} else {
				row[col] = nil
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// OpenSource picks a reader for path by its extension.
func OpenSource(path string, logger *utils.Logger) (SourceReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return NewCSVReader(logger), nil
	case ".xlsx", ".xlsm":
		return NewXLSXReader(logger), nil
	default:
		return nil, fmt.Errorf("storage: %q: %w", path, ErrUnsupportedFormat)
	}
}
