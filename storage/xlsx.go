package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"sales-analytics/models"
	"sales-analytics/utils"
)

// XLSXReader loads a raw dataset from the first sheet of a workbook.
type XLSXReader struct {
	logger *utils.Logger
}

func NewXLSXReader(logger *utils.Logger) *XLSXReader {
	return &XLSXReader{logger: logger}
}

func (r *XLSXReader) Read(ctx context.Context, path string) (*models.RawDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &models.RawDataset{Source: path}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheets[0], err)
	}

	ds := recordsToDataset(path, rows)
	r.logger.Info("[storage] Read %d rows × %d columns from %s (sheet %s)",
		len(ds.Rows), len(ds.Columns), path, sheets[0])
	return ds, nil
}

// XLSXWriter collects tables as sheets of one workbook, saved on Close.
// It is safe for concurrent use.
type XLSXWriter struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	sheets int
}

func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path, file: excelize.NewFile()}, nil
}

// WriteTable adds t as a sheet named after the table, with a bold header
// row that stays frozen while scrolling.
func (x *XLSXWriter) WriteTable(t *Table) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	sheet := t.Name
	if x.sheets == 0 {
		if err := x.file.SetSheetName(x.file.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("xlsx: rename sheet: %w", err)
		}
	} else if _, err := x.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: add sheet %q: %w", sheet, err)
	}
	x.sheets++

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := x.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	style, err := x.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}
	if len(t.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err := x.file.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("xlsx: header style: %w", err)
		}
	}
	if err := x.file.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: freeze header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = xlsxCell(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := x.file.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}
	return nil
}

// xlsxCell keeps numbers numeric and renders dates as text so they read
// back through the date parser.
func xlsxCell(v any) any {
	switch val := v.(type) {
	case time.Time:
		return formatCell(val)
	case nil:
		return ""
	default:
		return val
	}
}

// Close saves the workbook and releases it.
func (x *XLSXWriter) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.file.SaveAs(x.path); err != nil {
		_ = x.file.Close()
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return x.file.Close()
}
