package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"sales-analytics/models"
)

// WriteSource saves a raw record set in the format implied by the file
// extension, so that OpenSource can read it back.
func WriteSource(path string, raw *models.RawDataset) error {
	t := RawTable("sales", raw)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return WriteCSVFile(path, t)
	case ".xlsx", ".xlsm":
		w, err := NewXLSXWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteTable(t); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	default:
		return fmt.Errorf("storage: %q: %w", path, ErrUnsupportedFormat)
	}
}
