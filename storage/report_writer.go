package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sales-analytics/models"
)

// FileReportWriter writes the report as JSON or YAML, chosen by the file
// extension.
type FileReportWriter struct{}

func NewFileReportWriter() *FileReportWriter {
	return &FileReportWriter{}
}

func (w *FileReportWriter) WriteReport(path string, report *models.AnalyticsReport) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(path, report)
	case ".yaml", ".yml":
		return WriteYAML(path, report)
	default:
		return fmt.Errorf("report: %q: %w", path, ErrUnsupportedFormat)
	}
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// WriteYAML writes v as YAML with two-space indentation.
func WriteYAML(path string, v any) error {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return writeFile(path, []byte(sb.String()))
}

// WriteText writes a plain-text document.
func WriteText(path, text string) error {
	return writeFile(path, []byte(text))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	return nil
}
