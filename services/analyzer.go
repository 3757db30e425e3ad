package services

import (
	"fmt"

	"sales-analytics/models"
	"sales-analytics/utils"
)

// Analyzer holds the state of one analysis run: the loaded records, the
// cleaned dataset and the report derived from it. Loading a new source
// discards everything derived from the previous one.
type Analyzer struct {
	cleaner   *Cleaner
	assembler *ReportAssembler
	logger    *utils.Logger

	raw    *models.RawDataset
	clean  *models.Dataset
	report *models.AnalyticsReport
}

func NewAnalyzer(logger *utils.Logger) *Analyzer {
	return &Analyzer{
		cleaner:   NewCleaner(logger),
		assembler: NewReportAssembler(logger),
		logger:    logger,
	}
}

// Load replaces the current source.
func (a *Analyzer) Load(raw *models.RawDataset) {
	a.raw = raw
	a.clean = nil
	a.report = nil
	if raw != nil {
		a.logger.Info("[analyzer] Loaded %d rows from %s", len(raw.Rows), raw.Source)
	}
}

// Inspect summarises the loaded source.
func (a *Analyzer) Inspect() (*models.Inspection, error) {
	if a.raw == nil {
		return nil, fmt.Errorf("inspect: %w", models.ErrNoData)
	}
	return a.cleaner.Inspect(a.raw), nil
}

// Clean runs the cleaning pipeline over the loaded source and keeps the
// result for later steps.
func (a *Analyzer) Clean() (*models.Dataset, error) {
	if a.raw == nil {
		return nil, fmt.Errorf("clean: %w", models.ErrNoData)
	}
	a.clean = a.cleaner.Clean(a.raw)
	a.report = nil
	return a.clean, nil
}

// Data returns the cleaned dataset.
func (a *Analyzer) Data() (*models.Dataset, error) {
	if a.clean == nil {
		return nil, fmt.Errorf("data: %w", models.ErrNoCleanData)
	}
	return a.clean, nil
}

// Report returns the analytics report, computing it on first use. When the
// source was never cleaned explicitly it is cleaned on the fly.
func (a *Analyzer) Report() (*models.AnalyticsReport, error) {
	if a.report != nil {
		return a.report, nil
	}
	if a.clean == nil {
		if _, err := a.Clean(); err != nil {
			return nil, fmt.Errorf("report: %w", models.ErrNoData)
		}
	}
	a.report = a.assembler.Assemble(a.clean)
	return a.report, nil
}

// Assembler exposes the report assembler used by this run.
func (a *Analyzer) Assembler() *ReportAssembler {
	return a.assembler
}
