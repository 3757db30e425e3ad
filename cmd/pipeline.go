package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sales-analytics/charts"
	"sales-analytics/config"
	"sales-analytics/models"
	"sales-analytics/services"
	"sales-analytics/storage"
	"sales-analytics/utils"
)

const (
	workbookName = "top_lists.xlsx"
	manifestName = "manifest.json"
)

// export is one artifact written after analysis. run returns the number of
// records it wrote.
type export struct {
	kind string
	path string
	run  func(ctx context.Context) (int, error)
}

// runPipeline loads the configured source, generating it first when it does
// not exist, then cleans, analyses and writes every artifact. Exports run
// concurrently; a failed export does not stop the others.
func runPipeline(ctx context.Context, cfg *config.Config, logger *utils.Logger, out io.Writer) (*models.RunManifest, error) {
	started := time.Now()
	logger.Info("=== Sales analytics pipeline starting ===")
	logger.Info("Config: source %s | output %s | format %s | concurrency %d",
		cfg.DataPath, cfg.OutputDir, cfg.ReportFormat, cfg.MaxConcurrency)

	if err := ensureSource(cfg, logger); err != nil {
		return nil, err
	}

	reader, err := storage.OpenSource(cfg.DataPath, logger)
	if err != nil {
		return nil, err
	}
	raw, err := reader.Read(ctx, cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load source: %w", err)
	}

	analyzer := services.NewAnalyzer(logger)
	analyzer.Load(raw)

	insp, err := analyzer.Inspect()
	if err != nil {
		return nil, err
	}
	logger.Info("[pipeline] Source shape: %d rows × %d columns, %d duplicate rows",
		insp.Rows, insp.Columns, insp.Duplicates)

	clean, err := analyzer.Clean()
	if err != nil {
		return nil, err
	}
	if clean.Len() == 0 {
		logger.Warn("[pipeline] Every row was dropped during cleaning; the report will be empty")
	}
	if err := storage.WriteCSVFile(cfg.CleanDataPath, storage.CleanSalesTable(clean)); err != nil {
		return nil, fmt.Errorf("pipeline: save cleaned data: %w", err)
	}
	logger.Info("[pipeline] Cleaned dataset (%d orders) saved to %s", clean.Len(), cfg.CleanDataPath)

	report, err := analyzer.Report()
	if err != nil {
		return nil, err
	}
	assembler := analyzer.Assembler()
	assembler.Print(out, report)

	exports, err := buildExports(cfg, logger, assembler, clean, report, started)
	if err != nil {
		return nil, err
	}

	manifest := &models.RunManifest{
		RunID:       uuid.NewString(),
		Source:      cfg.DataPath,
		StartedAt:   started,
		CleanOrders: clean.Len(),
		Exports:     make([]models.ExportResult, len(exports)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)
	for i, e := range exports {
		i, e := i, e
		g.Go(func() error {
			res := models.ExportResult{Type: e.kind, Path: e.path}
			n, err := e.run(gctx)
			if err != nil {
				logger.Error("[pipeline] %s export failed: %v", e.kind, err)
				res.Error = err.Error()
			} else {
				logger.Info("[pipeline] %s written to %s", e.kind, e.path)
				res.Success = true
				res.Records = n
			}
			manifest.Exports[i] = res
			// Only cancellation aborts the group.
			if errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return manifest, fmt.Errorf("pipeline: exports: %w", err)
	}

	manifest.FinishedAt = time.Now()
	manifestPath := filepath.Join(cfg.OutputDir, manifestName)
	if err := storage.WriteJSON(manifestPath, manifest); err != nil {
		return manifest, fmt.Errorf("pipeline: write manifest: %w", err)
	}

	if failed := manifest.Failed(); len(failed) > 0 {
		kinds := make([]string, len(failed))
		for i, f := range failed {
			kinds[i] = f.Type
		}
		return manifest, fmt.Errorf("pipeline: %d of %d exports failed: %s",
			len(failed), len(exports), strings.Join(kinds, ", "))
	}

	logger.Info("=== Done in %s. Run %s, manifest at %s ===",
		time.Since(started).Round(time.Millisecond), manifest.RunID, manifestPath)
	return manifest, nil
}

// ensureSource writes a synthetic source when the configured one is absent.
func ensureSource(cfg *config.Config, logger *utils.Logger) error {
	_, err := os.Stat(cfg.DataPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("pipeline: stat source: %w", err)
	}
	if cfg.GenerateOrders == 0 {
		return fmt.Errorf("pipeline: source %s not found and generation is disabled", cfg.DataPath)
	}

	logger.Info("[pipeline] %s not found, generating %d synthetic orders (seed %d)",
		cfg.DataPath, cfg.GenerateOrders, cfg.GenerateSeed)
	raw := services.GenerateSales(cfg.GenerateOrders, cfg.GenerateSeed)
	if err := storage.WriteSource(cfg.DataPath, raw); err != nil {
		return fmt.Errorf("pipeline: write generated source: %w", err)
	}
	return nil
}

func buildExports(cfg *config.Config, logger *utils.Logger, assembler *services.ReportAssembler,
	clean *models.Dataset, report *models.AnalyticsReport, generatedAt time.Time) ([]export, error) {

	csvWriter, err := storage.NewCSVWriter(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	customers := storage.TopCustomersTable(report)
	products := storage.TopProductsTable(report)

	engine := assembler.Engine()
	chartInput := charts.Input{
		RevenueByCategory: engine.RevenueByCategory(clean),
		MonthlyRevenue:    engine.MonthlyRevenue(clean),
		OrderAmounts:      engine.OrderAmounts(clean),
		AmountsByCategory: engine.AmountsByCategory(clean),
	}
	renderer := charts.NewRenderer(charts.Options{
		PNG:            cfg.RenderPNG,
		ChromeBin:      cfg.ChromeBin,
		MaxConcurrency: cfg.MaxConcurrency,
		MaxRetries:     cfg.MaxRetries,
	}, logger)

	workbook := filepath.Join(cfg.OutputDir, workbookName)

	return []export{
		{kind: "report", path: cfg.ReportPath(), run: func(context.Context) (int, error) {
			return 1, storage.NewFileReportWriter().WriteReport(cfg.ReportPath(), report)
		}},
		{kind: "summary", path: cfg.SummaryPath(), run: func(context.Context) (int, error) {
			return 1, storage.WriteText(cfg.SummaryPath(), assembler.Summary(report, generatedAt))
		}},
		{kind: "top_customers", path: csvWriter.Path(customers.Name), run: func(context.Context) (int, error) {
			return len(customers.Rows), csvWriter.WriteTable(customers)
		}},
		{kind: "top_products", path: csvWriter.Path(products.Name), run: func(context.Context) (int, error) {
			return len(products.Rows), csvWriter.WriteTable(products)
		}},
		{kind: "workbook", path: workbook, run: func(context.Context) (int, error) {
			return writeWorkbook(workbook, customers, products)
		}},
		{kind: "charts", path: cfg.FiguresDir, run: func(ctx context.Context) (int, error) {
			files, err := renderer.Render(ctx, cfg.FiguresDir, chartInput)
			return len(files), err
		}},
	}, nil
}

// writeWorkbook saves the tables as sheets of one workbook and returns the
// number of data rows written.
func writeWorkbook(path string, tables ...*storage.Table) (int, error) {
	w, err := storage.NewXLSXWriter(path)
	if err != nil {
		return 0, err
	}
	rows := 0
	for _, t := range tables {
		if err := w.WriteTable(t); err != nil {
			_ = w.Close()
			return 0, err
		}
		rows += len(t.Rows)
	}
	return rows, w.Close()
}
