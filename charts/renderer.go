package charts

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"sales-analytics/utils"
)

// Options configures a Renderer.
type Options struct {
	// PNG also rasterises every chart through headless Chrome.
	PNG            bool
	ChromeBin      string
	MaxConcurrency int
	MaxRetries     int
}

// Renderer writes the charts as SVG files and, optionally, PNG copies.
type Renderer struct {
	opts   Options
	logger *utils.Logger
	retry  *utils.RetryConfig
}

func NewRenderer(opts Options, logger *utils.Logger) *Renderer {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Renderer{
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
	}
}

// Render writes every chart with data into dir and returns the created
// files in name order.
func (r *Renderer) Render(ctx context.Context, dir string, in Input) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}

	built := Build(in)
	names := make([]string, 0, len(built))
	for name := range built {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]string, 0, len(names)*2)
	for _, name := range names {
		path := filepath.Join(dir, name+".svg")
		if err := os.WriteFile(path, built[name], 0644); err != nil {
			return files, fmt.Errorf("charts: write %q: %w", path, err)
		}
		files = append(files, path)
	}
	r.logger.Info("[charts] Wrote %d SVG charts to %s", len(names), dir)

	if !r.opts.PNG || len(names) == 0 {
		return files, nil
	}

	pngs, err := r.rasterize(ctx, dir, names, built)
	files = append(files, pngs...)
	return files, err
}

// rasterize screenshots each SVG in headless Chrome. Charts are rendered in
// parallel tabs of one browser, bounded by MaxConcurrency.
func (r *Renderer) rasterize(ctx context.Context, dir string, names []string, built map[string][]byte) ([]string, error) {
	chromeBin := findChromeBinary(r.opts.ChromeBin)
	r.logger.Info("[charts] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(width, height),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// Start the browser once before tabs are opened from it.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("charts: start browser: %w", err)
	}

	files, err := r.runJobs(ctx, names, func(name string) (string, error) {
		path := filepath.Join(dir, name+".png")
		return path, r.retry.Do(ctx, "rasterize "+name, func() error {
			return r.screenshot(browserCtx, built[name], path)
		})
	})
	r.logger.Info("[charts] Rasterised %d/%d charts to PNG", len(files), len(names))
	return files, err
}

// runJobs runs job for every name on a pool bounded by MaxConcurrency and
// returns the sorted paths of the jobs that succeeded. Cancelling ctx
// leaves the remaining names unrendered and is reported as an error.
func (r *Renderer) runJobs(ctx context.Context, names []string, job func(name string) (string, error)) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
		errs  []error
	)
	pool := utils.NewWorkerPool(r.opts.MaxConcurrency, 0)
	for _, name := range names {
		name := name
		pool.Submit(ctx, func() {
			path, err := job(name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Error("[charts] %s: %v", name, err)
				errs = append(errs, err)
				return
			}
			files = append(files, path)
		})
	}
	pool.Wait()

	sort.Strings(files)
	if err := ctx.Err(); err != nil {
		return files, fmt.Errorf("charts: rendered %d/%d charts before cancellation: %w", len(files), len(names), err)
	}
	if len(errs) > 0 {
		return files, fmt.Errorf("charts: %d charts failed to rasterise: %w", len(errs), errs[0])
	}
	return files, nil
}

// screenshot loads svg in a new tab and saves the page as PNG.
func (r *Renderer) screenshot(browserCtx context.Context, svg []byte, path string) error {
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 30*time.Second)
	defer cancelTimeout()

	var buf []byte
	dataURL := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(dataURL),
		chromedp.FullScreenshot(&buf, 100),
	); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
