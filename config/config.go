package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataPath      string `envconfig:"DATA_PATH" default:"./data/sales_data.csv"`
	CleanDataPath string `envconfig:"CLEAN_DATA_PATH"`
	OutputDir     string `envconfig:"OUTPUT_DIR" default:"./output"`
	FiguresDir    string `envconfig:"FIGURES_DIR"`

	GenerateOrders int   `envconfig:"GENERATE_ORDERS" default:"200"`
	GenerateSeed   int64 `envconfig:"GENERATE_SEED" default:"42"`

	ReportFormat string `envconfig:"REPORT_FORMAT" default:"json"`
	RenderPNG    bool   `envconfig:"RENDER_PNG" default:"false"`
	ChromeBin    string `envconfig:"CHROME_BIN"`

	MaxConcurrency int `envconfig:"MAX_CONCURRENCY" default:"3"`
	MaxRetries     int `envconfig:"MAX_RETRIES" default:"3"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	cleanDerived   bool
	figuresDerived bool
}

// Overrides are command-line values that take precedence over the
// environment. Zero values leave the setting unchanged.
type Overrides struct {
	DataPath     string
	OutputDir    string
	ReportFormat string
	RenderPNG    bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills the paths that derive from other settings.
func (c *Config) applyDefaults() {
	c.ReportFormat = strings.ToLower(strings.TrimSpace(c.ReportFormat))
	if c.CleanDataPath == "" || c.cleanDerived {
		c.CleanDataPath = filepath.Join(filepath.Dir(c.DataPath), "sales_clean.csv")
		c.cleanDerived = true
	}
	if c.FiguresDir == "" || c.figuresDerived {
		c.FiguresDir = filepath.Join(c.OutputDir, "figures")
		c.figuresDerived = true
	}
}

// Apply merges o into the config and re-derives the dependent paths that
// were not set explicitly.
func (c *Config) Apply(o Overrides) error {
	if o.DataPath != "" {
		c.DataPath = o.DataPath
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.ReportFormat != "" {
		c.ReportFormat = o.ReportFormat
	}
	if o.RenderPNG {
		c.RenderPNG = true
	}
	c.applyDefaults()
	return c.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.ReportFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: REPORT_FORMAT must be json or yaml, got %q", c.ReportFormat)
	}
	if c.GenerateOrders < 0 {
		return fmt.Errorf("config: GENERATE_ORDERS must not be negative")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("config: MAX_CONCURRENCY must be at least 1")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("config: MAX_RETRIES must be at least 1")
	}
	return nil
}

// ReportPath returns the analytics report location for the configured format.
func (c *Config) ReportPath() string {
	return filepath.Join(c.OutputDir, "analytics."+c.ReportFormat)
}

// SummaryPath returns the plain-text summary location.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.OutputDir, "summary_report.txt")
}
