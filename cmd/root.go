package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"sales-analytics/config"
	"sales-analytics/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sales-analytics",
	Short: "Clean, analyse and report on e-commerce sales data",
	Long: `Loads a sales export (CSV or Excel), cleans it, computes the sales
metrics and writes the report, summary, tables and charts.

Running without a subcommand is the same as "run". Settings come from the
environment or a .env file; see config/config.go for the variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		logger = utils.NewLoggerWith(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
	RunE: runRun,
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
