package cmd

import (
	"github.com/spf13/cobra"

	"sales-analytics/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: load, clean, analyse and export",
	Long: `Runs every stage of the pipeline. When the source file does not exist a
synthetic one is generated first (GENERATE_ORDERS rows, GENERATE_SEED seed).

Outputs, under the output directory:
  analytics.json|yaml   - the full metric report
  summary_report.txt    - plain-text summary
  top_customers.csv     - top 10 customers by lifetime value
  top_products.csv      - top 10 products by revenue
  top_lists.xlsx        - both top lists as sheets of one workbook
  figures/              - SVG charts, plus PNG copies with --png
  manifest.json         - what this run wrote`,
	RunE: runRun,
}

var runFlags struct {
	data   string
	output string
	format string
	png    bool
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVarP(&runFlags.data, "data", "d", "", "Source file (.csv or .xlsx); overrides DATA_PATH")
		c.Flags().StringVarP(&runFlags.output, "output", "o", "", "Output directory; overrides OUTPUT_DIR")
		c.Flags().StringVarP(&runFlags.format, "format", "f", "", "Report format, json or yaml; overrides REPORT_FORMAT")
		c.Flags().BoolVar(&runFlags.png, "png", false, "Also render PNG charts with headless Chrome")
	}

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := cfg.Apply(config.Overrides{
		DataPath:     runFlags.data,
		OutputDir:    runFlags.output,
		ReportFormat: runFlags.format,
		RenderPNG:    runFlags.png,
	}); err != nil {
		return err
	}

	_, err := runPipeline(cmd.Context(), cfg, logger, cmd.OutOrStdout())
	return err
}
