package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"sales-analytics/config"
	"sales-analytics/models"
	"sales-analytics/services"
	"sales-analytics/storage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe a source file without cleaning it",
	RunE:  runInspect,
}

var inspectFlags struct {
	data string
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFlags.data, "data", "d", "", "Source file (.csv or .xlsx); overrides DATA_PATH")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := cfg.Apply(config.Overrides{DataPath: inspectFlags.data}); err != nil {
		return err
	}

	reader, err := storage.OpenSource(cfg.DataPath, logger)
	if err != nil {
		return err
	}
	raw, err := reader.Read(cmd.Context(), cfg.DataPath)
	if err != nil {
		return err
	}

	analyzer := services.NewAnalyzer(logger)
	analyzer.Load(raw)
	insp, err := analyzer.Inspect()
	if err != nil {
		return err
	}
	printInspection(cmd.OutOrStdout(), cfg.DataPath, insp)
	return nil
}

func printInspection(w io.Writer, path string, insp *models.Inspection) {
	fmt.Fprintf(w, "Source     : %s\n", path)
	fmt.Fprintf(w, "Shape      : %d rows × %d columns\n", insp.Rows, insp.Columns)
	fmt.Fprintf(w, "Duplicates : %d\n", insp.Duplicates)
	fmt.Fprintln(w, "Missing values:")

	cols := make([]string, 0, len(insp.MissingValues))
	for col := range insp.MissingValues {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		fmt.Fprintf(w, "  %-18s %d\n", col, insp.MissingValues[col])
	}
}
