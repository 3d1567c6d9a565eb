package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/dcf-cli/internal/config"
	"github.com/sells-group/dcf-cli/internal/report"
	"github.com/sells-group/dcf-cli/internal/scenario"
)

var (
	runGrid   string
	runOutput string
	runXLSX   string
	runCSV    string
	runTable  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Value the scenario grid and render the sensitivity chart",
	Long: `Values every combination of cash flow trajectory, discount rate and terminal
growth rate, skipping combinations where growth is not below the discount rate,
and writes a PNG chart of enterprise value against discount rate.

Examples:
  # Built-in grid, chart written to Analyse_DCF_Sensibilite.png
  run

  # Custom grid with table output and an XLSX export
  run --grid grid.yaml --table --xlsx results.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *cfg
		applyRunOverrides(&c)
		if err := c.Validate("run"); err != nil {
			return err
		}

		_, err := executeRun(cmd.OutOrStdout(), &c, runTable)
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&runGrid, "grid", "", "scenario grid YAML or XLSX file (default: built-in grid)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "chart PNG path (overrides config)")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "also export results to an XLSX workbook")
	runCmd.Flags().StringVar(&runCSV, "csv", "", "also export results to a CSV file")
	runCmd.Flags().BoolVar(&runTable, "table", false, "print the result table")
	rootCmd.AddCommand(runCmd)
}

func applyRunOverrides(c *config.Config) {
	if runGrid != "" {
		c.Grid.Path = runGrid
	}
	if runOutput != "" {
		c.Chart.Output = runOutput
	}
	if runXLSX != "" {
		c.Export.XLSX = runXLSX
	}
	if runCSV != "" {
		c.Export.CSV = runCSV
	}
}

// executeRun values the grid, writes the chart and any exports, and prints
// status lines to w.
func executeRun(w io.Writer, c *config.Config, showTable bool) (*scenario.Outcome, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("command", "run"), zap.String("run_id", runID))

	banner := strings.Repeat("=", 70)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Starting DCF sensitivity run...")

	grid, err := loadGrid(c.Grid.Path)
	if err != nil {
		return nil, err
	}
	log.Info("run: grid loaded",
		zap.String("grid", gridSource(c.Grid.Path)),
		zap.Int("scenarios", grid.Size()),
	)

	out, err := scenario.Run(grid)
	if err != nil {
		return nil, eris.Wrap(err, "run: value grid")
	}

	if showTable {
		fmt.Fprintln(w)
		if err := report.WriteTable(w, out.Results); err != nil {
			return nil, err
		}
		fmt.Fprintln(w)
	}

	series := scenario.GroupSeries(out.Results)
	if err := report.SaveChart(c.Chart.Output, series, scenario.DiscountRates(out.Results), chartOptions(c.Chart)); err != nil {
		return nil, eris.Wrap(err, "run: save chart")
	}

	if c.Export.CSV != "" {
		if err := writeCSVFile(c.Export.CSV, out.Results); err != nil {
			return nil, err
		}
		log.Info("run: csv written", zap.String("path", c.Export.CSV))
	}
	if c.Export.XLSX != "" {
		if err := report.WriteXLSX(c.Export.XLSX, runID, out); err != nil {
			return nil, eris.Wrap(err, "run: export xlsx")
		}
		log.Info("run: xlsx written", zap.String("path", c.Export.XLSX))
	}

	printRunSummary(w, out)
	color.New(color.FgGreen, color.Bold).Fprintf(w, "Success: chart saved to %s\n", c.Chart.Output)
	fmt.Fprintln(w, banner)

	log.Info("run: complete",
		zap.Int("valued", len(out.Results)),
		zap.Int("skipped", len(out.Skipped)),
	)
	return out, nil
}

func loadGrid(path string) (scenario.Grid, error) {
	if path == "" {
		return scenario.DefaultGrid(), nil
	}
	return scenario.LoadGrid(path)
}

func gridSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

func chartOptions(c config.ChartConfig) report.ChartOptions {
	return report.ChartOptions{
		Title:       c.Title,
		XLabel:      c.XLabel,
		YLabel:      c.YLabel,
		LegendTitle: c.LegendTitle,
		Width:       vg.Length(c.WidthIn) * vg.Inch,
		Height:      vg.Length(c.HeightIn) * vg.Inch,
		LegendWidth: vg.Length(c.LegendWidthIn) * vg.Inch,
		DPI:         c.DPI,
	}
}

func writeCSVFile(path string, results []scenario.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "run: create CSV %s", path)
	}
	if err := report.WriteCSV(f, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "run: close CSV %s", path)
	}
	return nil
}

func printRunSummary(w io.Writer, out *scenario.Outcome) {
	fmt.Fprintf(w, "Scenarios:  %d\n", out.Attempted())
	fmt.Fprintf(w, "Valued:     %d\n", len(out.Results))
	if len(out.Skipped) > 0 {
		color.New(color.FgYellow).Fprintf(w, "Skipped:    %d (growth rate not below discount rate)\n", len(out.Skipped))
	} else {
		fmt.Fprintf(w, "Skipped:    %d\n", len(out.Skipped))
	}
	if lo, hi := out.ValueRange(); len(out.Results) > 0 {
		fmt.Fprintf(w, "EV range:   %s - %s\n", report.FormatValue(lo, 2), report.FormatValue(hi, 2))
	}
}
