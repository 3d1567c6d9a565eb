package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/dcf-cli/internal/scenario"
)

var printer = message.NewPrinter(language.English)

// FormatValue formats v with thousands separators and the given number of
// decimals, never in scientific notation.
func FormatValue(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatRate formats a rate as a percentage, e.g. 0.085 -> "8.5%".
func FormatRate(r float64) string {
	pct := math.Round(r*1e6) / 1e4
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatCashFlows joins a trajectory as "8 / 10 / 12".
func FormatCashFlows(cfs []float64) string {
	parts := make([]string, len(cfs))
	for i, cf := range cfs {
		parts[i] = formatFloat(cf)
	}
	return strings.Join(parts, " / ")
}

// WriteTable writes results as a fixed-width console table.
func WriteTable(w io.Writer, results []scenario.Result) error {
	header := fmt.Sprintf("%4s  %-9s %-18s %7s %6s %12s %12s %12s\n",
		"ID", "Tier", "Cash Flows", "r", "g", "PV(FCF)", "PV(TV)", "EV")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "report: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 89)); err != nil {
		return eris.Wrap(err, "report: write table separator")
	}

	for _, r := range results {
		line := fmt.Sprintf("%4d  %-9s %-18s %7s %6s %12s %12s %12s\n",
			r.ID,
			r.Trajectory.Tier,
			FormatCashFlows(r.Trajectory.CashFlows),
			FormatRate(r.DiscountRate),
			FormatRate(r.GrowthRate),
			FormatValue(r.PVCashFlows, 2),
			FormatValue(r.PVTerminalValue, 2),
			FormatValue(r.EnterpriseValue, 2),
		)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "report: write table row")
		}
	}
	return nil
}

// CSVHeader is the column layout written by WriteCSV.
var CSVHeader = []string{
	"scenario_id", "tier", "cash_flows", "discount_rate", "growth_rate",
	"pv_cash_flows", "terminal_value", "pv_terminal_value", "enterprise_value",
}

// WriteCSV writes results with full precision. Cash flows are joined with ";".
func WriteCSV(w io.Writer, results []scenario.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}

	for _, r := range results {
		cfs := make([]string, len(r.Trajectory.CashFlows))
		for i, cf := range r.Trajectory.CashFlows {
			cfs[i] = formatFloat(cf)
		}
		row := []string{
			strconv.Itoa(r.ID),
			r.Trajectory.Tier.String(),
			strings.Join(cfs, ";"),
			formatFloat(r.DiscountRate),
			formatFloat(r.GrowthRate),
			formatFloat(r.PVCashFlows),
			formatFloat(r.TerminalValue),
			formatFloat(r.PVTerminalValue),
			formatFloat(r.EnterpriseValue),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush CSV")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
