package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/dcf-cli/internal/scenario"
)

// Sheet names used by WriteXLSX.
const (
	SheetResults = "Results"
	SheetSkipped = "Skipped"
	SheetRun     = "Run"
)

const (
	rateFormat  = "0.00%"
	valueFormat = "#,##0.00"
)

// WriteXLSX writes the outcome of a run to an XLSX workbook: valued
// scenarios, skipped scenarios and a run summary. An existing file is
// replaced.
func WriteXLSX(path, runID string, out *scenario.Outcome) error {
	f := xlsx.NewFile()

	results, err := f.AddSheet(SheetResults)
	if err != nil {
		return eris.Wrap(err, "report: add results sheet")
	}
	addHeader(results, "Scenario", "Tier", "Cash Flows", "Discount Rate", "Growth Rate",
		"PV(FCF)", "Terminal Value", "PV(TV)", "Enterprise Value")
	for _, r := range out.Results {
		row := results.AddRow()
		row.AddCell().SetInt(r.ID)
		row.AddCell().SetString(r.Trajectory.Tier.String())
		row.AddCell().SetString(FormatCashFlows(r.Trajectory.CashFlows))
		row.AddCell().SetFloatWithFormat(r.DiscountRate, rateFormat)
		row.AddCell().SetFloatWithFormat(r.GrowthRate, rateFormat)
		row.AddCell().SetFloatWithFormat(r.PVCashFlows, valueFormat)
		row.AddCell().SetFloatWithFormat(r.TerminalValue, valueFormat)
		row.AddCell().SetFloatWithFormat(r.PVTerminalValue, valueFormat)
		row.AddCell().SetFloatWithFormat(r.EnterpriseValue, valueFormat)
	}

	skipped, err := f.AddSheet(SheetSkipped)
	if err != nil {
		return eris.Wrap(err, "report: add skipped sheet")
	}
	addHeader(skipped, "Scenario", "Tier", "Cash Flows", "Discount Rate", "Growth Rate")
	for _, s := range out.Skipped {
		row := skipped.AddRow()
		row.AddCell().SetInt(s.ID)
		row.AddCell().SetString(s.Trajectory.Tier.String())
		row.AddCell().SetString(FormatCashFlows(s.Trajectory.CashFlows))
		row.AddCell().SetFloatWithFormat(s.DiscountRate, rateFormat)
		row.AddCell().SetFloatWithFormat(s.GrowthRate, rateFormat)
	}

	run, err := f.AddSheet(SheetRun)
	if err != nil {
		return eris.Wrap(err, "report: add run sheet")
	}
	addPair(run, "Run ID").SetString(runID)
	addPair(run, "Scenarios").SetInt(out.Attempted())
	addPair(run, "Valued").SetInt(len(out.Results))
	addPair(run, "Skipped").SetInt(len(out.Skipped))

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().SetString(n)
	}
}

// addPair appends a label/value row and returns the value cell.
func addPair(sheet *xlsx.Sheet, label string) *xlsx.Cell {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	return row.AddCell()
}
