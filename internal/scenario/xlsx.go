package scenario

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheets read by LoadGridXLSX.
const (
	SheetTrajectories = "Trajectories"
	SheetRates        = "Rates"
)

// LoadGridXLSX reads a grid from a workbook. The Trajectories sheet holds a
// header row then one row per trajectory: tier name followed by the yearly
// cash flows. The Rates sheet holds a header row then discount rates in the
// first column and growth rates in the second; either column may end early.
func LoadGridXLSX(path string) (Grid, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return Grid{}, eris.Wrap(err, "scenario: open grid workbook")
	}

	trajRows, err := sheetRows(f, SheetTrajectories)
	if err != nil {
		return Grid{}, err
	}
	rateRows, err := sheetRows(f, SheetRates)
	if err != nil {
		return Grid{}, err
	}

	var g Grid
	for i, row := range trajRows {
		if i == 0 || blank(row) {
			continue
		}
		tier, err := ParseTier(row[0])
		if err != nil {
			return Grid{}, eris.Wrapf(err, "scenario: %s row %d", SheetTrajectories, i+1)
		}
		tr := Trajectory{Tier: tier}
		for j, cell := range row[1:] {
			if cell == "" {
				break
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return Grid{}, eris.Wrapf(err, "scenario: %s row %d year %d", SheetTrajectories, i+1, j+1)
			}
			tr.CashFlows = append(tr.CashFlows, v)
		}
		g.Trajectories = append(g.Trajectories, tr)
	}

	for i, row := range rateRows {
		if i == 0 {
			continue
		}
		for col, dst := range []*[]float64{&g.DiscountRates, &g.GrowthRates} {
			if col >= len(row) || row[col] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return Grid{}, eris.Wrapf(err, "scenario: %s row %d column %d", SheetRates, i+1, col+1)
			}
			*dst = append(*dst, v)
		}
	}

	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func sheetRows(f *xlsx.File, name string) ([][]string, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, eris.Errorf("scenario: sheet %q not found", name)
	}
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.Value)
	}
	return cells
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
