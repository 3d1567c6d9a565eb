package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createGridXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "grid.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadGridXLSX(t *testing.T) {
	path := createGridXLSX(t, map[string][][]string{
		SheetTrajectories: {
			{"tier", "year 1", "year 2", "year 3"},
			{"very_low", "8", "10", "12"},
			{"High", "15", "18"},
		},
		SheetRates: {
			{"discount_rate", "growth_rate"},
			{"0.08", "0.02"},
			{"0.09", "0.03"},
			{"0.10", ""},
		},
	})

	g, err := LoadGridXLSX(path)
	require.NoError(t, err)

	require.Len(t, g.Trajectories, 2)
	assert.Equal(t, TierVeryLow, g.Trajectories[0].Tier)
	assert.Equal(t, []float64{8, 10, 12}, g.Trajectories[0].CashFlows)
	assert.Equal(t, TierHigh, g.Trajectories[1].Tier)
	assert.Equal(t, []float64{15, 18}, g.Trajectories[1].CashFlows)
	assert.Equal(t, []float64{0.08, 0.09, 0.10}, g.DiscountRates)
	assert.Equal(t, []float64{0.02, 0.03}, g.GrowthRates)
}

func TestLoadGrid_DispatchesOnExtension(t *testing.T) {
	path := createGridXLSX(t, map[string][][]string{
		SheetTrajectories: {
			{"tier", "year 1"},
			{"medium", "12"},
		},
		SheetRates: {
			{"discount_rate", "growth_rate"},
			{"0.1", "0.02"},
		},
	})

	g, err := LoadGrid(path)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size())
}

func TestLoadGridXLSX_MissingSheet(t *testing.T) {
	path := createGridXLSX(t, map[string][][]string{
		SheetTrajectories: {{"tier"}, {"low", "1"}},
	})

	_, err := LoadGridXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Rates" not found`)
}

func TestLoadGridXLSX_BadValues(t *testing.T) {
	tests := []struct {
		name    string
		traj    [][]string
		rates   [][]string
		wantErr string
	}{
		{
			name:    "unknown tier",
			traj:    [][]string{{"tier"}, {"huge", "1"}},
			rates:   [][]string{{"r", "g"}, {"0.1", "0.02"}},
			wantErr: `unknown tier "huge"`,
		},
		{
			name:    "bad cash flow",
			traj:    [][]string{{"tier"}, {"low", "1", "x"}},
			rates:   [][]string{{"r", "g"}, {"0.1", "0.02"}},
			wantErr: "Trajectories row 2 year 2",
		},
		{
			name:    "bad rate",
			traj:    [][]string{{"tier"}, {"low", "1"}},
			rates:   [][]string{{"r", "g"}, {"0.1", "two"}},
			wantErr: "Rates row 2 column 2",
		},
		{
			name:    "fails validation",
			traj:    [][]string{{"tier"}, {"low"}},
			rates:   [][]string{{"r", "g"}, {"0.1", "0.02"}},
			wantErr: "Low trajectory has no cash flows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createGridXLSX(t, map[string][][]string{
				SheetTrajectories: tt.traj,
				SheetRates:        tt.rates,
			})
			_, err := LoadGridXLSX(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadGridXLSX_NotAWorkbook(t *testing.T) {
	_, err := LoadGridXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open grid workbook")
}
