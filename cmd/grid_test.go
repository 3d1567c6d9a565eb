package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dcf-cli/internal/scenario"
)

func TestWriteScenarioList_DefaultGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScenarioList(&buf, scenario.Enumerate(scenario.DefaultGrid())))

	s := buf.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	// header, separator, 40 rows, blank, summary
	require.Len(t, lines, 44)
	assert.Contains(t, lines[2], "Very Low")
	assert.Contains(t, lines[2], "ok")
	assert.Contains(t, s, "40 scenarios, 0 skipped")
	assert.NotContains(t, s, "skip (g >= r)")
}

func TestWriteScenarioList_MarksSkips(t *testing.T) {
	g := scenario.Grid{
		Trajectories:  []scenario.Trajectory{{Tier: scenario.TierHigh, CashFlows: []float64{15, 18, 22}}},
		DiscountRates: []float64{0.03, 0.10},
		GrowthRates:   []float64{0.03},
	}

	var buf bytes.Buffer
	require.NoError(t, writeScenarioList(&buf, scenario.Enumerate(g)))

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines[2], "skip (g >= r)")
	assert.Contains(t, lines[3], "ok")
	assert.Contains(t, buf.String(), "2 scenarios, 1 skipped")
}

func TestGridCmd_RunE_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
trajectories:
  - tier: medium
    cash_flows: [12, 15, 18]
discount_rates: [0.09]
growth_rates: [0.02, 0.03]
`), 0o644))

	gridPath = path
	var buf bytes.Buffer
	gridCmd.SetOut(&buf)
	t.Cleanup(func() {
		gridPath = ""
		gridCmd.SetOut(nil)
	})

	require.NoError(t, gridCmd.RunE(gridCmd, nil))
	assert.Contains(t, buf.String(), "Medium")
	assert.Contains(t, buf.String(), "2 scenarios, 0 skipped")
}
