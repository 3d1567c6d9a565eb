package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Grid.Path)
	assert.Equal(t, "Analyse_DCF_Sensibilite.png", cfg.Chart.Output)
	assert.Equal(t, 300, cfg.Chart.DPI)
	assert.InDelta(t, 12.0, cfg.Chart.WidthIn, 0.001)
	assert.InDelta(t, 8.0, cfg.Chart.HeightIn, 0.001)
	assert.InDelta(t, 3.0, cfg.Chart.LegendWidthIn, 0.001)
	assert.Equal(t, "Discount Rate (r)", cfg.Chart.XLabel)
	assert.Equal(t, "FCF Scenario & Growth", cfg.Chart.LegendTitle)
	assert.NotEmpty(t, cfg.Chart.Title)
	assert.NotEmpty(t, cfg.Chart.YLabel)
	assert.Empty(t, cfg.Export.XLSX)
	assert.Empty(t, cfg.Export.CSV)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("run"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
grid:
  path: grids/wide.yaml
chart:
  output: out/sensitivity.png
  dpi: 150
log:
  level: debug
  format: console
export:
  xlsx: results.xlsx
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "grids/wide.yaml", cfg.Grid.Path)
	assert.Equal(t, "out/sensitivity.png", cfg.Chart.Output)
	assert.Equal(t, 150, cfg.Chart.DPI)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "results.xlsx", cfg.Export.XLSX)
	// Defaults still apply for unset values
	assert.InDelta(t, 12.0, cfg.Chart.WidthIn, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
chart:
  dpi: 150
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DCF_CHART_DPI", "72")
	t.Setenv("DCF_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, 72, cfg.Chart.DPI)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("DCF_CHART_OUTPUT", "custom.png")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "custom.png", cfg.Chart.Output)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("chart: [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Chart.Output = DefaultChartOutput
	cfg.Chart.DPI = 300
	cfg.Chart.WidthIn = 12
	cfg.Chart.HeightIn = 8
	cfg.Chart.LegendWidthIn = 3
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

func TestValidateRun_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("run"))
}

func TestValidateRun_MultipleProblems(t *testing.T) {
	cfg := validDefaults()
	cfg.Chart.Output = "chart.jpg"
	cfg.Chart.DPI = 0
	cfg.Chart.HeightIn = -1
	cfg.Export.XLSX = "results.csv"

	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart.output must be a .png file")
	assert.Contains(t, err.Error(), "chart.dpi must be positive")
	assert.Contains(t, err.Error(), "chart.width_in and chart.height_in must be positive")
	assert.Contains(t, err.Error(), "export.xlsx must be a .xlsx file")
}

func TestValidateRun_MissingOutput(t *testing.T) {
	cfg := validDefaults()
	cfg.Chart.Output = ""

	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart.output is required")
}

func TestValidate_ChartIgnoredOutsideRun(t *testing.T) {
	cfg := validDefaults()
	cfg.Chart.DPI = 0

	assert.NoError(t, cfg.Validate("value"))
}

func TestValidate_LogFormat(t *testing.T) {
	cfg := validDefaults()
	cfg.Log.Format = "xml"

	err := cfg.Validate("value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format must be json or console")
}
