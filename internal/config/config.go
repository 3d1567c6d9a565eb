package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultChartOutput is the file the sensitivity chart is written to.
const DefaultChartOutput = "Analyse_DCF_Sensibilite.png"

// Config holds the full application configuration.
type Config struct {
	Grid   GridConfig   `yaml:"grid" mapstructure:"grid"`
	Chart  ChartConfig  `yaml:"chart" mapstructure:"chart"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// GridConfig points at an optional scenario grid file. Empty means the
// built-in grid.
type GridConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ChartConfig configures the sensitivity chart.
type ChartConfig struct {
	Output        string  `yaml:"output" mapstructure:"output"`
	DPI           int     `yaml:"dpi" mapstructure:"dpi"`
	WidthIn       float64 `yaml:"width_in" mapstructure:"width_in"`
	HeightIn      float64 `yaml:"height_in" mapstructure:"height_in"`
	LegendWidthIn float64 `yaml:"legend_width_in" mapstructure:"legend_width_in"`
	Title         string  `yaml:"title" mapstructure:"title"`
	XLabel        string  `yaml:"x_label" mapstructure:"x_label"`
	YLabel        string  `yaml:"y_label" mapstructure:"y_label"`
	LegendTitle   string  `yaml:"legend_title" mapstructure:"legend_title"`
}

// ExportConfig configures optional tabular exports of the results.
type ExportConfig struct {
	XLSX string `yaml:"xlsx" mapstructure:"xlsx"`
	CSV  string `yaml:"csv" mapstructure:"csv"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DCF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("grid.path", "")
	v.SetDefault("chart.output", DefaultChartOutput)
	v.SetDefault("chart.dpi", 300)
	v.SetDefault("chart.width_in", 12.0)
	v.SetDefault("chart.height_in", 8.0)
	v.SetDefault("chart.legend_width_in", 3.0)
	v.SetDefault("chart.title", "DCF Sensitivity Analysis: Enterprise Value vs Discount Rate")
	v.SetDefault("chart.x_label", "Discount Rate (r)")
	v.SetDefault("chart.y_label", "Enterprise Value (EV), millions")
	v.SetDefault("chart.legend_title", "FCF Scenario & Growth")
	v.SetDefault("export.xlsx", "")
	v.SetDefault("export.csv", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. Every problem found is
// reported in a single error.
func (c *Config) Validate(command string) error {
	var problems []string

	switch c.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, "log.format must be json or console")
	}

	if command == "run" {
		if c.Chart.Output == "" {
			problems = append(problems, "chart.output is required")
		} else if ext := strings.ToLower(filepath.Ext(c.Chart.Output)); ext != ".png" {
			problems = append(problems, "chart.output must be a .png file")
		}
		if c.Chart.DPI <= 0 {
			problems = append(problems, "chart.dpi must be positive")
		}
		if c.Chart.WidthIn <= 0 || c.Chart.HeightIn <= 0 {
			problems = append(problems, "chart.width_in and chart.height_in must be positive")
		}
		if c.Chart.LegendWidthIn < 0 {
			problems = append(problems, "chart.legend_width_in must not be negative")
		}
		if c.Export.XLSX != "" && strings.ToLower(filepath.Ext(c.Export.XLSX)) != ".xlsx" {
			problems = append(problems, "export.xlsx must be a .xlsx file")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
