// Package report renders valuation results as a sensitivity chart, a console
// table and CSV/XLSX exports.
package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/sells-group/dcf-cli/internal/scenario"
)

// ErrNoSeries is returned when there is nothing to plot.
var ErrNoSeries = eris.New("report: no valuation results to chart")

// ChartOptions controls the chart layout. Width and Height size the plot
// area; the legend is drawn in an extra LegendWidth to the right of it.
type ChartOptions struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Width       vg.Length
	Height      vg.Length
	LegendWidth vg.Length
	DPI         int
}

// DefaultChartOptions returns a 12x8 inch, 300 DPI layout.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:       "DCF Sensitivity Analysis: Enterprise Value vs Discount Rate",
		XLabel:      "Discount Rate (r)",
		YLabel:      "Enterprise Value (EV), millions",
		LegendTitle: "FCF Scenario & Growth",
		Width:       12 * vg.Inch,
		Height:      8 * vg.Inch,
		LegendWidth: 3 * vg.Inch,
		DPI:         300,
	}
}

// NewPlot builds the line chart: one line with circle markers per series,
// x ticks at exactly the given discount rates and plain y tick labels. The
// returned legend lists the series in order and is not attached to the plot.
func NewPlot(series []scenario.Series, discountRates []float64, opts ChartOptions) (*plot.Plot, plot.Legend, error) {
	if len(series) == 0 {
		return nil, plot.Legend{}, ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.X.Tick.Marker = rateTicks(discountRates)
	p.Y.Tick.Marker = plainTicks{}

	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(4), vg.Points(3)}
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Dashes = dashes
	grid.Vertical.Color = color.Gray{Y: 190}
	grid.Horizontal.Color = color.Gray{Y: 190}
	p.Add(grid)

	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = true
	legend.Padding = vg.Points(4)

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = pt.DiscountRate
			xys[j].Y = pt.EnterpriseValue
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, plot.Legend{}, eris.Wrapf(err, "report: build series %q", s.Label)
		}
		c := plotutil.Color(i)
		line.Color = c
		line.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = c
		points.Radius = vg.Points(3)

		p.Add(line, points)
		legend.Add(s.Label, line, points)
	}

	return p, legend, nil
}

// RenderChart draws the chart and its legend onto an in-memory image.
func RenderChart(series []scenario.Series, discountRates []float64, opts ChartOptions) (*vgimg.Canvas, error) {
	p, legend, err := NewPlot(series, discountRates, opts)
	if err != nil {
		return nil, err
	}

	img := vgimg.NewWith(
		vgimg.UseWH(opts.Width+opts.LegendWidth, opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	dc := draw.New(img)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())

	p.Draw(draw.Crop(dc, 0, -opts.LegendWidth, 0, 0))

	if opts.LegendWidth > 0 {
		drawLegend(draw.Crop(dc, opts.Width, 0, 0, 0), legend, len(series), opts.LegendTitle)
	}
	return img, nil
}

// drawLegend centres the legend block vertically with its title above the
// entries.
func drawLegend(c draw.Canvas, legend plot.Legend, entries int, title string) {
	titleStyle := legend.TextStyle
	titleStyle.Font.Size = legend.TextStyle.Font.Size * 1.1
	titleStyle.XAlign = text.XLeft
	titleStyle.YAlign = text.YTop

	titleGap := vg.Length(0)
	if title != "" {
		titleGap = titleStyle.Font.Size * 2
	}
	entryHeight := legend.TextStyle.Font.Size*1.2 + legend.Padding
	block := titleGap + vg.Length(entries)*entryHeight
	top := (c.Max.Y - c.Min.Y - block) / 2
	if top < 0 {
		top = 0
	}

	c = draw.Crop(c, vg.Points(8), 0, 0, -top)
	if title != "" {
		c.FillText(titleStyle, vg.Point{X: c.Min.X, Y: c.Max.Y}, title)
	}
	legend.YOffs = -titleGap
	legend.Draw(c)
}

// SaveChart renders the chart and writes it as a PNG, replacing any existing
// file at path.
func SaveChart(path string, series []scenario.Series, discountRates []float64, opts ChartOptions) error {
	img, err := RenderChart(series, discountRates, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create chart %s", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "report: write chart %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "report: close chart %s", path)
	}

	zap.L().Info("report: chart written",
		zap.String("path", path),
		zap.Int("series", len(series)),
		zap.Int("dpi", opts.DPI),
	)
	return nil
}

// rateTicks places a labelled tick at each rate. Labels carry at least two
// decimals and as many more as needed to show each rate exactly.
func rateTicks(rates []float64) plot.ConstantTicks {
	decimals := max(2, tickDecimals(rates))
	ticks := make(plot.ConstantTicks, len(rates))
	for i, r := range rates {
		ticks[i] = plot.Tick{Value: r, Label: fmt.Sprintf("%.*f", decimals, r)}
	}
	return ticks
}

// plainTicks keeps the default tick positions but labels major ticks with
// grouped digits instead of the default float formatting. The number of
// decimals follows the tick step.
type plainTicks struct{}

func (plainTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)

	var major []float64
	for _, tk := range ticks {
		if tk.Label != "" {
			major = append(major, tk.Value)
		}
	}
	decimals := tickDecimals(major)

	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatValue(ticks[i].Value, decimals)
		}
	}
	return ticks
}

// tickDecimals returns the fewest decimals, starting from the order of
// magnitude of the smallest gap between values, at which every value is
// shown without rounding.
func tickDecimals(values []float64) int {
	maxAbs := 1.0
	for _, v := range values {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	tol := 1e-9 * maxAbs

	decimals := 0
	if step := smallestGap(values); step > tol {
		decimals = max(0, int(-math.Floor(math.Log10(step)+1e-6)))
	}
	for ; decimals < maxTickDecimals; decimals++ {
		scale := math.Pow(10, float64(decimals))
		exact := true
		for _, v := range values {
			if math.Abs(math.Round(v*scale)/scale-v) > tol {
				exact = false
				break
			}
		}
		if exact {
			break
		}
	}
	return decimals
}

const maxTickDecimals = 10

// smallestGap returns the smallest positive difference between any two
// values, or 0 when there is none.
func smallestGap(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var gap float64
	for i := 1; i < len(sorted); i++ {
		d := sorted[i] - sorted[i-1]
		if d > 0 && (gap == 0 || d < gap) {
			gap = d
		}
	}
	return gap
}
