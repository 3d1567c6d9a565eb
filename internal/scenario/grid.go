// Package scenario enumerates DCF input grids, values every combination and
// groups the results into labelled sensitivity series.
package scenario

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Trajectory is a projected free cash flow path for years 1..n together with
// the tier it is reported under.
type Trajectory struct {
	Tier      Tier      `yaml:"tier" json:"tier"`
	CashFlows []float64 `yaml:"cash_flows" json:"cash_flows"`
}

// Grid is the set of inputs whose Cartesian product forms the scenarios.
type Grid struct {
	Trajectories  []Trajectory `yaml:"trajectories" json:"trajectories"`
	DiscountRates []float64    `yaml:"discount_rates" json:"discount_rates"`
	GrowthRates   []float64    `yaml:"growth_rates" json:"growth_rates"`
}

// DefaultGrid returns the built-in sensitivity grid: four cash flow tiers,
// discount rates from 8% to 12% and terminal growth of 2% and 3%.
func DefaultGrid() Grid {
	return Grid{
		Trajectories: []Trajectory{
			{Tier: TierVeryLow, CashFlows: []float64{8, 10, 12}},
			{Tier: TierLow, CashFlows: []float64{10, 12, 15}},
			{Tier: TierMedium, CashFlows: []float64{12, 15, 18}},
			{Tier: TierHigh, CashFlows: []float64{15, 18, 22}},
		},
		DiscountRates: []float64{0.08, 0.09, 0.10, 0.11, 0.12},
		GrowthRates:   []float64{0.02, 0.03},
	}
}

// Size returns the number of scenarios the grid expands to.
func (g Grid) Size() int {
	return len(g.Trajectories) * len(g.DiscountRates) * len(g.GrowthRates)
}

// LoadGrid reads and validates a grid from a YAML file, or from a workbook
// when path has an .xlsx extension.
func LoadGrid(path string) (Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadGridXLSX(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, eris.Wrapf(err, "scenario: read grid %s", path)
	}

	var g Grid
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Grid{}, eris.Wrap(err, "scenario: parse grid")
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Validate checks the grid before any scenario is valued. Combinations where
// the growth rate is not below the discount rate are allowed here; they are
// skipped by Run.
func (g Grid) Validate() error {
	if len(g.Trajectories) == 0 {
		return eris.New("scenario: grid has no cash flow trajectories")
	}
	seen := make(map[Tier]bool, len(g.Trajectories))
	for i, tr := range g.Trajectories {
		if !tr.Tier.Valid() {
			return eris.Errorf("scenario: trajectory %d has invalid tier %d", i+1, int(tr.Tier))
		}
		if seen[tr.Tier] {
			return eris.Errorf("scenario: tier %q used by more than one trajectory", tr.Tier)
		}
		seen[tr.Tier] = true

		if len(tr.CashFlows) == 0 {
			return eris.Errorf("scenario: %s trajectory has no cash flows", tr.Tier)
		}
		for year, cf := range tr.CashFlows {
			if math.IsNaN(cf) || math.IsInf(cf, 0) {
				return eris.Errorf("scenario: %s trajectory year %d is not finite", tr.Tier, year+1)
			}
		}
	}

	if err := validateRates("discount", g.DiscountRates); err != nil {
		return err
	}
	if err := validateRates("growth", g.GrowthRates); err != nil {
		return err
	}

	// Growth rates are shown as whole percentages in legends, so two rates
	// that round to the same label would merge into one series.
	labels := make(map[int]float64, len(g.GrowthRates))
	for _, r := range g.GrowthRates {
		pct := growthPercent(r)
		if prev, ok := labels[pct]; ok {
			return eris.Errorf("scenario: growth rates %g and %g share the legend label %d%%", prev, r, pct)
		}
		labels[pct] = r
	}
	return nil
}

func validateRates(kind string, rates []float64) error {
	if len(rates) == 0 {
		return eris.Errorf("scenario: grid has no %s rates", kind)
	}
	seen := make(map[float64]bool, len(rates))
	for _, r := range rates {
		if math.IsNaN(r) || r <= 0 || r >= 1 {
			return eris.Errorf("scenario: %s rate %g must be between 0 and 1", kind, r)
		}
		if seen[r] {
			return eris.Errorf("scenario: duplicate %s rate %g", kind, r)
		}
		seen[r] = true
	}
	return nil
}
