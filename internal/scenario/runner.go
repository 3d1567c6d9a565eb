package scenario

import (
	"errors"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dcf-cli/internal/dcf"
)

// Scenario is one combination of the grid. IDs are 1-based and assigned in
// enumeration order, including combinations that are later skipped.
type Scenario struct {
	ID           int        `json:"id"`
	Trajectory   Trajectory `json:"trajectory"`
	DiscountRate float64    `json:"discount_rate"`
	GrowthRate   float64    `json:"growth_rate"`
}

// Valid reports whether the scenario can be valued (r > g).
func (s Scenario) Valid() bool {
	return s.DiscountRate > s.GrowthRate
}

// Legend returns the series label the scenario is plotted under.
func (s Scenario) Legend() string {
	return Legend(s.Trajectory.Tier, s.GrowthRate)
}

// Result is a valued scenario.
type Result struct {
	Scenario
	dcf.Valuation
}

// Outcome collects the valued and skipped scenarios of a run, both in
// enumeration order.
type Outcome struct {
	Results []Result
	Skipped []Scenario
}

// Attempted returns the number of scenarios enumerated.
func (o *Outcome) Attempted() int {
	return len(o.Results) + len(o.Skipped)
}

// ValueRange returns the lowest and highest enterprise value. Both are NaN
// when there are no results.
func (o *Outcome) ValueRange() (lo, hi float64) {
	if len(o.Results) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range o.Results {
		lo = math.Min(lo, r.EnterpriseValue)
		hi = math.Max(hi, r.EnterpriseValue)
	}
	return lo, hi
}

// Enumerate expands the grid with trajectories outermost, then discount
// rates, then growth rates.
func Enumerate(g Grid) []Scenario {
	scenarios := make([]Scenario, 0, g.Size())
	id := 1
	for _, tr := range g.Trajectories {
		for _, r := range g.DiscountRates {
			for _, gr := range g.GrowthRates {
				scenarios = append(scenarios, Scenario{
					ID:           id,
					Trajectory:   tr,
					DiscountRate: r,
					GrowthRate:   gr,
				})
				id++
			}
		}
	}
	return scenarios
}

// Run values every scenario of the grid in order. Scenarios whose growth
// rate is not below the discount rate are recorded as skipped; any other
// valuation error aborts the run.
func Run(g Grid) (*Outcome, error) {
	log := zap.L().With(zap.Int("scenarios", g.Size()))

	out := &Outcome{}
	for _, s := range Enumerate(g) {
		v, err := dcf.Calculate(s.Trajectory.CashFlows, s.DiscountRate, s.GrowthRate)
		if errors.Is(err, dcf.ErrGrowthNotBelowDiscount) {
			log.Debug("scenario: skipped",
				zap.Int("scenario_id", s.ID),
				zap.String("tier", s.Trajectory.Tier.String()),
				zap.Float64("discount_rate", s.DiscountRate),
				zap.Float64("growth_rate", s.GrowthRate),
			)
			out.Skipped = append(out.Skipped, s)
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "scenario: value scenario %d", s.ID)
		}

		out.Results = append(out.Results, Result{Scenario: s, Valuation: v})
	}

	log.Info("scenario: grid valued",
		zap.Int("valued", len(out.Results)),
		zap.Int("skipped", len(out.Skipped)),
	)
	return out, nil
}
