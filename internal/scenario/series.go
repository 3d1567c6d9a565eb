package scenario

import (
	"fmt"
	"math"
	"sort"
)

// Point is one plotted valuation.
type Point struct {
	DiscountRate    float64
	EnterpriseValue float64
}

// Series is every result sharing a legend label.
type Series struct {
	Label      string
	Tier       Tier
	GrowthRate float64
	Points     []Point
}

// Legend formats a series label as "<tier> (g=<growth %>%)", with the
// growth rate rounded to a whole percentage, halves to even.
func Legend(t Tier, growthRate float64) string {
	return fmt.Sprintf("%s (g=%d%%)", t, growthPercent(growthRate))
}

func growthPercent(growthRate float64) int {
	return int(math.RoundToEven(growthRate * 100))
}

// GroupSeries groups results by legend label. Series are ordered by tier
// display order and then by growth rate, whatever the order of results.
// Points within a series are ordered by discount rate.
func GroupSeries(results []Result) []Series {
	index := make(map[string]int)
	var series []Series
	for _, r := range results {
		label := r.Legend()
		i, ok := index[label]
		if !ok {
			i = len(series)
			index[label] = i
			series = append(series, Series{
				Label:      label,
				Tier:       r.Trajectory.Tier,
				GrowthRate: r.GrowthRate,
			})
		}
		series[i].Points = append(series[i].Points, Point{
			DiscountRate:    r.DiscountRate,
			EnterpriseValue: r.EnterpriseValue,
		})
	}

	sort.SliceStable(series, func(a, b int) bool {
		if series[a].Tier != series[b].Tier {
			return series[a].Tier < series[b].Tier
		}
		return series[a].GrowthRate < series[b].GrowthRate
	})
	for i := range series {
		pts := series[i].Points
		sort.SliceStable(pts, func(a, b int) bool {
			return pts[a].DiscountRate < pts[b].DiscountRate
		})
	}
	return series
}

// DiscountRates returns the distinct discount rates of the results in
// ascending order.
func DiscountRates(results []Result) []float64 {
	seen := make(map[float64]bool)
	var rates []float64
	for _, r := range results {
		if !seen[r.DiscountRate] {
			seen[r.DiscountRate] = true
			rates = append(rates, r.DiscountRate)
		}
	}
	sort.Float64s(rates)
	return rates
}
