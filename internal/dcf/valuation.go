// Package dcf computes enterprise values with a two-stage discounted cash flow
// model: explicit yearly free cash flows followed by a Gordon growth terminal value.
package dcf

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrGrowthNotBelowDiscount is returned when the terminal growth rate is not
// strictly below the discount rate. The perpetuity has no finite value then.
var ErrGrowthNotBelowDiscount = eris.New("dcf: terminal growth rate must be below discount rate")

// ErrNoCashFlows is returned for an empty cash flow projection.
var ErrNoCashFlows = eris.New("dcf: cash flow projection is empty")

// ErrNonFiniteCashFlow is returned when a projected cash flow is NaN or infinite.
var ErrNonFiniteCashFlow = eris.New("dcf: cash flow is not a finite number")

// Valuation holds the components of a DCF enterprise value.
type Valuation struct {
	PVCashFlows     float64 `json:"pv_cash_flows"`     // sum of discounted explicit cash flows
	TerminalValue   float64 `json:"terminal_value"`    // TV at the end of year n, undiscounted
	PVTerminalValue float64 `json:"pv_terminal_value"` // TV discounted back n years
	EnterpriseValue float64 `json:"enterprise_value"`
}

// Calculate values a cash flow projection for years 1..n at discount rate r
// with terminal growth rate g.
//
// FORMULA:
//
//	TV_n = CF_n × (1 + g) / (r − g)
//	EV   = Σ CF_t / (1 + r)^t + TV_n / (1 + r)^n
//
// The r <= g check runs before anything else and yields ErrGrowthNotBelowDiscount.
// No rounding is applied.
func Calculate(cashFlows []float64, discountRate, growthRate float64) (Valuation, error) {
	if discountRate <= growthRate {
		return Valuation{}, ErrGrowthNotBelowDiscount
	}
	if len(cashFlows) == 0 {
		return Valuation{}, ErrNoCashFlows
	}
	for i, cf := range cashFlows {
		if math.IsNaN(cf) || math.IsInf(cf, 0) {
			return Valuation{}, eris.Wrapf(ErrNonFiniteCashFlow, "dcf: year %d", i+1)
		}
	}

	n := len(cashFlows)
	nextCF := cashFlows[n-1] * (1 + growthRate)
	tv := TerminalValueGordonGrowth(nextCF, discountRate, growthRate)
	pvTV := PresentValue(tv, discountRate, n)
	pvCF := PresentValueOfCashFlows(cashFlows, discountRate)

	return Valuation{
		PVCashFlows:     pvCF,
		TerminalValue:   tv,
		PVTerminalValue: pvTV,
		EnterpriseValue: pvCF + pvTV,
	}, nil
}

// Value returns only the enterprise value of Calculate.
func Value(cashFlows []float64, discountRate, growthRate float64) (float64, error) {
	v, err := Calculate(cashFlows, discountRate, growthRate)
	if err != nil {
		return 0, err
	}
	return v.EnterpriseValue, nil
}

// TerminalValueGordonGrowth capitalises next period's cash flow as a growing
// perpetuity: CF_{t+1} / (r - g). Returns 0 when r <= g.
func TerminalValueGordonGrowth(nextPeriodCF, discountRate, growthRate float64) float64 {
	if discountRate <= growthRate {
		return 0
	}
	return nextPeriodCF / (discountRate - growthRate)
}

// PresentValue discounts a single cash flow received at the end of period t.
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// PresentValueOfCashFlows discounts end-of-period cash flows, the first one
// received at t=1.
func PresentValueOfCashFlows(cashFlows []float64, discountRate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += PresentValue(cf, discountRate, t+1)
	}
	return pv
}
