package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/dcf-cli/internal/dcf"
	"github.com/sells-group/dcf-cli/internal/report"
)

var (
	valueCashFlows    string
	valueDiscountRate float64
	valueGrowthRate   float64
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Value a single cash flow projection",
	Long: `Computes the DCF enterprise value of one projection and prints the breakdown
into discounted cash flows and discounted terminal value.

Examples:
  value --cash-flows 8,10,12 --discount-rate 0.08 --growth-rate 0.02`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfs, err := parseCashFlows(valueCashFlows)
		if err != nil {
			return err
		}

		v, err := dcf.Calculate(cfs, valueDiscountRate, valueGrowthRate)
		if err != nil {
			return eris.Wrap(err, "value")
		}

		printValuation(cmd.OutOrStdout(), cfs, valueDiscountRate, valueGrowthRate, v)
		return nil
	},
}

func init() {
	valueCmd.Flags().StringVar(&valueCashFlows, "cash-flows", "", "comma-separated free cash flows for years 1..n (required)")
	valueCmd.Flags().Float64Var(&valueDiscountRate, "discount-rate", 0.10, "discount rate, e.g. 0.08")
	valueCmd.Flags().Float64Var(&valueGrowthRate, "growth-rate", 0.02, "terminal growth rate, e.g. 0.02")
	_ = valueCmd.MarkFlagRequired("cash-flows")
	rootCmd.AddCommand(valueCmd)
}

func parseCashFlows(s string) ([]float64, error) {
	parts := splitAndTrim(s)
	if len(parts) == 0 {
		return nil, eris.New("value: --cash-flows is empty")
	}
	cfs := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "value: parse cash flow %q", p)
		}
		cfs[i] = v
	}
	return cfs, nil
}

func printValuation(w io.Writer, cfs []float64, r, g float64, v dcf.Valuation) {
	fmt.Fprintf(w, "Cash flows:        %s\n", report.FormatCashFlows(cfs))
	fmt.Fprintf(w, "Discount rate:     %s\n", report.FormatRate(r))
	fmt.Fprintf(w, "Growth rate:       %s\n", report.FormatRate(g))
	fmt.Fprintf(w, "PV(FCF):           %s\n", report.FormatValue(v.PVCashFlows, 2))
	fmt.Fprintf(w, "Terminal value:    %s\n", report.FormatValue(v.TerminalValue, 2))
	fmt.Fprintf(w, "PV(TV):            %s\n", report.FormatValue(v.PVTerminalValue, 2))
	fmt.Fprintf(w, "Enterprise value:  %s\n", report.FormatValue(v.EnterpriseValue, 2))
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
