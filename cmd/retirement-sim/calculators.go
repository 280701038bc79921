package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/internal/output"
)

var calcJSON bool

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	compoundInitial      float64
	compoundContribution float64
	compoundReturn       float64
	compoundYears        int
)

var compoundCmd = &cobra.Command{
	Use:   "compound",
	Short: "Project an investment with monthly contributions",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := calculation.CompoundInvestmentGrowth(compoundInitial, compoundContribution, compoundReturn, compoundYears)
		if err != nil {
			return err
		}
		if calcJSON {
			return printJSON(res)
		}
		fmt.Printf("Final balance:        %s\n", output.FormatCurrency(res.FinalBalance))
		fmt.Printf("Total contributions:  %s\n", output.FormatCurrency(res.TotalContributions))
		fmt.Printf("Total earnings:       %s\n", output.FormatCurrency(res.TotalEarnings))
		fmt.Println()
		fmt.Printf("%-6s %16s %16s %16s\n", "Year", "Balance", "Contributions", "Earnings")
		for _, y := range res.YearlyBreakdown {
			fmt.Printf("%-6d %16s %16s %16s\n", y.Year, output.FormatCurrency(y.EndBalance), output.FormatCurrency(y.Contributions), output.FormatCurrency(y.Earnings))
		}
		return nil
	},
}

var (
	retCurrentAge    int
	retRetirementAge int
	retSavings       float64
	retContribution  float64
	retReturn        float64
	retIncome        float64
)

var retirementCmd = &cobra.Command{
	Use:   "retirement",
	Short: "Compare projected retirement savings with a desired income",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := calculation.RetirementProjection(retCurrentAge, retRetirementAge, retSavings, retContribution, retReturn, retIncome)
		if err != nil {
			return err
		}
		if calcJSON {
			return printJSON(res)
		}
		fmt.Printf("Savings at retirement:       %s\n", output.FormatCurrency(res.SavingsAtRetirement))
		fmt.Printf("Supported monthly income:    %s\n", output.FormatCurrency(res.MonthlyRetirementIncome))
		fmt.Printf("Required savings:            %s\n", output.FormatCurrency(res.RequiredSavings))
		fmt.Printf("Savings gap:                 %s\n", output.FormatCurrency(res.SavingsGap))
		fmt.Printf("Additional monthly savings:  %s\n", output.FormatCurrency(res.AdditionalMonthlySavingsNeeded))
		return nil
	},
}

var (
	mortPrincipal    float64
	mortRate         float64
	mortYears        int
	mortDown         float64
	mortFullSchedule bool
)

var mortgageCmd = &cobra.Command{
	Use:   "mortgage",
	Short: "Compute a fixed-rate mortgage payment and amortization schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := calculation.MortgageAmortization(mortPrincipal, mortRate, mortYears, mortDown)
		if err != nil {
			return err
		}
		if calcJSON {
			return printJSON(res)
		}
		fmt.Printf("Monthly payment:  %s\n", output.FormatCurrency(res.MonthlyPayment))
		fmt.Printf("Total payment:    %s\n", output.FormatCurrency(res.TotalPayment))
		fmt.Printf("Total interest:   %s\n", output.FormatCurrency(res.TotalInterest))

		schedule := res.AmortizationSchedule
		if !mortFullSchedule && len(schedule) > 12 {
			schedule = schedule[:12]
		}
		fmt.Println()
		fmt.Printf("%-6s %14s %14s %14s %16s\n", "Month", "Payment", "Principal", "Interest", "Balance")
		for _, e := range schedule {
			fmt.Printf("%-6d %14s %14s %14s %16s\n", e.Month, output.FormatCurrency(e.Payment), output.FormatCurrency(e.Principal), output.FormatCurrency(e.Interest), output.FormatCurrency(e.Balance))
		}
		if len(schedule) < len(res.AmortizationSchedule) {
			fmt.Printf("... %d more months (use --schedule for all)\n", len(res.AmortizationSchedule)-len(schedule))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{compoundCmd, retirementCmd, mortgageCmd} {
		c.Flags().BoolVar(&calcJSON, "json", false, "print the result as JSON")
	}

	compoundCmd.Flags().Float64Var(&compoundInitial, "initial", 0, "initial investment")
	compoundCmd.Flags().Float64Var(&compoundContribution, "monthly", 0, "monthly contribution")
	compoundCmd.Flags().Float64Var(&compoundReturn, "return", 7, "annual return in percent")
	compoundCmd.Flags().IntVar(&compoundYears, "years", 10, "number of years")

	retirementCmd.Flags().IntVar(&retCurrentAge, "current-age", 0, "current age")
	retirementCmd.Flags().IntVar(&retRetirementAge, "retirement-age", 65, "retirement age")
	retirementCmd.Flags().Float64Var(&retSavings, "savings", 0, "current savings")
	retirementCmd.Flags().Float64Var(&retContribution, "monthly", 0, "monthly contribution")
	retirementCmd.Flags().Float64Var(&retReturn, "return", 7, "annual return in percent")
	retirementCmd.Flags().Float64Var(&retIncome, "income", 0, "desired monthly retirement income")
	_ = retirementCmd.MarkFlagRequired("current-age")

	mortgageCmd.Flags().Float64Var(&mortPrincipal, "principal", 0, "purchase price or loan principal")
	mortgageCmd.Flags().Float64Var(&mortRate, "rate", 0, "annual interest rate in percent")
	mortgageCmd.Flags().IntVar(&mortYears, "years", 30, "loan term in years")
	mortgageCmd.Flags().Float64Var(&mortDown, "down", 0, "down payment")
	mortgageCmd.Flags().BoolVar(&mortFullSchedule, "schedule", false, "print the full amortization schedule")
	_ = mortgageCmd.MarkFlagRequired("principal")
}
