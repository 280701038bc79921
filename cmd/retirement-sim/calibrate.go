package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/pkg/decimal"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate [returns.csv]",
	Short: "Derive an expected return and volatility from historical returns",
	Long: `Read a CSV of yearly returns (year,return[,inflation] as fractions, with a
header row) and print the return model a scenario would use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := calculation.LoadReturnHistory(args[0])
		if err != nil {
			return err
		}
		cal := history.Calibration()

		fmt.Printf("Source:           %s (%d-%d, %d years)\n", history.Source, history.MinYear, history.MaxYear, cal.Years)
		fmt.Printf("Expected return:  %.4f%%\n", cal.ExpectedReturn)
		fmt.Printf("Volatility:       %.4f%%\n", cal.Volatility)
		if cal.InflationRate != nil {
			fmt.Printf("Inflation rate:   %.4f%%\n", *cal.InflationRate)
		}
		fmt.Printf("Worst year:       %s\n", decimal.Percent(history.Returns.Min.InexactFloat64(), 1))
		fmt.Printf("Best year:        %s\n", decimal.Percent(history.Returns.Max.InexactFloat64(), 1))

		if issues := history.ValidateDataQuality(); len(issues) > 0 {
			fmt.Println()
			fmt.Println("Data quality issues:")
			for _, issue := range issues {
				fmt.Printf("  - %s\n", issue)
			}
		}
		return nil
	},
}
