package output

import (
	"strconv"

	"github.com/buckalew/retirement-sim/internal/domain"
	"github.com/buckalew/retirement-sim/pkg/decimal"
)

// FormatCurrency formats an amount as USD with thousands separators.
func FormatCurrency(amount float64) string { return decimal.NewMoney(amount).Format() }

// FormatCompact abbreviates an amount, e.g. "$1.23M".
func FormatCompact(amount float64) string { return decimal.NewMoney(amount).Compact() }

// FormatPercentage formats a fraction as a percentage with 1 decimal.
func FormatPercentage(fraction float64) string { return decimal.Percent(fraction, 1) }

// FormatAmount formats an amount for machine-readable output: cents, no symbol.
func FormatAmount(amount float64) string { return decimal.NewMoney(amount).String() }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func earliestFailureAge(failures []domain.FailureYear) int {
	earliest := 0
	for _, f := range failures {
		if earliest == 0 || f.Age < earliest {
			earliest = f.Age
		}
	}
	return earliest
}
