package decimal

import (
	"fmt"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Money is a currency amount held as a decimal so that presentation
// rounding happens once, at the edge.
type Money struct {
	decimal.Decimal
}

var usd = &accounting.Accounting{
	Symbol:         "$",
	Precision:      2,
	Thousand:       ",",
	Decimal:        ".",
	Format:         "%s%v",
	FormatNegative: "-%s%v",
	FormatZero:     "%s%v",
}

// NewMoney creates a Money from a float64.
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromString parses a decimal string such as "1234.56".
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{decimal.Zero}
}

// Round rounds to cents.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Float64 returns the amount rounded to cents as a float64.
func (m Money) Float64() float64 {
	return m.Decimal.Round(2).InexactFloat64()
}

// Add adds another amount.
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another amount.
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// String returns the amount with exactly two decimal places and no symbol.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format returns the amount as US currency, e.g. "$1,234.56".
func (m Money) Format() string {
	return usd.FormatMoneyFloat64(m.Float64())
}

// Compact abbreviates large amounts for narrow columns, e.g. "$1.23M".
func (m Money) Compact() string {
	abs := m.Decimal.Abs()
	sign := ""
	if m.Decimal.IsNegative() {
		sign = "-"
	}
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return fmt.Sprintf("%s$%sB", sign, abs.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(2))
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return fmt.Sprintf("%s$%sM", sign, abs.Div(decimal.NewFromInt(1_000_000)).StringFixed(2))
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return fmt.Sprintf("%s$%sK", sign, abs.Div(decimal.NewFromInt(1_000)).StringFixed(1))
	}
	return m.Format()
}

// Percent formats a fraction (0.875) as a percentage ("87.5%").
func Percent(fraction float64, places int32) string {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).StringFixed(places) + "%"
}
