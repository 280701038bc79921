package calculation

import (
	"math"

	"github.com/buckalew/retirement-sim/internal/domain"
)

const monthsPerYear = 12

// growMonth adds the month's contribution and then applies the growth factor.
// The deterministic calculators and the simulator share this step so that a
// zero-volatility path reproduces CompoundInvestmentGrowth exactly.
func growMonth(balance, contribution, factor float64) float64 {
	return (balance + contribution) * factor
}

// monthlyFactor converts an annual percentage into a monthly growth factor.
func monthlyFactor(annualPercent float64) float64 {
	return 1 + annualPercent/100/monthsPerYear
}

// CompoundInvestmentGrowth projects an investment with monthly contributions
// compounded monthly at annualReturnPercent / 12.
func CompoundInvestmentGrowth(initialInvestment, monthlyContribution, annualReturnPercent float64, years int) (*domain.CompoundGrowthResult, error) {
	if years < 0 {
		return nil, domain.NewValidationError("years", "cannot be negative")
	}

	factor := monthlyFactor(annualReturnPercent)
	balance := initialInvestment
	breakdown := make([]domain.YearlyGrowth, 0, years)
	var totalContributions float64

	for year := 1; year <= years; year++ {
		start := balance
		var contributed float64
		for m := 0; m < monthsPerYear; m++ {
			balance = growMonth(balance, monthlyContribution, factor)
			contributed += monthlyContribution
		}
		totalContributions += contributed
		breakdown = append(breakdown, domain.YearlyGrowth{
			Year:          year,
			EndBalance:    balance,
			Contributions: contributed,
			Earnings:      balance - start - contributed,
		})
	}

	return &domain.CompoundGrowthResult{
		FinalBalance:       balance,
		TotalContributions: totalContributions,
		TotalEarnings:      balance - initialInvestment - totalContributions,
		YearlyBreakdown:    breakdown,
	}, nil
}

// RetirementProjection projects savings to retirement and compares the income
// they support under the safe withdrawal rate with the desired income.
func RetirementProjection(currentAge, retirementAge int, currentSavings, monthlyContribution, annualReturnPercent, desiredMonthlyRetirementIncome float64) (*domain.RetirementProjectionResult, error) {
	if retirementAge <= currentAge {
		return nil, domain.NewValidationError("retirement_age", "(%d) must be greater than current age (%d)", retirementAge, currentAge)
	}
	if currentSavings < 0 {
		return nil, domain.NewValidationError("current_savings", "cannot be negative")
	}
	if monthlyContribution < 0 {
		return nil, domain.NewValidationError("monthly_contribution", "cannot be negative")
	}
	if desiredMonthlyRetirementIncome < 0 {
		return nil, domain.NewValidationError("desired_monthly_income", "cannot be negative")
	}

	years := retirementAge - currentAge
	growth, err := CompoundInvestmentGrowth(currentSavings, monthlyContribution, annualReturnPercent, years)
	if err != nil {
		return nil, err
	}

	savings := growth.FinalBalance
	required := desiredMonthlyRetirementIncome * monthsPerYear / domain.SafeWithdrawalRate
	gap := math.Max(0, required-savings)

	breakdown := make([]domain.ProjectedYear, len(growth.YearlyBreakdown))
	for i, y := range growth.YearlyBreakdown {
		breakdown[i] = domain.ProjectedYear{
			Year:          y.Year,
			Age:           currentAge + y.Year,
			Balance:       y.EndBalance,
			Contributions: y.Contributions,
			Earnings:      y.Earnings,
		}
	}

	return &domain.RetirementProjectionResult{
		SavingsAtRetirement:            savings,
		MonthlyRetirementIncome:        savings * domain.SafeWithdrawalRate / monthsPerYear,
		RequiredSavings:                required,
		SavingsGap:                     gap,
		AdditionalMonthlySavingsNeeded: annuityDuePayment(gap, annualReturnPercent/100/monthsPerYear, years*monthsPerYear),
		ProjectedBreakdown:             breakdown,
	}, nil
}

// annuityDuePayment solves for the monthly deposit that grows to futureValue
// when each deposit is made before the month's growth is applied.
func annuityDuePayment(futureValue, monthlyRate float64, months int) float64 {
	if futureValue <= 0 || months <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return futureValue / float64(months)
	}
	growth := 1 + monthlyRate
	if growth <= 0 {
		return 0
	}
	return futureValue * monthlyRate / ((math.Pow(growth, float64(months)) - 1) * growth)
}

// MortgageAmortization builds a fixed-rate amortization schedule for the
// financed amount (principal minus down payment).
func MortgageAmortization(principal, annualRatePercent float64, years int, downPayment float64) (*domain.MortgageResult, error) {
	if years <= 0 {
		return nil, domain.NewValidationError("years", "must be positive")
	}
	if principal < 0 {
		return nil, domain.NewValidationError("principal", "cannot be negative")
	}
	if downPayment < 0 || downPayment > principal {
		return nil, domain.NewValidationError("down_payment", "must be between 0 and the principal")
	}
	if annualRatePercent < 0 {
		return nil, domain.NewValidationError("annual_rate", "cannot be negative")
	}

	financed := principal - downPayment
	months := years * monthsPerYear
	rate := annualRatePercent / 100 / monthsPerYear

	var payment float64
	if rate == 0 {
		payment = financed / float64(months)
	} else {
		payment = financed * rate / (1 - math.Pow(1+rate, -float64(months)))
	}

	schedule := make([]domain.AmortizationEntry, 0, months)
	balance := financed
	var totalPayment float64

	for month := 1; month <= months; month++ {
		interest := balance * rate
		principalPaid := payment - interest
		paid := payment
		// Final period (or overshoot from float drift) retires the exact remainder.
		if month == months || principalPaid > balance {
			principalPaid = balance
			paid = principalPaid + interest
		}
		balance -= principalPaid
		if balance < 0 {
			balance = 0
		}
		totalPayment += paid

		schedule = append(schedule, domain.AmortizationEntry{
			Month:     month,
			Payment:   paid,
			Principal: principalPaid,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return &domain.MortgageResult{
		MonthlyPayment:       payment,
		TotalPayment:         totalPayment,
		TotalInterest:        totalPayment - financed,
		AmortizationSchedule: schedule,
	}, nil
}
