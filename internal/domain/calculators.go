package domain

// YearlyGrowth is one year of a compound growth schedule.
type YearlyGrowth struct {
	Year          int     `json:"year"`
	EndBalance    float64 `json:"end_balance"`
	Contributions float64 `json:"contributions"`
	Earnings      float64 `json:"earnings"`
}

// CompoundGrowthResult is the output of the compound investment calculator.
type CompoundGrowthResult struct {
	FinalBalance       float64        `json:"final_balance"`
	TotalContributions float64        `json:"total_contributions"`
	TotalEarnings      float64        `json:"total_earnings"`
	YearlyBreakdown    []YearlyGrowth `json:"yearly_breakdown"`
}

// ProjectedYear is one year of a straight-line retirement projection.
type ProjectedYear struct {
	Year          int     `json:"year"`
	Age           int     `json:"age"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"`
	Earnings      float64 `json:"earnings"`
}

// RetirementProjectionResult is the output of the retirement calculator.
type RetirementProjectionResult struct {
	SavingsAtRetirement            float64         `json:"savings_at_retirement"`
	MonthlyRetirementIncome        float64         `json:"monthly_retirement_income"`
	RequiredSavings                float64         `json:"required_savings"`
	SavingsGap                     float64         `json:"savings_gap"`
	AdditionalMonthlySavingsNeeded float64         `json:"additional_monthly_savings_needed"`
	ProjectedBreakdown             []ProjectedYear `json:"projected_breakdown"`
}

// AmortizationEntry is one monthly payment of a mortgage schedule.
type AmortizationEntry struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// MortgageResult is the output of the mortgage calculator.
type MortgageResult struct {
	MonthlyPayment       float64             `json:"monthly_payment"`
	TotalPayment         float64             `json:"total_payment"`
	TotalInterest        float64             `json:"total_interest"`
	AmortizationSchedule []AmortizationEntry `json:"amortization_schedule"`
}
