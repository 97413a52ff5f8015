package core

// Metrics are the per-user totals. TotalExpenses is a magnitude.
type Metrics struct {
	TotalIncome   float64
	TotalExpenses float64
	NetSavings    float64
}

// CategoryTotal is one row of a breakdown.
type CategoryTotal struct {
	CategoryName string
	TotalAmount  float64
}

// DailyNet is one calendar day of the net-savings series. NetSavings is the
// raw sum of that day's amounts.
type DailyNet struct {
	Day           string
	TotalIncome   float64
	TotalExpenses float64
	NetSavings    float64
}

// Dashboard bundles every aggregate for one user.
type Dashboard struct {
	Metrics          Metrics
	ExpenseBreakdown []CategoryTotal
	IncomeBreakdown  []CategoryTotal
	DailyNetSavings  []DailyNet
}

// NewMetrics derives net savings from the two totals so that
// income minus expenses equals net savings exactly.
func NewMetrics(income, expenses Money) Metrics {
	in := income.Float()
	out := expenses.Float()
	if out < 0 {
		out = -out
	}
	return Metrics{
		TotalIncome:   in,
		TotalExpenses: out,
		NetSavings:    in - out,
	}
}
