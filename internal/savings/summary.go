package savings

import (
	"context"
)

// CO2PerTreeKg is the CO2 one tree absorbs per year.
const CO2PerTreeKg = 20.0

// DailySummary totals the savings of the opportunities that apply today.
type DailySummary struct {
	TotalMoney      float64
	TotalEnergy     float64
	TotalCO2        float64
	TreesEquivalent float64
}

// DailySummaryOf sums the given opportunities.
func DailySummaryOf(ops []Opportunity) DailySummary {
	var sum DailySummary
	for _, o := range ops {
		sum.TotalMoney += o.MoneySaved
		sum.TotalEnergy += o.EnergySaved
		sum.TotalCO2 += o.CO2Saved
	}
	sum.TreesEquivalent = sum.TotalCO2 / CO2PerTreeKg
	return sum
}

// MonthlySummary is the tracked savings of the current month.
type MonthlySummary struct {
	TotalMoney      float64
	TotalEnergy     float64
	TotalCO2        float64
	DaysActive      int
	CurrentStreak   int
	TreesEquivalent float64
}

// HistoryStore supplies tracked savings history.
type HistoryStore interface {
	MonthlyTotals(ctx context.Context) (MonthlySummary, error)
}

// PlaceholderHistory returns fixed example totals. No history is tracked.
type PlaceholderHistory struct{}

// MonthlyTotals returns the example totals.
func (PlaceholderHistory) MonthlyTotals(ctx context.Context) (MonthlySummary, error) {
	if err := ctx.Err(); err != nil {
		return MonthlySummary{}, err
	}
	return MonthlySummary{
		TotalMoney:      87.50,
		TotalEnergy:     312.0,
		TotalCO2:        156.0,
		DaysActive:      23,
		CurrentStreak:   7,
		TreesEquivalent: 7.8,
	}, nil
}
