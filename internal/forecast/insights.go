package forecast

import (
	"fmt"
	"math"
)

// healthScore rates one month on a 0-100 scale from a baseline of 50:
// savings rate contributes up to 40 points, income presence 20, and expense
// control relative to income 20.
func healthScore(d MonthlyData) int {
	score := 50

	switch {
	case d.SavingsRate >= 30:
		score += 40
	case d.SavingsRate >= 20:
		score += 30
	case d.SavingsRate >= 10:
		score += 20
	case d.SavingsRate >= 0:
		score += 10
	default:
		score -= 20
	}

	if d.Income > 0 {
		score += 20
	} else {
		score -= 10
	}

	expenseRatio := 1.0
	if d.Income > 0 {
		expenseRatio = d.Expenses / d.Income
	}
	switch {
	case expenseRatio <= 0.7:
		score += 20
	case expenseRatio <= 0.8:
		score += 15
	case expenseRatio <= 0.9:
		score += 10
	case expenseRatio <= 1.0:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// determineTrend classifies the savings-rate direction across the last
// three known months.
func determineTrend(data []MonthlyData) Trend {
	if len(data) < 2 {
		return TrendStable
	}

	recent := data
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	first := recent[0].SavingsRate
	last := recent[len(recent)-1].SavingsRate
	avgChange := (last - first) / float64(len(recent))

	switch {
	case avgChange > 2:
		return TrendImproving
	case avgChange < -2:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// alerts flags problems in one projected month: a deficit, a savings rate
// under 5%, or expenses more than 15% above the historical average.
func alerts(forecast MonthlyData, historical []MonthlyData) []string {
	var out []string

	if forecast.NetSavings < 0 {
		out = append(out, "Predicted deficit: expenses may exceed income")
	}

	if forecast.SavingsRate >= 0 && forecast.SavingsRate < 5 {
		out = append(out, "Low savings rate: less than 5% of income being saved")
	}

	avgExpenses := meanExpenses(historical)
	if avgExpenses > 0 {
		increase := (forecast.Expenses - avgExpenses) / avgExpenses * 100
		if increase > 15 {
			out = append(out, fmt.Sprintf("Expenses trending up %.1f%% above average", increase))
		}
	}

	return out
}

// recommendations produces actionable nudges for one projected month.
func recommendations(forecast MonthlyData, historical []MonthlyData) []string {
	var out []string

	if forecast.SavingsRate < 15 {
		out = append(out, "Aim to save at least 15-20% of your income")
	}

	if forecast.NetSavings < 0 {
		out = append(out, "Review and reduce discretionary expenses")
	}

	combined := make([]MonthlyData, 0, len(historical)+1)
	combined = append(combined, historical...)
	combined = append(combined, forecast)
	if determineTrend(combined) == TrendDeclining {
		out = append(out, "Consider creating a stricter budget to reverse the declining trend")
	}

	if forecast.SavingsRate >= 20 {
		out = append(out, "Strong savings rate! Consider investing surplus funds")
	}

	return out
}

// insights assembles the narrative section: spending trend versus the
// period average, income stability from the coefficient of variation, risk
// factors, and opportunities.
func insights(historical, forecasts []MonthlyData) Insights {
	var (
		spendingTrends []string
		riskFactors    []string
		opportunities  []string
	)

	avgExpenses := meanExpenses(historical)
	recent := historical
	if len(recent) > 2 {
		recent = recent[len(recent)-2:]
	}
	recentExpenses := meanExpenses(recent)

	if avgExpenses > 0 {
		change := (recentExpenses - avgExpenses) / avgExpenses * 100
		switch {
		case math.Abs(change) < 5:
			spendingTrends = append(spendingTrends, "Expenses are relatively stable")
		case change > 0:
			spendingTrends = append(spendingTrends, fmt.Sprintf("Expenses increased by %.1f%% recently", change))
		default:
			spendingTrends = append(spendingTrends, fmt.Sprintf("Expenses decreased by %.1f%% recently", math.Abs(change)))
		}
	} else {
		spendingTrends = append(spendingTrends, "Expenses are relatively stable")
	}

	incomeStability := "Income appears stable"
	cv := incomeVariation(historical)
	if cv > 30 {
		incomeStability = "Income shows high variability - consider building emergency fund"
		riskFactors = append(riskFactors, "Irregular income pattern detected")
	} else if cv > 15 {
		incomeStability = "Income shows moderate variability"
	}

	var avgSavingsRate float64
	for _, d := range historical {
		avgSavingsRate += d.SavingsRate
	}
	avgSavingsRate /= float64(len(historical))

	if avgSavingsRate < 10 {
		riskFactors = append(riskFactors, "Low average savings rate over past 6 months")
	}

	for _, f := range forecasts {
		if f.NetSavings < 0 {
			riskFactors = append(riskFactors, "Predicted deficit in upcoming months")
			break
		}
	}

	if avgSavingsRate >= 15 {
		opportunities = append(opportunities, "Strong savings habit - explore investment options")
	}
	if determineTrend(historical) == TrendImproving {
		opportunities = append(opportunities, "Positive financial momentum - maintain the trend")
	}
	if len(riskFactors) == 0 {
		opportunities = append(opportunities, "Financial health is solid - focus on long-term goals")
	}

	if len(riskFactors) == 0 {
		riskFactors = []string{"No significant risks detected"}
	}
	if len(opportunities) == 0 {
		opportunities = []string{"Continue monitoring your finances"}
	}

	return Insights{
		SpendingTrends:  spendingTrends,
		IncomeStability: incomeStability,
		RiskFactors:     riskFactors,
		Opportunities:   opportunities,
	}
}

func meanExpenses(data []MonthlyData) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, d := range data {
		sum += d.Expenses
	}
	return sum / float64(len(data))
}

// incomeVariation returns the coefficient of variation of monthly income as
// a percentage.
func incomeVariation(data []MonthlyData) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, d := range data {
		sum += d.Income
	}
	mean := sum / float64(len(data))
	if mean <= 0 {
		return 0
	}

	var variance float64
	for _, d := range data {
		variance += (d.Income - mean) * (d.Income - mean)
	}
	variance /= float64(len(data))

	return math.Sqrt(variance) / mean * 100
}
