package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name string
		data MonthlyData
		want int
	}{
		{
			// 50 + 40 (rate >= 30) + 20 (income) + 20 (ratio <= 0.7), clamped.
			name: "excellent month",
			data: newMonthlyData("2025-01", 5000, 2500),
			want: 100,
		},
		{
			// 50 + 10 (0 <= rate < 10) + 20 (income) + 5 (ratio <= 1.0).
			name: "break-even month",
			data: newMonthlyData("2025-01", 3000, 2900),
			want: 85,
		},
		{
			// 50 - 20 (deficit) + 20 (income) + 0 (ratio > 1).
			name: "deficit month",
			data: newMonthlyData("2025-01", 2000, 2500),
			want: 50,
		},
		{
			// 50 + 10 (rate 0) - 10 (no income) + 5 (ratio defaults to 1).
			name: "no income",
			data: newMonthlyData("2025-01", 0, 800),
			want: 55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, healthScore(tt.data))
		})
	}
}

func TestHealthScore_Bounds(t *testing.T) {
	incomes := []float64{0, 100, 1000, 5000, 20000}
	expenses := []float64{0, 50, 900, 4000, 50000}

	for _, income := range incomes {
		for _, expense := range expenses {
			score := healthScore(newMonthlyData("2025-01", income, expense))
			assert.GreaterOrEqual(t, score, 0, "income=%v expense=%v", income, expense)
			assert.LessOrEqual(t, score, 100, "income=%v expense=%v", income, expense)
		}
	}
}

func TestDetermineTrend(t *testing.T) {
	month := func(rate float64) MonthlyData {
		// Income 100 makes the savings rate equal net savings.
		return newMonthlyData("2025-01", 100, 100-rate)
	}

	tests := []struct {
		name string
		data []MonthlyData
		want Trend
	}{
		{
			name: "too little data",
			data: []MonthlyData{month(10)},
			want: TrendStable,
		},
		{
			name: "improving",
			data: []MonthlyData{month(5), month(12), month(20)},
			want: TrendImproving,
		},
		{
			name: "declining",
			data: []MonthlyData{month(25), month(15), month(5)},
			want: TrendDeclining,
		},
		{
			name: "small changes are stable",
			data: []MonthlyData{month(10), month(11), month(13)},
			want: TrendStable,
		},
		{
			name: "only the last three months count",
			data: []MonthlyData{month(90), month(5), month(12), month(20)},
			want: TrendImproving,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineTrend(tt.data))
		})
	}
}

func TestAlerts(t *testing.T) {
	historical := []MonthlyData{
		newMonthlyData("2025-01", 3000, 1000),
		newMonthlyData("2025-02", 3000, 1000),
	}

	t.Run("deficit and overspend", func(t *testing.T) {
		out := alerts(newMonthlyData("2025-03", 1000, 1500), historical)
		assert.Contains(t, out, "Predicted deficit: expenses may exceed income")
		assert.Contains(t, out, "Expenses trending up 50.0% above average")
	})

	t.Run("low savings rate", func(t *testing.T) {
		out := alerts(newMonthlyData("2025-03", 1000, 970), historical)
		assert.Contains(t, out, "Low savings rate: less than 5% of income being saved")
	})

	t.Run("healthy month has no alerts", func(t *testing.T) {
		out := alerts(newMonthlyData("2025-03", 3000, 1000), historical)
		assert.Empty(t, out)
	})
}

func TestRecommendations(t *testing.T) {
	historical := []MonthlyData{
		newMonthlyData("2025-01", 3000, 1500),
		newMonthlyData("2025-02", 3000, 1500),
	}

	t.Run("low savings rate", func(t *testing.T) {
		out := recommendations(newMonthlyData("2025-03", 3000, 2700), historical)
		assert.Contains(t, out, "Aim to save at least 15-20% of your income")
	})

	t.Run("deficit", func(t *testing.T) {
		out := recommendations(newMonthlyData("2025-03", 1000, 1500), historical)
		assert.Contains(t, out, "Review and reduce discretionary expenses")
		assert.Contains(t, out, "Consider creating a stricter budget to reverse the declining trend")
	})

	t.Run("strong savings", func(t *testing.T) {
		out := recommendations(newMonthlyData("2025-03", 3000, 1200), historical)
		assert.Contains(t, out, "Strong savings rate! Consider investing surplus funds")
	})
}

func TestInsights(t *testing.T) {
	t.Run("stable income and strong savings", func(t *testing.T) {
		historical := []MonthlyData{
			newMonthlyData("2025-01", 3000, 2000),
			newMonthlyData("2025-02", 3000, 2000),
			newMonthlyData("2025-03", 3000, 2000),
		}
		forecasts := []MonthlyData{newMonthlyData("2025-04", 3000, 2000)}

		got := insights(historical, forecasts)
		assert.Equal(t, "Income appears stable", got.IncomeStability)
		assert.Contains(t, got.SpendingTrends, "Expenses are relatively stable")
		assert.Contains(t, got.Opportunities, "Strong savings habit - explore investment options")
		assert.Equal(t, []string{"No significant risks detected"}, got.RiskFactors)
	})

	t.Run("volatile income and looming deficit", func(t *testing.T) {
		historical := []MonthlyData{
			newMonthlyData("2025-01", 1000, 950),
			newMonthlyData("2025-02", 4000, 3900),
			newMonthlyData("2025-03", 800, 790),
		}
		forecasts := []MonthlyData{newMonthlyData("2025-04", 900, 1200)}

		got := insights(historical, forecasts)
		assert.Equal(t, "Income shows high variability - consider building emergency fund", got.IncomeStability)
		assert.Contains(t, got.RiskFactors, "Irregular income pattern detected")
		assert.Contains(t, got.RiskFactors, "Low average savings rate over past 6 months")
		assert.Contains(t, got.RiskFactors, "Predicted deficit in upcoming months")
	})
}
