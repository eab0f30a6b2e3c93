// Package forecast projects multi-month financial trajectories from
// historical monthly aggregates using per-series linear regression.
package forecast

// MonthlyData is one calendar month of financial activity, historical or
// projected. Month is a "YYYY-MM" key.
type MonthlyData struct {
	Month       string  `json:"month"`
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	NetSavings  float64 `json:"netSavings"`
	SavingsRate float64 `json:"savingsRate"`
}

// Trend classifies the direction of the savings rate over recent months.
type Trend string

// Trend values.
const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Summary describes the most recent historical month.
type Summary struct {
	CurrentMonth  string  `json:"currentMonth"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetSavings    float64 `json:"netSavings"`
	SavingsRate   float64 `json:"savingsRate"`
}

// Prediction is one projected month with derived health signals. Monetary
// fields are rounded to whole units for display.
type Prediction struct {
	Month             string   `json:"month"`
	Trend             Trend    `json:"trend"`
	Alerts            []string `json:"alerts"`
	Recommendations   []string `json:"recommendations"`
	PredictedIncome   float64  `json:"predictedIncome"`
	PredictedExpenses float64  `json:"predictedExpenses"`
	PredictedSavings  float64  `json:"predictedSavings"`
	SavingsRate       float64  `json:"savingsRate"`
	HealthScore       int      `json:"healthScore"`
}

// CategorySlice is one wedge of the category breakdown chart.
type CategorySlice struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Value float64 `json:"value"`
}

// Insights carries narrative observations derived from the data.
type Insights struct {
	IncomeStability string   `json:"incomeStability"`
	SpendingTrends  []string `json:"spendingTrends"`
	RiskFactors     []string `json:"riskFactors"`
	Opportunities   []string `json:"opportunities"`
}

// TrendPoint is one point of the actual-vs-predicted expense chart.
type TrendPoint struct {
	Month     string  `json:"month"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// Result is a complete forecast report.
type Result struct {
	Summary           Summary         `json:"summary"`
	Insights          Insights        `json:"insights"`
	Predictions       []Prediction    `json:"predictions"`
	CategoryBreakdown []CategorySlice `json:"categoryBreakdown"`
	MonthlyTrend      []TrendPoint    `json:"monthlyTrend"`
}
