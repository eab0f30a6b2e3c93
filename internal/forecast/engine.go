package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
	"github.com/pandeyaakriti/finPal/internal/service"
)

// palette colors the category breakdown wedges, assigned by rank.
var palette = []string{
	"#7AD1A6", "#90A1B9", "#5B6F70", "#A8C5DD", "#6B8E9F", "#8BBDAB", "#B0BEC5",
}

// Config holds forecast engine configuration.
type Config struct {
	HistoryMonths    int
	ProjectionMonths int
	BreakdownMonths  int
	TopCategories    int
}

// DefaultConfig returns the default configuration: 6 months of history,
// 3 projected months, a 1-month top-7 category breakdown.
func DefaultConfig() Config {
	return Config{
		HistoryMonths:    6,
		ProjectionMonths: 3,
		BreakdownMonths:  1,
		TopCategories:    7,
	}
}

// Engine generates financial forecasts from stored transactions.
type Engine struct {
	store  service.Storage
	logger *slog.Logger
	cfg    Config
	now    func() time.Time
}

// New creates an engine with the default configuration.
func New(store service.Storage, logger *slog.Logger) *Engine {
	return NewWithConfig(store, logger, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(store service.Storage, logger *slog.Logger, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.HistoryMonths <= 0 {
		cfg.HistoryMonths = defaults.HistoryMonths
	}
	if cfg.ProjectionMonths <= 0 {
		cfg.ProjectionMonths = defaults.ProjectionMonths
	}
	if cfg.BreakdownMonths <= 0 {
		cfg.BreakdownMonths = defaults.BreakdownMonths
	}
	if cfg.TopCategories <= 0 {
		cfg.TopCategories = defaults.TopCategories
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Generate builds a complete forecast for one user. It fails with
// ErrInsufficientData when the user has no transaction history in the
// lookback window.
func (e *Engine) Generate(ctx context.Context, userID int64) (*Result, error) {
	since := e.now().AddDate(0, -e.cfg.HistoryMonths, 0)
	aggregates, err := e.store.AggregateMonthly(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly aggregates: %w", err)
	}

	if len(aggregates) == 0 {
		return nil, common.NewUserError(
			"please add at least 1 month of transactions",
			common.ErrInsufficientData)
	}

	historical := make([]MonthlyData, len(aggregates))
	for i, agg := range aggregates {
		historical[i] = newMonthlyData(agg.Month, agg.Income, agg.Expenses)
	}

	forecasts := e.project(historical)

	current := historical[len(historical)-1]
	summary := Summary{
		CurrentMonth:  current.Month,
		TotalIncome:   current.Income,
		TotalExpenses: current.Expenses,
		NetSavings:    current.NetSavings,
		SavingsRate:   current.SavingsRate,
	}

	predictions := make([]Prediction, len(forecasts))
	for i, f := range forecasts {
		withForecast := make([]MonthlyData, 0, len(historical)+1)
		withForecast = append(withForecast, historical...)
		withForecast = append(withForecast, f)
		predictions[i] = Prediction{
			Month:             f.Month,
			PredictedIncome:   math.Round(f.Income),
			PredictedExpenses: math.Round(f.Expenses),
			PredictedSavings:  math.Round(f.NetSavings),
			SavingsRate:       f.SavingsRate,
			HealthScore:       healthScore(f),
			Trend:             determineTrend(withForecast),
			Alerts:            alerts(f, historical),
			Recommendations:   recommendations(f, historical),
		}
	}

	breakdown, err := e.categoryBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("forecast generated",
		"user_id", userID,
		"history_months", len(historical),
		"projections", len(predictions))

	return &Result{
		Summary:           summary,
		Predictions:       predictions,
		Insights:          insights(historical, forecasts),
		CategoryBreakdown: breakdown,
		MonthlyTrend:      monthlyTrend(historical, forecasts),
	}, nil
}

// project evaluates independent income and expense regressions at the next
// ProjectionMonths index positions, clamping amounts to zero.
func (e *Engine) project(historical []MonthlyData) []MonthlyData {
	n := len(historical)
	xs := make([]float64, n)
	incomes := make([]float64, n)
	expenses := make([]float64, n)
	for i, d := range historical {
		xs[i] = float64(i)
		incomes[i] = d.Income
		expenses[i] = d.Expenses
	}

	incomeSlope, incomeIntercept := linearRegression(xs, incomes)
	expenseSlope, expenseIntercept := linearRegression(xs, expenses)

	lastMonth := historical[n-1].Month
	forecasts := make([]MonthlyData, 0, e.cfg.ProjectionMonths)
	for i := 1; i <= e.cfg.ProjectionMonths; i++ {
		x := float64(n + i - 1)
		income := math.Max(0, incomeSlope*x+incomeIntercept)
		expense := math.Max(0, expenseSlope*x+expenseIntercept)
		forecasts = append(forecasts, newMonthlyData(addMonths(lastMonth, i), income, expense))
	}
	return forecasts
}

// categoryBreakdown sums recent expense spend by effective label, top
// categories only, colored by rank.
func (e *Engine) categoryBreakdown(ctx context.Context, userID int64) ([]CategorySlice, error) {
	since := e.now().AddDate(0, -e.cfg.BreakdownMonths, 0)
	spends, err := e.store.AggregateCategorySpend(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load category spend: %w", err)
	}

	if len(spends) > e.cfg.TopCategories {
		spends = spends[:e.cfg.TopCategories]
	}

	slices := make([]CategorySlice, len(spends))
	for i, spend := range spends {
		name := model.UncategorizedLabel
		if spend.CategoryID != nil {
			name = model.CategoryName(*spend.CategoryID)
		}
		slices[i] = CategorySlice{
			Name:  name,
			Value: spend.Amount,
			Color: palette[i%len(palette)],
		}
	}
	return slices, nil
}

// monthlyTrend joins the last three historical months' actual expenses with
// the projected months for charting continuity.
func monthlyTrend(historical, forecasts []MonthlyData) []TrendPoint {
	recent := historical
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	points := make([]TrendPoint, 0, len(recent)+len(forecasts))
	for _, h := range recent {
		points = append(points, TrendPoint{
			Month:     h.Month,
			Actual:    math.Round(h.Expenses),
			Predicted: math.Round(h.Expenses),
		})
	}
	for _, f := range forecasts {
		points = append(points, TrendPoint{
			Month:     f.Month,
			Predicted: math.Round(f.Expenses),
		})
	}
	return points
}

// newMonthlyData derives net savings and savings rate from raw sums.
func newMonthlyData(month string, income, expenses float64) MonthlyData {
	net := income - expenses
	rate := 0.0
	if income > 0 {
		rate = net / income * 100
	}
	return MonthlyData{
		Month:       month,
		Income:      income,
		Expenses:    expenses,
		NetSavings:  net,
		SavingsRate: rate,
	}
}

// addMonths advances a "YYYY-MM" key by delta calendar months.
func addMonths(month string, delta int) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.AddDate(0, delta, 0).Format("2006-01")
}
