package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pandeyaakriti/finPal/internal/cli"
	"github.com/pandeyaakriti/finPal/internal/forecast"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project income, expenses, and savings for the next 3 months",
		Long: `Fit linear regressions over the trailing 6 months of transactions and
project the next 3 months, with health scores, alerts, and
recommendations per projected month.`,
		RunE: runForecast,
	}

	cmd.Flags().Int64("user", 1, "User to forecast for")
	cmd.Flags().Bool("json", false, "Emit the full forecast as JSON")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetInt64("user")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	engine := forecast.New(store, slog.Default())
	result, err := engine.Generate(ctx, userID)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printForecast(result)
	return nil
}

func printForecast(result *forecast.Result) {
	summary := cli.RenderKeyValues(
		[2]string{"Month", result.Summary.CurrentMonth},
		[2]string{"Income", fmt.Sprintf("%.2f", result.Summary.TotalIncome)},
		[2]string{"Expenses", fmt.Sprintf("%.2f", result.Summary.TotalExpenses)},
		[2]string{"Net savings", fmt.Sprintf("%.2f", result.Summary.NetSavings)},
		[2]string{"Savings rate", fmt.Sprintf("%.1f%%", result.Summary.SavingsRate)},
	)
	fmt.Println(cli.RenderBox(cli.ChartIcon+" Current month", summary))

	for _, p := range result.Predictions {
		rows := [][2]string{
			{"Income", fmt.Sprintf("%.0f", p.PredictedIncome)},
			{"Expenses", fmt.Sprintf("%.0f", p.PredictedExpenses)},
			{"Savings", fmt.Sprintf("%.0f", p.PredictedSavings)},
			{"Savings rate", fmt.Sprintf("%.1f%%", p.SavingsRate)},
			{"Health score", fmt.Sprintf("%d/100", p.HealthScore)},
			{"Trend", string(p.Trend)},
		}
		content := cli.RenderKeyValues(rows...)

		var notes []string
		for _, alert := range p.Alerts {
			notes = append(notes, cli.FormatWarning(alert))
		}
		for _, rec := range p.Recommendations {
			notes = append(notes, cli.SubtleStyle.Render("· "+rec))
		}
		if len(notes) > 0 {
			content += "\n\n" + strings.Join(notes, "\n")
		}

		fmt.Println(cli.RenderBox("Projection "+p.Month, content))
	}

	if len(result.CategoryBreakdown) > 0 {
		rows := make([][2]string, 0, len(result.CategoryBreakdown))
		for _, slice := range result.CategoryBreakdown {
			rows = append(rows, [2]string{slice.Name, fmt.Sprintf("%.2f", slice.Value)})
		}
		fmt.Println(cli.RenderBox("Spending by category (last month)", cli.RenderKeyValues(rows...)))
	}

	insights := []string{cli.SubtleStyle.Render(result.Insights.IncomeStability)}
	for _, s := range result.Insights.SpendingTrends {
		insights = append(insights, cli.SubtleStyle.Render(s))
	}
	for _, s := range result.Insights.RiskFactors {
		insights = append(insights, cli.FormatWarning(s))
	}
	for _, s := range result.Insights.Opportunities {
		insights = append(insights, cli.FormatSuccess(s))
	}
	fmt.Println(cli.RenderBox("Insights", strings.Join(insights, "\n")))
}
