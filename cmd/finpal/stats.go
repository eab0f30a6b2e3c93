package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pandeyaakriti/finPal/internal/cli"
	"github.com/pandeyaakriti/finPal/internal/labeler"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show labeling coverage statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Coverage counts come straight from storage; no gateway needed.
	lab := labeler.New(store, nil, slog.Default())

	stats, err := lab.Stats(ctx)
	if err != nil {
		return err
	}

	content := cli.RenderKeyValues(
		[2]string{"Expense transactions", fmt.Sprintf("%d", stats.TotalExpenses)},
		[2]string{"Labeled", fmt.Sprintf("%d", stats.Labeled)},
		[2]string{"Unlabeled", fmt.Sprintf("%d", stats.Unlabeled)},
		[2]string{"Corrected", fmt.Sprintf("%d", stats.Corrected)},
		[2]string{"Labeling rate", fmt.Sprintf("%.2f%%", stats.LabelingRate)},
	)
	fmt.Println(cli.RenderBox(cli.ChartIcon+" Labeling", content))
	return nil
}
