package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pandeyaakriti/finPal/internal/cli"
	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/labeler"
	"github.com/pandeyaakriti/finPal/internal/model"
)

func correctCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct <transaction-id> <category>",
		Short: "Correct a transaction's predicted category",
		Long: `Record a user correction for a transaction. The category may be given
as an id or a label name (e.g. "rent", "food & dining").

Corrections feed the retraining loop: once enough have accumulated, a
retraining job is triggered automatically.`,
		Args: cobra.ExactArgs(2),
		RunE: runCorrect,
	}
}

func runCorrect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}

	categoryID, err := parseCategory(args[1])
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Corrections never call the classifier, so no gateway is wired here.
	coordinator := newCoordinator(store)
	lab := labeler.New(store, nil, slog.Default(),
		labeler.WithAfterCorrection(coordinator.AfterCorrection))

	if err := lab.Correct(ctx, id, categoryID); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("transaction %d corrected to %q",
		id, model.CategoryName(categoryID))))
	return nil
}

// parseCategory accepts either a numeric category id or a label name.
func parseCategory(arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if !model.ValidCategoryID(id) {
			return 0, fmt.Errorf("category id %d out of range [0, %d]", id, len(model.Categories)-1)
		}
		return id, nil
	}

	id, ok := model.CategoryID(arg)
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownCategory, arg)
	}
	return id, nil
}
