package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pandeyaakriti/finPal/internal/cli"
	"github.com/pandeyaakriti/finPal/internal/labeler"
)

func labelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Classify unlabeled expense transactions",
		Long: `Run every unlabeled expense transaction through the classifier and
record the predicted category and confidence.

Transactions are classified one at a time to bound load on the
classifier. Individual failures are counted and skipped; the batch
always runs to completion.`,
		RunE: runLabel,
	}

	cmd.Flags().Int64("user", 0, "Only label transactions owned by this user")
	cmd.Flags().Int64("id", 0, "Label a single transaction by id")
	cmd.Flags().Bool("check", false, "Probe the classifier with a test remark and exit")

	return cmd
}

func runLabel(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	check, _ := cmd.Flags().GetBool("check")
	singleID, _ := cmd.Flags().GetInt64("id")
	userID, _ := cmd.Flags().GetInt64("user")

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Labeling transactions"),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(done)
	}

	lab, err := newLabeler(store, labeler.WithProgress(progress))
	if err != nil {
		return fmt.Errorf("failed to initialize labeler: %w", err)
	}

	switch {
	case check:
		if err := lab.Ping(ctx); err != nil {
			fmt.Println(cli.FormatError("classifier check failed"))
			return err
		}
		fmt.Println(cli.FormatSuccess("classifier is reachable and healthy"))
		return nil

	case singleID != 0:
		if err := lab.LabelOne(ctx, singleID); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("transaction %d labeled", singleID)))
		return nil

	default:
		var scope *int64
		if userID != 0 {
			scope = &userID
		}

		result, err := lab.LabelUnlabeled(ctx, scope)
		if err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Finish()
			fmt.Println()
		}

		if result.Failed > 0 {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("labeled %d of %d transactions (%d failed)",
				result.Labeled, result.Found, result.Failed)))
		} else {
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("labeled %d of %d transactions",
				result.Labeled, result.Found)))
		}
		return nil
	}
}
