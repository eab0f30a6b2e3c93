package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pandeyaakriti/finPal/internal/cli"
	"github.com/pandeyaakriti/finPal/internal/labeler"
	"github.com/pandeyaakriti/finPal/internal/model"
)

func retrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Manage the classifier retraining loop",
		Long: `Inspect the correction backlog, trigger retraining runs, and apply
status callbacks from the external trainer.`,
	}

	cmd.AddCommand(retrainTriggerCmd())
	cmd.AddCommand(retrainStatusCmd())
	cmd.AddCommand(retrainJobsCmd())
	cmd.AddCommand(retrainExportCmd())
	cmd.AddCommand(retrainUpdateJobCmd())
	cmd.AddCommand(retrainMarkUsedCmd())

	return cmd
}

func retrainTriggerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Start a retraining run if enough corrections have accumulated",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			force, _ := cmd.Flags().GetBool("force")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			coordinator := newCoordinator(store)
			result, err := coordinator.CheckAndTrigger(ctx, force)
			if err != nil {
				return err
			}

			if !result.Triggered {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Not triggered: %s", result.Reason)))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Retraining started (job %s, %d corrections)",
				result.JobID, result.CorrectionsCount)))
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Trigger even below the correction threshold")

	return cmd
}

func retrainStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the correction backlog and latest job state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			stats, err := newCoordinator(store).Stats(ctx)
			if err != nil {
				return err
			}

			readiness := "not yet"
			if stats.Ready {
				readiness = "yes"
			}
			rows := [][2]string{
				{"Unused corrections", fmt.Sprintf("%d / %d", stats.UnusedCorrections, stats.MinCorrections)},
				{"Ready to retrain", readiness},
				{"Auto retrain", fmt.Sprintf("%t", stats.AutoRetrain)},
			}
			if stats.ActiveJob != nil {
				rows = append(rows,
					[2]string{"Active job", stats.ActiveJob.ID},
					[2]string{"Active status", string(stats.ActiveJob.Status)})
			}
			if stats.LatestJob != nil {
				rows = append(rows,
					[2]string{"Latest job", stats.LatestJob.ID},
					[2]string{"Latest status", string(stats.LatestJob.Status)},
					[2]string{"Created", stats.LatestJob.CreatedAt.Format("2006-01-02 15:04")})
				if stats.LatestJob.BestValAccuracy != nil {
					rows = append(rows, [2]string{
						"Best accuracy",
						fmt.Sprintf("%.2f%%", *stats.LatestJob.BestValAccuracy*100)})
				}
			}

			fmt.Println(cli.RenderBox(cli.LoopIcon+" Retraining", cli.RenderKeyValues(rows...)))
			return nil
		},
	}
}

func retrainJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent retraining jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			jobs, err := newCoordinator(store).Jobs(ctx, limit)
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No retraining jobs yet."))
				return nil
			}

			for _, job := range jobs {
				printJob(job)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of jobs to show")

	return cmd
}

func printJob(job model.RetrainingJob) {
	rows := [][2]string{
		{"Status", string(job.Status)},
		{"Corrections", fmt.Sprintf("%d", job.TotalCorrections)},
		{"Epochs", fmt.Sprintf("%d", job.Epochs)},
		{"Learning rate", fmt.Sprintf("%g", job.LearningRate)},
		{"Created", job.CreatedAt.Format("2006-01-02 15:04")},
		{"Started", formatWhen(job.StartedAt)},
		{"Completed", formatWhen(job.CompletedAt)},
	}
	if job.TrainSamples != nil {
		rows = append(rows, [2]string{"Train samples", fmt.Sprintf("%d", *job.TrainSamples)})
	}
	if job.ValSamples != nil {
		rows = append(rows, [2]string{"Val samples", fmt.Sprintf("%d", *job.ValSamples)})
	}
	if job.BestValAccuracy != nil {
		rows = append(rows, [2]string{"Best accuracy", fmt.Sprintf("%.2f%%", *job.BestValAccuracy*100)})
	}
	if job.ErrorMessage != "" {
		rows = append(rows, [2]string{"Error", job.ErrorMessage})
	}
	fmt.Println(cli.RenderBox("Job "+job.ID, cli.RenderKeyValues(rows...)))
}

func retrainExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export eligible corrections as a text,label CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out, _ := cmd.Flags().GetString("out")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			l := labeler.New(store, nil, slog.Default())

			w := os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out) //nolint:gosec // user-supplied output path
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			written, err := l.ExportCorrections(ctx, w)
			if err != nil {
				return err
			}

			if out != "" && out != "-" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d corrections to %s", written, out)))
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "Output file (defaults to stdout)")

	return cmd
}

func retrainUpdateJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-job <job-id>",
		Short: "Apply a trainer status callback to a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			jobID := args[0]

			status, _ := cmd.Flags().GetString("status")
			patch := model.JobPatch{Status: model.JobStatus(strings.ToLower(status))}

			if cmd.Flags().Changed("train-samples") {
				v, _ := cmd.Flags().GetInt("train-samples")
				patch.TrainSamples = &v
			}
			if cmd.Flags().Changed("val-samples") {
				v, _ := cmd.Flags().GetInt("val-samples")
				patch.ValSamples = &v
			}
			if cmd.Flags().Changed("accuracy") {
				v, _ := cmd.Flags().GetFloat64("accuracy")
				patch.BestValAccuracy = &v
			}
			if cmd.Flags().Changed("error") {
				v, _ := cmd.Flags().GetString("error")
				patch.ErrorMessage = &v
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := newCoordinator(store).UpdateJobStatus(ctx, jobID, patch); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Job %s marked %s", jobID, patch.Status)))
			return nil
		},
	}

	cmd.Flags().String("status", "", "New job status (running, completed, failed)")
	cmd.Flags().Int("train-samples", 0, "Number of training samples used")
	cmd.Flags().Int("val-samples", 0, "Number of validation samples used")
	cmd.Flags().Float64("accuracy", 0, "Best validation accuracy (0-1)")
	cmd.Flags().String("error", "", "Error message for failed jobs")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func retrainMarkUsedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-used",
		Short: "Mark all exported corrections as consumed by training",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			marked, err := newCoordinator(store).MarkCorrectionsUsed(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Marked %d corrections as used", marked)))
			return nil
		},
	}
}
