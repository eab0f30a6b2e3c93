// Package retraining manages the model retraining feedback loop: counting
// accumulated corrections, deciding when a retraining run is justified, and
// tracking each run's lifecycle from pending to a terminal state.
package retraining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
	"github.com/pandeyaakriti/finPal/internal/service"
)

// Config holds coordinator configuration. Epochs and LearningRate are fixed
// hyperparameters recorded on every job for the trainer to pick up.
type Config struct {
	AutoRetrain    bool
	MinCorrections int
	Epochs         int
	LearningRate   float64
}

// DefaultConfig returns the default coordinator configuration.
func DefaultConfig() Config {
	return Config{
		AutoRetrain:    true,
		MinCorrections: 100,
		Epochs:         8,
		LearningRate:   2e-5,
	}
}

// Coordinator owns the retraining job state machine.
type Coordinator struct {
	store  service.Storage
	runner Runner
	logger *slog.Logger
	cfg    Config
}

// New creates a coordinator. Zero-valued numeric config fields fall back to
// the defaults.
func New(store service.Storage, runner Runner, cfg Config, logger *slog.Logger) *Coordinator {
	defaults := DefaultConfig()
	if cfg.MinCorrections <= 0 {
		cfg.MinCorrections = defaults.MinCorrections
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = defaults.Epochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = defaults.LearningRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:  store,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

// TriggerResult reports the outcome of one retraining check.
type TriggerResult struct {
	JobID            string
	Reason           string
	CorrectionsCount int
	Triggered        bool
}

// CheckAndTrigger counts eligible corrections and, when the threshold is met
// (or force is set), creates a retraining job and launches the external
// trainer. At most one job may be pending or running: job creation is atomic
// at the store, so concurrent triggers cannot both win. A failed launch
// marks the job failed rather than leaving it dangling.
func (c *Coordinator) CheckAndTrigger(ctx context.Context, force bool) (*TriggerResult, error) {
	count, err := c.store.CountEligibleCorrections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count corrections: %w", err)
	}

	c.logger.Debug("retraining check",
		"unused_corrections", count,
		"threshold", c.cfg.MinCorrections,
		"force", force)

	// Readability pre-check only; the unique index on active jobs is what
	// actually enforces single-flight below.
	active, err := c.store.FindActiveJob(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check active job: %w", err)
	}
	if active != nil {
		return &TriggerResult{
			Reason:           "a retraining job is already in progress",
			CorrectionsCount: count,
		}, nil
	}

	if !force && !(c.cfg.AutoRetrain && count >= c.cfg.MinCorrections) {
		return &TriggerResult{
			Reason:           fmt.Sprintf("not enough corrections (%d/%d)", count, c.cfg.MinCorrections),
			CorrectionsCount: count,
		}, nil
	}

	job := &model.RetrainingJob{
		ID:               uuid.NewString(),
		Status:           model.JobPending,
		TotalCorrections: count,
		Epochs:           c.cfg.Epochs,
		LearningRate:     c.cfg.LearningRate,
	}

	if err := c.store.CreateJob(ctx, job); err != nil {
		if errors.Is(err, common.ErrJobActive) {
			// Lost the race to a concurrent trigger.
			return &TriggerResult{
				Reason:           "a retraining job is already in progress",
				CorrectionsCount: count,
			}, nil
		}
		return nil, fmt.Errorf("failed to create retraining job: %w", err)
	}

	c.logger.Info("retraining job created",
		"job_id", job.ID,
		"corrections", count)

	if err := c.runner.Start(ctx, job.ID); err != nil {
		msg := err.Error()
		patch := model.JobPatch{Status: model.JobFailed, ErrorMessage: &msg}
		if updateErr := c.store.UpdateJob(ctx, job.ID, patch); updateErr != nil {
			c.logger.Error("failed to mark job failed after launch error",
				"job_id", job.ID,
				"error", updateErr)
		}
		return &TriggerResult{
			JobID:            job.ID,
			Reason:           "failed to launch retraining process",
			CorrectionsCount: count,
		}, err
	}

	now := time.Now().UTC()
	if err := c.store.UpdateJob(ctx, job.ID, model.JobPatch{Status: model.JobRunning, StartedAt: &now}); err != nil {
		c.logger.Error("failed to mark job running", "job_id", job.ID, "error", err)
	}

	return &TriggerResult{
		Triggered:        true,
		JobID:            job.ID,
		CorrectionsCount: count,
	}, nil
}

// UpdateJobStatus applies a status callback from the external trainer.
// Pending is not a valid callback status: the trainer can only report
// running, completed, or failed.
func (c *Coordinator) UpdateJobStatus(ctx context.Context, jobID string, patch model.JobPatch) error {
	if !patch.Status.Valid() || patch.Status == model.JobPending {
		return fmt.Errorf("%w: %q", common.ErrInvalidStatus, patch.Status)
	}

	if err := c.store.UpdateJob(ctx, jobID, patch); err != nil {
		return err
	}

	c.logger.Info("job status updated",
		"job_id", jobID,
		"status", patch.Status)
	return nil
}

// MarkCorrectionsUsed flags all currently-eligible corrections as consumed.
// The trainer calls this after a successful run so the same corrections
// don't count toward the next threshold.
func (c *Coordinator) MarkCorrectionsUsed(ctx context.Context) (int64, error) {
	marked, err := c.store.MarkCorrectionsUsed(ctx)
	if err != nil {
		return 0, err
	}
	c.logger.Info("corrections marked used", "count", marked)
	return marked, nil
}

// Stats is a read-only projection of the retraining loop's state.
type Stats struct {
	LatestJob         *model.RetrainingJob
	ActiveJob         *model.RetrainingJob
	UnusedCorrections int
	MinCorrections    int
	Ready             bool
	AutoRetrain       bool
}

// Stats reports the current correction backlog and job state.
func (c *Coordinator) Stats(ctx context.Context) (*Stats, error) {
	count, err := c.store.CountEligibleCorrections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count corrections: %w", err)
	}

	active, err := c.store.FindActiveJob(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find active job: %w", err)
	}

	var latest *model.RetrainingJob
	jobs, err := c.store.ListJobs(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(jobs) > 0 {
		latest = &jobs[0]
	}

	return &Stats{
		UnusedCorrections: count,
		MinCorrections:    c.cfg.MinCorrections,
		Ready:             count >= c.cfg.MinCorrections,
		AutoRetrain:       c.cfg.AutoRetrain,
		LatestJob:         latest,
		ActiveJob:         active,
	}, nil
}

// Jobs returns the most recent retraining jobs.
func (c *Coordinator) Jobs(ctx context.Context, limit int) ([]model.RetrainingJob, error) {
	return c.store.ListJobs(ctx, limit)
}

// AfterCorrection is the labeler hook: it runs a non-forced retraining check
// and logs the outcome without propagating errors to the correction path.
func (c *Coordinator) AfterCorrection(ctx context.Context) {
	result, err := c.CheckAndTrigger(ctx, false)
	if err != nil {
		c.logger.Error("retraining check after correction failed", "error", err)
		return
	}
	if result.Triggered {
		c.logger.Info("retraining triggered by correction threshold",
			"job_id", result.JobID,
			"corrections", result.CorrectionsCount)
	}
}
