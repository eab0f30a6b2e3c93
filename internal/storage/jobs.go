package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
)

const jobColumns = `id, status, total_corrections, epochs, learning_rate,
	train_samples, val_samples, best_val_accuracy, error_message,
	created_at, started_at, completed_at`

// CreateJob inserts a new retraining job. The unique partial index over
// active statuses makes this the single-flight gate: a second concurrent
// insert while a pending or running job exists fails with ErrJobActive.
func (s *SQLiteStorage) CreateJob(ctx context.Context, job *model.RetrainingJob) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateJob(job); err != nil {
		return err
	}

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO retraining_jobs (
			id, status, total_corrections, epochs, learning_rate, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		job.ID,
		string(job.Status),
		job.TotalCorrections,
		job.Epochs,
		job.LearningRate,
		job.CreatedAt,
	)
	if err != nil {
		if isActiveJobConflict(err) {
			return common.ErrJobActive
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindJob fetches a retraining job by id.
func (s *SQLiteStorage) FindJob(ctx context.Context, id string) (*model.RetrainingJob, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM retraining_jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// FindActiveJob returns the pending or running job, or nil when none exists.
func (s *SQLiteStorage) FindActiveJob(ctx context.Context) (*model.RetrainingJob, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM retraining_jobs
		WHERE status IN ('pending', 'running')
		ORDER BY created_at DESC
		LIMIT 1`)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active job: %w", err)
	}
	return job, nil
}

// ListJobs returns the most recent jobs, newest first.
func (s *SQLiteStorage) ListJobs(ctx context.Context, limit int) ([]model.RetrainingJob, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM retraining_jobs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []model.RetrainingJob
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan job: %w", scanErr)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJob applies a partial status update to a job. Only non-nil patch
// fields are written. Terminal jobs are immutable: updating a completed or
// failed job returns ErrJobFinished. CompletedAt is stamped automatically
// when the patch moves the job into a terminal state.
func (s *SQLiteStorage) UpdateJob(ctx context.Context, id string, patch model.JobPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !patch.Status.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidStatus, patch.Status)
	}

	sets := []string{"status = ?"}
	args := []any{string(patch.Status)}

	if patch.TrainSamples != nil {
		sets = append(sets, "train_samples = ?")
		args = append(args, *patch.TrainSamples)
	}
	if patch.ValSamples != nil {
		sets = append(sets, "val_samples = ?")
		args = append(args, *patch.ValSamples)
	}
	if patch.BestValAccuracy != nil {
		sets = append(sets, "best_val_accuracy = ?")
		args = append(args, *patch.BestValAccuracy)
	}
	if patch.ErrorMessage != nil {
		sets = append(sets, "error_message = ?")
		args = append(args, *patch.ErrorMessage)
	}
	if patch.StartedAt != nil {
		sets = append(sets, "started_at = ?")
		args = append(args, *patch.StartedAt)
	}
	if patch.Status.Terminal() {
		sets = append(sets, "completed_at = ?")
		args = append(args, time.Now().UTC())
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `
		UPDATE retraining_jobs SET `+strings.Join(sets, ", ")+`
		WHERE id = ? AND status NOT IN ('completed', 'failed')`, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing job from a finished one.
		if _, findErr := s.FindJob(ctx, id); findErr != nil {
			return findErr
		}
		return fmt.Errorf("job %s: %w", id, common.ErrJobFinished)
	}
	return nil
}

// isActiveJobConflict detects a violation of the active-job unique index.
func isActiveJobConflict(err error) bool {
	return strings.Contains(err.Error(), "idx_retraining_jobs_active") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func scanJob(row rowScanner) (*model.RetrainingJob, error) {
	var (
		job          model.RetrainingJob
		status       string
		trainSamples sql.NullInt64
		valSamples   sql.NullInt64
		accuracy     sql.NullFloat64
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
	)

	err := row.Scan(
		&job.ID,
		&status,
		&job.TotalCorrections,
		&job.Epochs,
		&job.LearningRate,
		&trainSamples,
		&valSamples,
		&accuracy,
		&errorMessage,
		&job.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = model.JobStatus(status)
	job.ErrorMessage = errorMessage.String
	if trainSamples.Valid {
		v := int(trainSamples.Int64)
		job.TrainSamples = &v
	}
	if valSamples.Valid {
		v := int(valSamples.Int64)
		job.ValSamples = &v
	}
	if accuracy.Valid {
		v := accuracy.Float64
		job.BestValAccuracy = &v
	}
	if startedAt.Valid {
		v := startedAt.Time
		job.StartedAt = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		job.CompletedAt = &v
	}
	return &job, nil
}
