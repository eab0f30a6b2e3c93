package retraining

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/pandeyaakriti/finPal/internal/common"
)

// Runner launches the external training process for a job. The process is
// expected to report back through the job status callback; the runner only
// guarantees the launch.
type Runner interface {
	Start(ctx context.Context, jobID string) error
}

// ProcessRunner spawns the training script as a detached child process. The
// child gets its own session so it survives the parent's exit and any
// signals sent to the parent's process group.
type ProcessRunner struct {
	Logger *slog.Logger
	Python string
	Script string
}

// Start launches the trainer for the given job id and releases the handle.
func (r *ProcessRunner) Start(_ context.Context, jobID string) error {
	if r.Script == "" {
		return fmt.Errorf("%w: retraining script path", common.ErrMissingConfig)
	}

	python := r.Python
	if python == "" {
		python = "python3"
	}

	// Deliberately not CommandContext: the trainer must outlive the
	// triggering request.
	cmd := exec.Command(python, r.Script, "--job-id", jobID)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSpawnFailed, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		r.logger().Warn("failed to release trainer process handle",
			"job_id", jobID,
			"pid", pid,
			"error", err)
	}

	r.logger().Info("retraining process launched",
		"job_id", jobID,
		"pid", pid)
	return nil
}

func (r *ProcessRunner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
