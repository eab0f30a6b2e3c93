package model

import "time"

// JobStatus tracks a retraining job through its lifecycle.
type JobStatus string

// Job lifecycle states. A job moves pending -> running -> completed or
// failed; terminal states are final.
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobRunning, JobCompleted, JobFailed:
		return true
	default:
		return false
	}
}

// Active reports whether s counts against the single-flight limit.
func (s JobStatus) Active() bool {
	return s == JobPending || s == JobRunning
}

// Terminal reports whether s is a final state.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// RetrainingJob represents one run of the external model trainer.
// TotalCorrections is a snapshot of the eligible correction count at
// creation time; the result fields are filled in by the trainer's status
// callback, never inferred locally.
type RetrainingJob struct {
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	TrainSamples     *int
	ValSamples       *int
	BestValAccuracy  *float64
	ID               string
	Status           JobStatus
	ErrorMessage     string
	TotalCorrections int
	Epochs           int
	LearningRate     float64
}

// JobPatch is a partial job update: nil fields are left untouched.
// Status is always required.
type JobPatch struct {
	TrainSamples    *int
	ValSamples      *int
	BestValAccuracy *float64
	ErrorMessage    *string
	StartedAt       *time.Time
	Status          JobStatus
}
