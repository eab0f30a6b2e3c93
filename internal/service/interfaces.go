// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pandeyaakriti/finPal/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	FindUnlabeledExpenses(ctx context.Context, userID *int64) ([]model.Transaction, error)
	UpdateTransactionPrediction(ctx context.Context, id int64, categoryID int, confidence float64) error
	UpdateTransactionCorrection(ctx context.Context, id int64, categoryID int) error
	LabelingCounts(ctx context.Context) (*LabelingCounts, error)

	// Correction bookkeeping for the retraining loop
	CountEligibleCorrections(ctx context.Context) (int, error)
	FindEligibleCorrections(ctx context.Context) ([]model.Transaction, error)
	MarkCorrectionsUsed(ctx context.Context) (int64, error)

	// Retraining job operations
	CreateJob(ctx context.Context, job *model.RetrainingJob) error
	FindJob(ctx context.Context, id string) (*model.RetrainingJob, error)
	FindActiveJob(ctx context.Context) (*model.RetrainingJob, error)
	ListJobs(ctx context.Context, limit int) ([]model.RetrainingJob, error)
	UpdateJob(ctx context.Context, id string, patch model.JobPatch) error

	// Forecast aggregates
	AggregateMonthly(ctx context.Context, userID int64, since time.Time) ([]MonthlyAggregate, error)
	AggregateCategorySpend(ctx context.Context, userID int64, since time.Time) ([]CategorySpend, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// LabelingCounts holds raw counts over expense-bearing transactions.
type LabelingCounts struct {
	TotalExpenses int
	Labeled       int
	Corrected     int
}

// MonthlyAggregate is one calendar month of summed income and expenses,
// keyed by a "YYYY-MM" month string.
type MonthlyAggregate struct {
	Month    string
	Income   float64
	Expenses float64
}

// CategorySpend is the summed expense amount for one effective category.
// CategoryID is nil for spend with neither a prediction nor a correction.
type CategorySpend struct {
	CategoryID *int
	Amount     float64
}
