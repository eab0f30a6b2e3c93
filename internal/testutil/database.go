// Package testutil provides test fixtures for packages that exercise the
// SQLite persistence layer.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pandeyaakriti/finPal/internal/model"
	"github.com/pandeyaakriti/finPal/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store with automatic
// cleanup.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// TxnOption mutates a transaction fixture before insertion.
type TxnOption func(*model.Transaction)

// WithUser sets the owning user.
func WithUser(userID int64) TxnOption {
	return func(t *model.Transaction) { t.UserID = userID }
}

// WithIncome sets the incoming amount.
func WithIncome(amount float64) TxnOption {
	return func(t *model.Transaction) { t.AmountIn = amount }
}

// WithExpense sets the outgoing amount.
func WithExpense(amount float64) TxnOption {
	return func(t *model.Transaction) { t.AmountOut = amount }
}

// WithRemark sets the free-text remark.
func WithRemark(remark string) TxnOption {
	return func(t *model.Transaction) { t.Remark = remark }
}

// WithCreatedAt pins the creation timestamp.
func WithCreatedAt(at time.Time) TxnOption {
	return func(t *model.Transaction) { t.CreatedAt = at }
}

// WithPrediction sets the predicted category and confidence.
func WithPrediction(categoryID int, confidence float64) TxnOption {
	return func(t *model.Transaction) {
		t.PredictedCategory = &categoryID
		t.PredictedConfidence = &confidence
	}
}

// WithCorrection sets the corrected category.
func WithCorrection(categoryID int) TxnOption {
	return func(t *model.Transaction) { t.CorrectedCategory = &categoryID }
}

// SeedTransaction inserts one transaction fixture and returns its id.
// Defaults: user 1, a generic expense of 100 with a remark.
func SeedTransaction(t *testing.T, store *storage.SQLiteStorage, opts ...TxnOption) int64 {
	t.Helper()

	txn := model.Transaction{
		UserID:    1,
		AmountOut: 100,
		Remark:    "test expense",
	}
	for _, opt := range opts {
		opt(&txn)
	}

	txns := []model.Transaction{txn}
	if err := store.SaveTransactions(context.Background(), txns); err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
	return txns[0].ID
}
