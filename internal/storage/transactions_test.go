package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
)

func TestSQLiteStorage_SaveTransactions(t *testing.T) {
	tests := []struct {
		name         string
		transactions []model.Transaction
		wantErr      bool
	}{
		{
			name: "save new transactions",
			transactions: []model.Transaction{
				{UserID: 1, AmountOut: 50, Remark: "groceries"},
				{UserID: 1, AmountIn: 3000, Remark: "salary"},
				{UserID: 2, AmountOut: 12.5},
			},
		},
		{
			name:         "reject empty list",
			transactions: []model.Transaction{},
			wantErr:      true,
		},
		{
			name: "reject negative amounts",
			transactions: []model.Transaction{
				{UserID: 1, AmountOut: -5, Remark: "bad"},
			},
			wantErr: true,
		},
		{
			name: "reject missing user",
			transactions: []model.Transaction{
				{AmountOut: 5, Remark: "orphan"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			ctx := context.Background()

			err := store.SaveTransactions(ctx, tt.transactions)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SaveTransactions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			for i, txn := range tt.transactions {
				if txn.ID == 0 {
					t.Errorf("transaction %d: expected assigned id", i)
				}
			}
		})
	}
}

func TestSQLiteStorage_GetTransaction(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{{
		UserID:              7,
		AmountOut:           99.5,
		Remark:              "dinner out",
		PredictedCategory:   intPtr(3),
		PredictedConfidence: floatPtr(0.87),
	}}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	got, err := store.GetTransaction(ctx, txns[0].ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.UserID != 7 || got.AmountOut != 99.5 || got.Remark != "dinner out" {
		t.Errorf("Unexpected transaction: %+v", got)
	}
	if got.PredictedCategory == nil || *got.PredictedCategory != 3 {
		t.Errorf("Expected predicted category 3, got %v", got.PredictedCategory)
	}
	if got.PredictedConfidence == nil || *got.PredictedConfidence != 0.87 {
		t.Errorf("Expected confidence 0.87, got %v", got.PredictedConfidence)
	}
	if got.CorrectedCategory != nil {
		t.Errorf("Expected no correction, got %v", *got.CorrectedCategory)
	}

	_, err = store.GetTransaction(ctx, 999999)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing id, got %v", err)
	}
}

func TestSQLiteStorage_FindUnlabeledExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{UserID: 1, AmountOut: 10, Remark: "first unlabeled"},
		{UserID: 1, AmountOut: 20, Remark: "already labeled", PredictedCategory: intPtr(5), PredictedConfidence: floatPtr(0.9)},
		{UserID: 1, AmountIn: 500, Remark: "income row"},
		{UserID: 1, AmountOut: 30},
		{UserID: 2, AmountOut: 40, Remark: "other user"},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	all, err := store.FindUnlabeledExpenses(ctx, nil)
	if err != nil {
		t.Fatalf("FindUnlabeledExpenses() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 unlabeled expenses, got %d", len(all))
	}

	scoped, err := store.FindUnlabeledExpenses(ctx, int64Ptr(1))
	if err != nil {
		t.Fatalf("FindUnlabeledExpenses(user) error = %v", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("Expected 1 unlabeled expense for user 1, got %d", len(scoped))
	}
	if scoped[0].Remark != "first unlabeled" {
		t.Errorf("Unexpected transaction: %+v", scoped[0])
	}
}

func TestSQLiteStorage_UpdateTransactionPrediction(t *testing.T) {
	tests := []struct {
		name       string
		categoryID int
		confidence float64
		wantErr    bool
	}{
		{name: "valid prediction", categoryID: 4, confidence: 0.92},
		{name: "zero confidence allowed", categoryID: 0, confidence: 0},
		{name: "invalid category", categoryID: 99, wantErr: true},
		{name: "negative category", categoryID: -1, wantErr: true},
		{name: "confidence above one", categoryID: 4, confidence: 1.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			ctx := context.Background()

			txns := []model.Transaction{{UserID: 1, AmountOut: 25, Remark: "bus ticket"}}
			if err := store.SaveTransactions(ctx, txns); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}

			err := store.UpdateTransactionPrediction(ctx, txns[0].ID, tt.categoryID, tt.confidence)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UpdateTransactionPrediction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			got, err := store.GetTransaction(ctx, txns[0].ID)
			if err != nil {
				t.Fatalf("Failed to reload: %v", err)
			}
			if got.PredictedCategory == nil || *got.PredictedCategory != tt.categoryID {
				t.Errorf("Expected category %d, got %v", tt.categoryID, got.PredictedCategory)
			}
			if got.PredictedConfidence == nil || *got.PredictedConfidence != tt.confidence {
				t.Errorf("Expected confidence %v, got %v", tt.confidence, got.PredictedConfidence)
			}
		})
	}
}

func TestSQLiteStorage_UpdateTransactionPrediction_NotFound(t *testing.T) {
	store := createTestStorage(t)

	err := store.UpdateTransactionPrediction(context.Background(), 12345, 2, 0.5)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_UpdateTransactionCorrection(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{{
		UserID:              1,
		AmountOut:           75,
		Remark:              "taxi ride",
		PredictedCategory:   intPtr(5),
		PredictedConfidence: floatPtr(0.4),
		UsedForTraining:     true,
	}}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := store.UpdateTransactionCorrection(ctx, txns[0].ID, 12); err != nil {
		t.Fatalf("UpdateTransactionCorrection() error = %v", err)
	}

	got, err := store.GetTransaction(ctx, txns[0].ID)
	if err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if got.CorrectedCategory == nil || *got.CorrectedCategory != 12 {
		t.Errorf("Expected corrected category 12, got %v", got.CorrectedCategory)
	}
	// A correction is ground truth and re-enters the training pool.
	if got.PredictedConfidence == nil || *got.PredictedConfidence != 1.0 {
		t.Errorf("Expected confidence 1.0 after correction, got %v", got.PredictedConfidence)
	}
	if got.UsedForTraining {
		t.Error("Expected used_for_training reset after correction")
	}

	if err := store.UpdateTransactionCorrection(ctx, txns[0].ID, 99); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
	if err := store.UpdateTransactionCorrection(ctx, 98765, 2); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_LabelingCounts(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{UserID: 1, AmountOut: 10, Remark: "a"},
		{UserID: 1, AmountOut: 20, Remark: "b", PredictedCategory: intPtr(1), PredictedConfidence: floatPtr(0.8)},
		{UserID: 1, AmountOut: 30, Remark: "c", PredictedCategory: intPtr(2), PredictedConfidence: floatPtr(0.9), CorrectedCategory: intPtr(3)},
		{UserID: 1, AmountIn: 1000, Remark: "income is not counted"},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	counts, err := store.LabelingCounts(ctx)
	if err != nil {
		t.Fatalf("LabelingCounts() error = %v", err)
	}
	if counts.TotalExpenses != 3 {
		t.Errorf("Expected 3 expenses, got %d", counts.TotalExpenses)
	}
	if counts.Labeled != 2 {
		t.Errorf("Expected 2 labeled, got %d", counts.Labeled)
	}
	if counts.Corrected != 1 {
		t.Errorf("Expected 1 corrected, got %d", counts.Corrected)
	}
}

func TestSQLiteStorage_CorrectionLifecycle(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{UserID: 1, AmountOut: 10, Remark: "old correction", CorrectedCategory: intPtr(2), CreatedAt: base},
		{UserID: 1, AmountOut: 20, Remark: "new correction", CorrectedCategory: intPtr(8), CreatedAt: base.Add(time.Hour)},
		{UserID: 1, AmountOut: 30, Remark: "consumed", CorrectedCategory: intPtr(4), UsedForTraining: true},
		{UserID: 1, AmountIn: 50, Remark: "income correction ignored", CorrectedCategory: intPtr(1)},
		{UserID: 1, AmountOut: 40, CorrectedCategory: intPtr(6)},
		{UserID: 1, AmountOut: 50, Remark: "not corrected"},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	count, err := store.CountEligibleCorrections(ctx)
	if err != nil {
		t.Fatalf("CountEligibleCorrections() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 eligible corrections, got %d", count)
	}

	eligible, err := store.FindEligibleCorrections(ctx)
	if err != nil {
		t.Fatalf("FindEligibleCorrections() error = %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("Expected 2 eligible rows, got %d", len(eligible))
	}
	if eligible[0].Remark != "old correction" || eligible[1].Remark != "new correction" {
		t.Errorf("Expected oldest-first ordering, got %q then %q",
			eligible[0].Remark, eligible[1].Remark)
	}

	marked, err := store.MarkCorrectionsUsed(ctx)
	if err != nil {
		t.Fatalf("MarkCorrectionsUsed() error = %v", err)
	}
	if marked != 2 {
		t.Errorf("Expected 2 marked, got %d", marked)
	}

	count, err = store.CountEligibleCorrections(ctx)
	if err != nil {
		t.Fatalf("CountEligibleCorrections() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 eligible after marking, got %d", count)
	}

	// A fresh correction on a consumed row re-enters the pool.
	if err := store.UpdateTransactionCorrection(ctx, txns[2].ID, 9); err != nil {
		t.Fatalf("Failed to re-correct: %v", err)
	}
	count, err = store.CountEligibleCorrections(ctx)
	if err != nil {
		t.Fatalf("CountEligibleCorrections() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 eligible after re-correction, got %d", count)
	}
}
