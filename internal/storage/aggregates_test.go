package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pandeyaakriti/finPal/internal/model"
)

func TestSQLiteStorage_AggregateMonthly(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	jan := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	txns := []model.Transaction{
		{UserID: 1, AmountIn: 3000, CreatedAt: jan},
		{UserID: 1, AmountOut: 1200, Remark: "rent", CreatedAt: jan},
		{UserID: 1, AmountOut: 300, Remark: "groceries", CreatedAt: jan},
		{UserID: 1, AmountIn: 3100, CreatedAt: feb},
		{UserID: 1, AmountOut: 1400, Remark: "rent", CreatedAt: feb},
		{UserID: 1, AmountIn: 2900, CreatedAt: mar},
		// Another user's data must not leak in.
		{UserID: 2, AmountOut: 9999, Remark: "someone else", CreatedAt: feb},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	aggregates, err := store.AggregateMonthly(ctx, 1, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AggregateMonthly() error = %v", err)
	}
	if len(aggregates) != 3 {
		t.Fatalf("Expected 3 months, got %d", len(aggregates))
	}

	if aggregates[0].Month != "2025-01" || aggregates[0].Income != 3000 || aggregates[0].Expenses != 1500 {
		t.Errorf("Unexpected January aggregate: %+v", aggregates[0])
	}
	if aggregates[1].Month != "2025-02" || aggregates[1].Income != 3100 || aggregates[1].Expenses != 1400 {
		t.Errorf("Unexpected February aggregate: %+v", aggregates[1])
	}
	if aggregates[2].Month != "2025-03" || aggregates[2].Income != 2900 || aggregates[2].Expenses != 0 {
		t.Errorf("Unexpected March aggregate: %+v", aggregates[2])
	}

	// The since cutoff drops older months.
	recent, err := store.AggregateMonthly(ctx, 1, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AggregateMonthly(since) error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 months after cutoff, got %d", len(recent))
	}
	if recent[0].Month != "2025-02" {
		t.Errorf("Expected 2025-02 first, got %s", recent[0].Month)
	}
}

func TestSQLiteStorage_AggregateMonthly_Empty(t *testing.T) {
	store := createTestStorage(t)

	aggregates, err := store.AggregateMonthly(context.Background(), 1, time.Now().AddDate(0, -6, 0))
	if err != nil {
		t.Fatalf("AggregateMonthly() error = %v", err)
	}
	if len(aggregates) != 0 {
		t.Errorf("Expected no aggregates, got %d", len(aggregates))
	}
}

func TestSQLiteStorage_AggregateCategorySpend(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	now := time.Now().UTC().Add(-24 * time.Hour)
	txns := []model.Transaction{
		// Correction wins over prediction.
		{UserID: 1, AmountOut: 500, Remark: "a", PredictedCategory: intPtr(2), PredictedConfidence: floatPtr(0.8), CorrectedCategory: intPtr(6), CreatedAt: now},
		{UserID: 1, AmountOut: 300, Remark: "b", PredictedCategory: intPtr(2), PredictedConfidence: floatPtr(0.9), CreatedAt: now},
		{UserID: 1, AmountOut: 250, Remark: "c", PredictedCategory: intPtr(2), PredictedConfidence: floatPtr(0.7), CreatedAt: now},
		// Unlabeled spend lands in the nil bucket.
		{UserID: 1, AmountOut: 50, Remark: "d", CreatedAt: now},
		// Income rows are excluded.
		{UserID: 1, AmountIn: 4000, CreatedAt: now},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	spends, err := store.AggregateCategorySpend(ctx, 1, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("AggregateCategorySpend() error = %v", err)
	}
	if len(spends) != 3 {
		t.Fatalf("Expected 3 category buckets, got %d", len(spends))
	}

	// Largest spend first.
	if spends[0].CategoryID == nil || *spends[0].CategoryID != 2 || spends[0].Amount != 550 {
		t.Errorf("Unexpected top bucket: %+v", spends[0])
	}
	if spends[1].CategoryID == nil || *spends[1].CategoryID != 6 || spends[1].Amount != 500 {
		t.Errorf("Unexpected second bucket: %+v", spends[1])
	}
	if spends[2].CategoryID != nil || spends[2].Amount != 50 {
		t.Errorf("Expected nil-category bucket of 50, got %+v", spends[2])
	}
}
