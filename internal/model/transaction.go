// Package model defines the core domain models used throughout the application.
package model

import "time"

// Transaction represents a single bank-statement row. The amount fields and
// remark are immutable facts from the import; the labeling fields form a
// mutable envelope written by the classifier and by user corrections.
type Transaction struct {
	CreatedAt           time.Time
	PredictedCategory   *int
	PredictedConfidence *float64
	CorrectedCategory   *int
	Remark              string
	ID                  int64
	UserID              int64
	AmountIn            float64
	AmountOut           float64
	UsedForTraining     bool
}

// IsExpense reports whether the transaction carries an outgoing amount.
// Income rows have no category and never enter the labeling pipeline.
func (t *Transaction) IsExpense() bool {
	return t.AmountOut > 0
}

// Labelable reports whether the transaction is eligible for classification:
// it must be an expense and have a remark to classify on.
func (t *Transaction) Labelable() bool {
	return t.IsExpense() && t.Remark != ""
}

// EffectiveCategory returns the category downstream consumers should use.
// A user correction always wins over the model prediction.
func (t *Transaction) EffectiveCategory() *int {
	if t.CorrectedCategory != nil {
		return t.CorrectedCategory
	}
	return t.PredictedCategory
}
