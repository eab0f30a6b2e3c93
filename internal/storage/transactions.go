package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
	"github.com/pandeyaakriti/finPal/internal/service"
)

const transactionColumns = `id, user_id, amount_in, amount_out, remark,
	predicted_category, predicted_confidence, corrected_category,
	used_for_training, created_at`

// eligibleCorrectionWhere selects corrections that can feed the next
// retraining run: user-corrected expense rows with a remark that have not
// been consumed by a completed training job yet.
const eligibleCorrectionWhere = `corrected_category IS NOT NULL
	AND used_for_training = 0
	AND amount_out > 0
	AND remark IS NOT NULL AND remark != ''`

// SaveTransactions inserts a batch of transactions.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(txns); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			user_id, amount_in, amount_out, remark,
			predicted_category, predicted_confidence, corrected_category,
			used_for_training, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txns {
		txn := &txns[i]
		var createdAt any
		if !txn.CreatedAt.IsZero() {
			createdAt = txn.CreatedAt
		}
		res, execErr := stmt.ExecContext(ctx,
			txn.UserID,
			txn.AmountIn,
			txn.AmountOut,
			nullString(txn.Remark),
			nullInt(txn.PredictedCategory),
			nullFloat(txn.PredictedConfidence),
			nullInt(txn.CorrectedCategory),
			txn.UsedForTraining,
			createdAt,
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert transaction: %w", execErr)
		}
		if id, idErr := res.LastInsertId(); idErr == nil {
			txn.ID = id
		}
	}

	return tx.Commit()
}

// GetTransaction fetches a single transaction by id.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// FindUnlabeledExpenses returns expense transactions with a remark that have
// no prediction yet, optionally scoped to one user, oldest first.
func (s *SQLiteStorage) FindUnlabeledExpenses(ctx context.Context, userID *int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE amount_out > 0
		AND predicted_category IS NULL
		AND remark IS NOT NULL AND remark != ''`
	args := []any{}
	if userID != nil {
		query += ` AND user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlabeled expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// UpdateTransactionPrediction records the classifier's output for a
// transaction.
func (s *SQLiteStorage) UpdateTransactionPrediction(ctx context.Context, id int64, categoryID int, confidence float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategoryID(categoryID); err != nil {
		return err
	}
	if err := validateConfidence(confidence); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET predicted_category = ?, predicted_confidence = ?
		WHERE id = ?
	`, categoryID, confidence, id)
	if err != nil {
		return fmt.Errorf("failed to update prediction: %w", err)
	}
	return requireRow(res, id)
}

// UpdateTransactionCorrection records a user correction. Confidence becomes
// 1.0 and the row re-enters the pool of unused training corrections.
func (s *SQLiteStorage) UpdateTransactionCorrection(ctx context.Context, id int64, categoryID int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategoryID(categoryID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET corrected_category = ?, predicted_confidence = 1.0, used_for_training = 0
		WHERE id = ?
	`, categoryID, id)
	if err != nil {
		return fmt.Errorf("failed to update correction: %w", err)
	}
	return requireRow(res, id)
}

// LabelingCounts returns raw labeling counts over expense transactions.
func (s *SQLiteStorage) LabelingCounts(ctx context.Context) (*service.LabelingCounts, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var counts service.LabelingCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(predicted_category),
			COUNT(corrected_category)
		FROM transactions
		WHERE amount_out > 0
	`).Scan(&counts.TotalExpenses, &counts.Labeled, &counts.Corrected)
	if err != nil {
		return nil, fmt.Errorf("failed to count labels: %w", err)
	}
	return &counts, nil
}

// CountEligibleCorrections counts corrections not yet consumed by training.
func (s *SQLiteStorage) CountEligibleCorrections(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+eligibleCorrectionWhere,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count corrections: %w", err)
	}
	return count, nil
}

// FindEligibleCorrections returns the corrected transactions the next
// training run should consume, oldest first.
func (s *SQLiteStorage) FindEligibleCorrections(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE `+eligibleCorrectionWhere+`
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// MarkCorrectionsUsed flags every currently-eligible correction as consumed
// and returns the number of rows affected.
func (s *SQLiteStorage) MarkCorrectionsUsed(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET used_for_training = 1 WHERE `+eligibleCorrectionWhere)
	if err != nil {
		return 0, fmt.Errorf("failed to mark corrections used: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

// requireRow maps a zero-row update to ErrNotFound.
func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		remark     sql.NullString
		predicted  sql.NullInt64
		confidence sql.NullFloat64
		corrected  sql.NullInt64
	)

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.AmountIn,
		&txn.AmountOut,
		&remark,
		&predicted,
		&confidence,
		&corrected,
		&txn.UsedForTraining,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Remark = remark.String
	if predicted.Valid {
		v := int(predicted.Int64)
		txn.PredictedCategory = &v
	}
	if confidence.Valid {
		v := confidence.Float64
		txn.PredictedConfidence = &v
	}
	if corrected.Valid {
		v := int(corrected.Int64)
		txn.CorrectedCategory = &v
	}
	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
