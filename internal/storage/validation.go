package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pandeyaakriti/finPal/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidJob         = errors.New("invalid retraining job")
	ErrInvalidCategory    = errors.New("invalid category id")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 1")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(txns []model.Transaction) error {
	if txns == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(txns) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range txns {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidTransaction)
	}
	if txn.AmountIn < 0 || txn.AmountOut < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	return nil
}

// validateCategoryID ensures the id falls inside the label space.
func validateCategoryID(id int) error {
	if !model.ValidCategoryID(id) {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, id)
	}
	return nil
}

// validateConfidence ensures a confidence score is within [0, 1].
func validateConfidence(confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidConfidence, confidence)
	}
	return nil
}

// validateJob validates a retraining job before insertion.
func validateJob(job *model.RetrainingJob) error {
	if job == nil {
		return fmt.Errorf("%w: job", ErrNilParameter)
	}
	if strings.TrimSpace(job.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidJob)
	}
	if !job.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidJob, job.Status)
	}
	if job.TotalCorrections < 0 {
		return fmt.Errorf("%w: negative corrections count", ErrInvalidJob)
	}
	return nil
}
