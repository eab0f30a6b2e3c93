// Package labeler orchestrates classification of imported transactions: it
// feeds unlabeled expenses through the classifier gateway, records user
// corrections, and exports the correction set for retraining.
package labeler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pandeyaakriti/finPal/internal/classifier"
	"github.com/pandeyaakriti/finPal/internal/service"
)

// probeText is a known-good remark used to verify the classifier end to end.
const probeText = "Netflix subscription test"

// Labeler coordinates batch and single-transaction labeling.
type Labeler struct {
	store           service.Storage
	gateway         classifier.Gateway
	logger          *slog.Logger
	afterCorrection func(context.Context)
	onProgress      func(done, total int)
}

// Option customizes a Labeler.
type Option func(*Labeler)

// WithAfterCorrection registers a hook invoked after every recorded
// correction. The retraining coordinator uses it to run its threshold check.
func WithAfterCorrection(fn func(context.Context)) Option {
	return func(l *Labeler) { l.afterCorrection = fn }
}

// WithProgress registers a callback invoked after each transaction in a
// batch labeling run.
func WithProgress(fn func(done, total int)) Option {
	return func(l *Labeler) { l.onProgress = fn }
}

// New creates a labeler backed by the given store and classifier gateway.
func New(store service.Storage, gateway classifier.Gateway, logger *slog.Logger, opts ...Option) *Labeler {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Labeler{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BatchResult summarizes one batch labeling run.
type BatchResult struct {
	Found   int
	Labeled int
	Failed  int
}

// LabelUnlabeled classifies every unlabeled expense transaction, optionally
// scoped to one user. Transactions are processed strictly sequentially to
// bound load on the classifier service. A single transaction's failure is
// counted and the batch continues.
func (l *Labeler) LabelUnlabeled(ctx context.Context, userID *int64) (BatchResult, error) {
	txns, err := l.store.FindUnlabeledExpenses(ctx, userID)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to fetch unlabeled transactions: %w", err)
	}

	result := BatchResult{Found: len(txns)}
	if len(txns) == 0 {
		l.logger.Info("no unlabeled transactions to process")
		return result, nil
	}

	l.logger.Info("starting batch labeling", "count", len(txns))

	for i, txn := range txns {
		select {
		case <-ctx.Done():
			l.logger.Info("batch labeling interrupted",
				"labeled", result.Labeled,
				"failed", result.Failed)
			return result, ctx.Err()
		default:
		}

		if err := l.labelTransaction(ctx, txn.ID, txn.Remark); err != nil {
			result.Failed++
			l.logger.Error("failed to label transaction",
				"transaction_id", txn.ID,
				"error", err)
		} else {
			result.Labeled++
		}

		if l.onProgress != nil {
			l.onProgress(i+1, len(txns))
		}
	}

	l.logger.Info("batch labeling complete",
		"labeled", result.Labeled,
		"failed", result.Failed)
	return result, nil
}

// LabelUnlabeledAsync launches a batch labeling run in the background,
// detached from the caller's lifetime. Errors are logged, never returned;
// the trigger site only gets an acknowledgment that the run started.
func (l *Labeler) LabelUnlabeledAsync(userID *int64) {
	go func() {
		result, err := l.LabelUnlabeled(context.Background(), userID)
		if err != nil {
			l.logger.Error("background labeling run failed",
				"labeled", result.Labeled,
				"failed", result.Failed,
				"error", err)
		}
	}()
}

// LabelOne classifies exactly one transaction. Transactions without a
// remark are skipped silently.
func (l *Labeler) LabelOne(ctx context.Context, id int64) error {
	txn, err := l.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if txn.Remark == "" {
		l.logger.Debug("transaction has no remark, skipping", "transaction_id", id)
		return nil
	}

	return l.labelTransaction(ctx, txn.ID, txn.Remark)
}

func (l *Labeler) labelTransaction(ctx context.Context, id int64, remark string) error {
	prediction, err := l.gateway.Classify(ctx, remark)
	if err != nil {
		return err
	}

	if err := l.store.UpdateTransactionPrediction(ctx, id, prediction.CategoryID, prediction.Confidence); err != nil {
		return fmt.Errorf("failed to persist prediction: %w", err)
	}

	l.logger.Debug("transaction labeled",
		"transaction_id", id,
		"category", prediction.CategoryID,
		"confidence", prediction.Confidence)
	return nil
}

// Correct records a user correction for a transaction and notifies the
// retraining hook. Unknown transaction ids surface as ErrNotFound.
func (l *Labeler) Correct(ctx context.Context, id int64, categoryID int) error {
	if err := l.store.UpdateTransactionCorrection(ctx, id, categoryID); err != nil {
		return err
	}

	l.logger.Info("correction recorded",
		"transaction_id", id,
		"category", categoryID)

	if l.afterCorrection != nil {
		l.afterCorrection(ctx)
	}
	return nil
}

// Stats describes labeling coverage over expense transactions.
type Stats struct {
	TotalExpenses int
	Labeled       int
	Unlabeled     int
	Corrected     int
	LabelingRate  float64
}

// Stats computes labeling coverage counts and rate.
func (l *Labeler) Stats(ctx context.Context) (*Stats, error) {
	counts, err := l.store.LabelingCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load labeling counts: %w", err)
	}

	stats := &Stats{
		TotalExpenses: counts.TotalExpenses,
		Labeled:       counts.Labeled,
		Unlabeled:     counts.TotalExpenses - counts.Labeled,
		Corrected:     counts.Corrected,
	}
	if counts.TotalExpenses > 0 {
		stats.LabelingRate = float64(counts.Labeled) / float64(counts.TotalExpenses) * 100
	}
	return stats, nil
}

// Ping classifies a canned probe text to verify the classifier is reachable
// and producing valid output.
func (l *Labeler) Ping(ctx context.Context) error {
	prediction, err := l.gateway.Classify(ctx, probeText)
	if err != nil {
		return fmt.Errorf("classifier probe failed: %w", err)
	}
	l.logger.Info("classifier probe succeeded",
		"category", prediction.CategoryID,
		"confidence", prediction.Confidence)
	return nil
}
