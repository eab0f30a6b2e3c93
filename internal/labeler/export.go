package labeler

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pandeyaakriti/finPal/internal/model"
)

// ExportCorrections writes the text,label CSV consumed by the external
// trainer: one row per eligible corrected transaction, category id resolved
// to its label name. Returns the number of data rows written. Quoting
// follows RFC 4180, so embedded double quotes come out doubled.
func (l *Labeler) ExportCorrections(ctx context.Context, w io.Writer) (int, error) {
	txns, err := l.store.FindEligibleCorrections(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch corrections: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"text", "label"}); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	written := 0
	for _, txn := range txns {
		if txn.CorrectedCategory == nil || txn.Remark == "" {
			continue
		}
		record := []string{txn.Remark, model.CategoryName(*txn.CorrectedCategory)}
		if err := cw.Write(record); err != nil {
			return written, fmt.Errorf("failed to write CSV row: %w", err)
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("failed to flush CSV: %w", err)
	}

	l.logger.Info("corrections exported", "rows", written)
	return written, nil
}
