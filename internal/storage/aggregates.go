package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pandeyaakriti/finPal/internal/service"
)

// AggregateMonthly groups a user's transactions by calendar month and sums
// income and expenses per month, oldest month first.
func (s *SQLiteStorage) AggregateMonthly(ctx context.Context, userID int64, since time.Time) ([]service.MonthlyAggregate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', created_at) AS month,
			SUM(amount_in),
			SUM(amount_out)
		FROM transactions
		WHERE user_id = ? AND created_at >= ?
		GROUP BY month
		ORDER BY month`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate months: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var aggregates []service.MonthlyAggregate
	for rows.Next() {
		var agg service.MonthlyAggregate
		if scanErr := rows.Scan(&agg.Month, &agg.Income, &agg.Expenses); scanErr != nil {
			return nil, fmt.Errorf("failed to scan monthly aggregate: %w", scanErr)
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregates: %w", err)
	}
	return aggregates, nil
}

// AggregateCategorySpend sums a user's expense amounts grouped by effective
// category (correction wins over prediction), largest spend first. The nil
// category collects spend with no label at all.
func (s *SQLiteStorage) AggregateCategorySpend(ctx context.Context, userID int64, since time.Time) ([]service.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(corrected_category, predicted_category) AS category,
			SUM(amount_out) AS total
		FROM transactions
		WHERE user_id = ? AND amount_out > 0 AND created_at >= ?
		GROUP BY category
		ORDER BY total DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category spend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var spends []service.CategorySpend
	for rows.Next() {
		var (
			category sql.NullInt64
			spend    service.CategorySpend
		)
		if scanErr := rows.Scan(&category, &spend.Amount); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", scanErr)
		}
		if category.Valid {
			v := int(category.Int64)
			spend.CategoryID = &v
		}
		spends = append(spends, spend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category spend: %w", err)
	}
	return spends, nil
}
