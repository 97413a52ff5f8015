package storage

import (
	"context"
	"fmt"
)

// Aggregate sums are returned in cents. SUM over BIGINT is NUMERIC in
// postgres, so every sum is cast back to BIGINT.

const sumIncomeExpenses = `SELECT
    CAST(COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END), 0) AS BIGINT),
    CAST(COALESCE(SUM(CASE WHEN amount_cents < 0 THEN amount_cents ELSE 0 END), 0) AS BIGINT)
FROM transactions
WHERE user_id = ?`

// SumIncomeExpenses returns the positive and the (negative) expense sums.
func (q *Queries) SumIncomeExpenses(ctx context.Context, userID int64) (income, expenses int64, err error) {
	err = q.queryRow(ctx, sumIncomeExpenses, userID).Scan(&income, &expenses)
	return income, expenses, wrapErr("sum income and expenses", err)
}

type CategorySumRow struct {
	CategoryName string
	SumCents     int64
}

const categorySums = `SELECT c.name, CAST(SUM(t.amount_cents) AS BIGINT)
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = ? AND %s
GROUP BY c.id, c.name
ORDER BY c.name, c.id`

// CategorySums groups the user's income (positive=true) or expenses by
// category. Sums keep their sign.
func (q *Queries) CategorySums(ctx context.Context, userID int64, positive bool) ([]CategorySumRow, error) {
	cond := "t.amount_cents < 0"
	if positive {
		cond = "t.amount_cents > 0"
	}
	rows, err := q.query(ctx, fmt.Sprintf(categorySums, cond), userID)
	if err != nil {
		return nil, wrapErr("category sums", err)
	}
	defer rows.Close()

	items := make([]CategorySumRow, 0)
	for rows.Next() {
		var r CategorySumRow
		if err := rows.Scan(&r.CategoryName, &r.SumCents); err != nil {
			return nil, wrapErr("scan category sum", err)
		}
		items = append(items, r)
	}
	return items, wrapErr("category sums", rows.Err())
}

type DailySumRow struct {
	Day          string
	IncomeCents  int64
	ExpenseCents int64
	NetCents     int64
}

const dailySums = `SELECT %s AS day,
    CAST(COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END), 0) AS BIGINT),
    CAST(COALESCE(SUM(CASE WHEN amount_cents < 0 THEN amount_cents ELSE 0 END), 0) AS BIGINT),
    CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)
FROM transactions
WHERE user_id = ?
GROUP BY 1
ORDER BY 1`

// DailySums partitions the user's postings by calendar day, ascending.
func (q *Queries) DailySums(ctx context.Context, userID int64) ([]DailySumRow, error) {
	rows, err := q.query(ctx, fmt.Sprintf(dailySums, q.dialect.DayExpr("occurred_at")), userID)
	if err != nil {
		return nil, wrapErr("daily sums", err)
	}
	defer rows.Close()

	items := make([]DailySumRow, 0)
	for rows.Next() {
		var r DailySumRow
		if err := rows.Scan(&r.Day, &r.IncomeCents, &r.ExpenseCents, &r.NetCents); err != nil {
			return nil, wrapErr("scan daily sum", err)
		}
		items = append(items, r)
	}
	return items, wrapErr("daily sums", rows.Err())
}
